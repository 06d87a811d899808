// Package metrics provides the centralized Prometheus registry for the
// monitoring subsystem. All metrics are defined in their respective
// packages (cache, errlog, gateway, health, remote) to maintain
// modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the service.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - bondmon_cache_hits_total{cache} (Counter): Cache hits by cache name
//   - bondmon_cache_misses_total{cache} (Counter): Cache misses by cache name
//   - bondmon_cache_evictions_total{cache} (Counter): Capacity evictions by cache name
//   - bondmon_cache_entries{cache} (Gauge): Current live entries by cache name
//   - bondmon_cache_sweep_removed_total{cache} (Counter): Expired entries removed by sweeps
//
// Error Ledger Metrics (pkg/errlog):
//   - bondmon_errors_recorded_total{category, severity} (Counter): Recorded errors
//   - bondmon_error_ledger_records (Gauge): Records currently retained
//   - bondmon_error_ledger_resets_total (Counter): Ledger resets
//
// Gateway Metrics (pkg/gateway):
//   - bondmon_gateway_fetches_total{outcome} (Counter): Fetches by outcome (hit, fetched, error)
//   - bondmon_gateway_coalesced_total (Counter): Fetches coalesced onto an in-flight call
//   - bondmon_gateway_batch_duration_seconds (Histogram): Batch fetch duration
//   - bondmon_gateway_batch_keys (Histogram): Distinct keys per batch
//
// Health Metrics (pkg/health):
//   - bondmon_health_component_status{component} (Gauge): Status rank per component
//   - bondmon_health_overall_status (Gauge): Reduced system status rank
//   - bondmon_health_check_duration_seconds{component} (Histogram): Check duration
//   - bondmon_health_runs_total{trigger} (Counter): Health passes by trigger
//
// Remote Metrics (pkg/remote):
//   - bondmon_remote_requests_total{status} (Counter): HTTP requests by response status
//   - bondmon_remote_errors_total{error_class} (Counter): Errors by class
//   - bondmon_remote_retries_total{error_class} (Counter): Retry attempts by error class
//   - bondmon_remote_retry_backoff_seconds{error_class} (Histogram): Backoff durations
//   - bondmon_remote_retry_exhausted_total{error_class} (Counter): Fetches out of attempts
//   - bondmon_remote_request_duration_seconds (Histogram): Round-trip time
//   - bondmon_remote_breaker_state (Gauge): Circuit breaker state (0 closed, 1 half-open, 2 open)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(bondmon_cache_hits_total[5m])) /
//   (sum(rate(bondmon_cache_hits_total[5m])) + sum(rate(bondmon_cache_misses_total[5m])))
//
//   # Components currently degraded
//   bondmon_health_component_status >= 2
//
//   # Remote Error Rate
//   rate(bondmon_remote_errors_total[5m])
//
//   # P95 Batch Fetch Latency
//   histogram_quantile(0.95, rate(bondmon_gateway_batch_duration_seconds_bucket[5m]))
