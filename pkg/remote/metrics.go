package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests tracks remote HTTP requests by response status
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondmon_remote_requests_total",
			Help: "Total remote HTTP requests by response status",
		},
		[]string{"status"},
	)

	// Errors tracks remote request errors by class
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondmon_remote_errors_total",
			Help: "Total remote request errors by error class",
		},
		[]string{"error_class"},
	)

	// Retries tracks retry attempts by error class
	Retries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondmon_remote_retries_total",
			Help: "Total retry attempts by error class",
		},
		[]string{"error_class"},
	)

	// RetryBackoff tracks backoff durations by error class
	RetryBackoff = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bondmon_remote_retry_backoff_seconds",
			Help:    "Backoff duration for retries by error class",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"error_class"},
	)

	// RetryExhausted counts fetches that failed after all attempts
	RetryExhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondmon_remote_retry_exhausted_total",
			Help: "Total fetches that exhausted all retry attempts by error class",
		},
		[]string{"error_class"},
	)

	// RequestDuration tracks remote request round-trip time
	RequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bondmon_remote_request_duration_seconds",
			Help:    "Remote request round-trip time in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// BreakerState reports the circuit breaker state (0 closed, 1 half-open, 2 open)
	BreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bondmon_remote_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)
)
