package health

import (
	"context"
	"fmt"
	"time"

	"github.com/bondradar/bondmon/pkg/cache"
	"github.com/bondradar/bondmon/pkg/errlog"
	"github.com/bondradar/bondmon/pkg/gateway"
)

// Alert thresholds for the built-in checks.
const (
	// Cache usage as a fraction of capacity.
	CacheUsageWarning = 0.90
	CacheUsageError   = 0.95

	// Critical-severity ledger records within the check window.
	CriticalErrorsWarning = 5
	CriticalErrorsError   = 10

	// Database probe latency.
	DatabaseSlowWarning = 5 * time.Second
	DatabaseSlowError   = 10 * time.Second

	// Process memory usage percent.
	MemoryUsageWarning = 75.0
	MemoryUsageError   = 90.0
)

// CacheStatser is the slice of the cache the check reads.
type CacheStatser interface {
	Stats() cache.Stats
}

// CacheCheck reports warning above 90% of capacity and error above
// 95%. Unbounded caches always report healthy usage.
func CacheCheck(store CacheStatser) CheckFunc {
	return func(ctx context.Context) ComponentHealth {
		stats := store.Stats()
		usage := stats.Usage()

		status := StatusHealthy
		message := fmt.Sprintf("cache at %.1f%% of capacity", usage*100)
		switch {
		case stats.Capacity > 0 && usage > CacheUsageError:
			status = StatusError
			message = fmt.Sprintf("cache nearly full: %.1f%% of capacity", usage*100)
		case stats.Capacity > 0 && usage > CacheUsageWarning:
			status = StatusWarning
			message = fmt.Sprintf("cache filling up: %.1f%% of capacity", usage*100)
		}

		return ComponentHealth{
			Status:  status,
			Message: message,
			Details: map[string]any{
				"size":             stats.Size,
				"capacity":         stats.Capacity,
				"usage_percent":    usage * 100,
				"hit_rate_percent": stats.HitRate() * 100,
				"hits":             stats.Hits,
				"misses":           stats.Misses,
				"evictions":        stats.Evictions,
			},
		}
	}
}

// ErrorsCheck reports warning at 5 and error at 10 critical-severity
// ledger records within the window. A zero window inspects all
// retained records.
func ErrorsCheck(ledger *errlog.Ledger, window time.Duration) CheckFunc {
	return func(ctx context.Context) ComponentHealth {
		count := ledger.CriticalCount(window)

		status := StatusHealthy
		message := fmt.Sprintf("%d critical errors in window", count)
		switch {
		case count >= CriticalErrorsError:
			status = StatusError
			message = fmt.Sprintf("critical error storm: %d in window", count)
		case count >= CriticalErrorsWarning:
			status = StatusWarning
			message = fmt.Sprintf("elevated critical errors: %d in window", count)
		}

		return ComponentHealth{
			Status:  status,
			Message: message,
			Details: map[string]any{
				"critical_count": count,
				"window_seconds": window.Seconds(),
				"total_retained": ledger.Total(),
			},
		}
	}
}

// DatabaseProbe measures one round trip to the database, returning its
// latency and the user row count.
type DatabaseProbe func(ctx context.Context) (time.Duration, int64, error)

// DatabaseCheck reports error on probe failure or >10s latency, and
// warning above 5s.
func DatabaseCheck(probe DatabaseProbe) CheckFunc {
	return func(ctx context.Context) ComponentHealth {
		elapsed, userCount, err := probe(ctx)
		if err != nil {
			return ComponentHealth{
				Status:  StatusError,
				Message: "database probe failed",
				Err:     err.Error(),
			}
		}

		status := StatusHealthy
		message := "database responding"
		switch {
		case elapsed > DatabaseSlowError:
			status = StatusError
			message = fmt.Sprintf("database responding very slowly: %s", elapsed.Round(time.Millisecond))
		case elapsed > DatabaseSlowWarning:
			status = StatusWarning
			message = fmt.Sprintf("database responding slowly: %s", elapsed.Round(time.Millisecond))
		}

		return ComponentHealth{
			Status:  status,
			Message: message,
			Details: map[string]any{
				"probe_ms":   float64(elapsed.Microseconds()) / 1000.0,
				"user_count": userCount,
			},
		}
	}
}

// MemoryProbe returns the process memory usage percent.
type MemoryProbe func(ctx context.Context) (float64, error)

// MemoryCheck reports warning above 75% and error above 90% process
// memory usage. A probe that cannot measure reports unknown rather
// than failing the system.
func MemoryCheck(probe MemoryProbe) CheckFunc {
	return func(ctx context.Context) ComponentHealth {
		percent, err := probe(ctx)
		if err != nil {
			return ComponentHealth{
				Status:  StatusUnknown,
				Message: "memory usage unavailable",
				Err:     err.Error(),
			}
		}

		status := StatusHealthy
		message := fmt.Sprintf("memory at %.1f%%", percent)
		switch {
		case percent > MemoryUsageError:
			status = StatusError
			message = fmt.Sprintf("memory critically high: %.1f%%", percent)
		case percent > MemoryUsageWarning:
			status = StatusWarning
			message = fmt.Sprintf("memory elevated: %.1f%%", percent)
		}

		return ComponentHealth{
			Status:  status,
			Message: message,
			Details: map[string]any{"usage_percent": percent},
		}
	}
}

// GatewayCheck judges the external source from the gateway's passive
// reachability state; it never issues a remote call itself.
func GatewayCheck(reach func() gateway.Reachability) CheckFunc {
	return func(ctx context.Context) ComponentHealth {
		state := reach()

		details := map[string]any{
			"consecutive_failures": state.ConsecutiveFailures,
			"total_fetches":        state.TotalFetches,
			"total_failures":       state.TotalFailures,
		}
		if !state.LastSuccess.IsZero() {
			details["last_success"] = state.LastSuccess
		}
		if !state.LastFailure.IsZero() {
			details["last_failure"] = state.LastFailure
		}

		switch {
		case state.Unobserved():
			return ComponentHealth{
				Status:  StatusUnknown,
				Message: "no remote fetches observed yet",
				Details: details,
			}
		case state.Unreachable():
			return ComponentHealth{
				Status:  StatusError,
				Message: fmt.Sprintf("remote source unreachable: %d consecutive failures", state.ConsecutiveFailures),
				Details: details,
			}
		case state.Degraded():
			return ComponentHealth{
				Status:  StatusWarning,
				Message: "remote source recently failing",
				Details: details,
			}
		default:
			return ComponentHealth{
				Status:  StatusHealthy,
				Message: "remote source reachable",
				Details: details,
			}
		}
	}
}
