// Package probe provides concrete dependency probes for the health
// registry: a database round trip, a redis ping and a process memory
// reading.
package probe

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/bondradar/bondmon/pkg/health"
)

// Database probes the user store with a cheap aggregate query and
// reports the round-trip latency together with the row count.
func Database(db *sqlx.DB) health.DatabaseProbe {
	return func(ctx context.Context) (time.Duration, int64, error) {
		start := time.Now()
		var count int64
		if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users"); err != nil {
			return time.Since(start), 0, fmt.Errorf("database probe: %w", err)
		}
		return time.Since(start), count, nil
	}
}

// Redis probes a redis instance with PING and reports its latency.
func Redis(client *redis.Client) health.CheckFunc {
	return func(ctx context.Context) health.ComponentHealth {
		start := time.Now()
		if err := client.Ping(ctx).Err(); err != nil {
			return health.ComponentHealth{
				Status:  health.StatusError,
				Message: "redis unreachable",
				Err:     err.Error(),
			}
		}
		latency := time.Since(start)
		return health.ComponentHealth{
			Status:  health.StatusHealthy,
			Message: "redis responding",
			Details: map[string]any{
				"ping_ms": float64(latency.Microseconds()) / 1000.0,
			},
		}
	}
}

// ProcessMemory reads this process's memory usage as a percentage of
// system memory. Platforms without process inspection surface an
// error, which the memory check maps to an unknown status.
func ProcessMemory() health.MemoryProbe {
	pid := int32(os.Getpid())
	return func(ctx context.Context) (float64, error) {
		proc, err := process.NewProcessWithContext(ctx, pid)
		if err != nil {
			return 0, fmt.Errorf("memory probe: %w", err)
		}
		percent, err := proc.MemoryPercentWithContext(ctx)
		if err != nil {
			return 0, fmt.Errorf("memory probe: %w", err)
		}
		return float64(percent), nil
	}
}
