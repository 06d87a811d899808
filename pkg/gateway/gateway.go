// Package gateway fetches external records by key through a
// look-aside cache with partial-failure tolerant batch fetches.
//
// The remote source is an injected FetchFunc; the gateway is agnostic
// to what it talks to or what the payload contains. Remote failures
// are recorded to the error ledger and returned to the caller, but
// never cached: a transient outage must not poison subsequent calls
// within the TTL window. Concurrent fetches for the same key are
// coalesced onto one remote call via singleflight.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/bondradar/bondmon/pkg/cache"
	"github.com/bondradar/bondmon/pkg/errlog"
	"github.com/bondradar/bondmon/pkg/logging"
)

// FetchFunc retrieves one record by key from the remote source.
// Implementations must honor ctx cancellation.
type FetchFunc[V any] func(ctx context.Context, key string) (V, error)

// Config holds gateway configuration.
type Config struct {
	// TTL is how long fetched records stay cached (data staleness
	// tolerance, e.g. market data refreshed hourly).
	TTL time.Duration

	// MaxConcurrency bounds the batch fan-out to respect remote rate
	// limits.
	MaxConcurrency int

	// FetchTimeout bounds each remote call. Zero means the caller's
	// context is the only bound.
	FetchTimeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		TTL:            time.Hour,
		MaxConcurrency: 5,
		FetchTimeout:   15 * time.Second,
	}
}

// Gateway resolves records through the cache, the in-flight coalescing
// group and finally the remote source, in that order.
type Gateway[V any] struct {
	fetch  FetchFunc[V]
	cache  *cache.Cache[V]
	ledger *errlog.Ledger
	cfg    Config

	flights singleflight.Group
	reach   reachabilityTracker

	logger zerolog.Logger
}

// New creates a gateway over the given fetch function, cache and
// ledger.
func New[V any](fetch FetchFunc[V], store *cache.Cache[V], ledger *errlog.Ledger, cfg Config) (*Gateway[V], error) {
	if fetch == nil {
		return nil, errors.New("fetch function is required")
	}
	if store == nil {
		return nil, errors.New("cache is required")
	}
	if ledger == nil {
		return nil, errors.New("error ledger is required")
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultConfig().MaxConcurrency
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}

	return &Gateway[V]{
		fetch:  fetch,
		cache:  store,
		ledger: ledger,
		cfg:    cfg,
		logger: logging.NewLogger("gateway"),
	}, nil
}

// FetchOne returns the record for key, consulting the cache first.
// On a miss the remote source is called once per key regardless of how
// many callers arrive concurrently; the result fills the cache with
// the configured TTL. Failures are recorded to the ledger and returned
// without being cached.
func (g *Gateway[V]) FetchOne(ctx context.Context, key string) (V, error) {
	var zero V

	if value, found := g.cache.Get(key); found {
		Fetches.WithLabelValues(outcomeHit).Inc()
		g.logger.Debug().Str("key", key).Bool("cache_hit", true).Msg("Serving from cache")
		return value, nil
	}

	result, err, shared := g.flights.Do(key, func() (any, error) {
		return g.fetchRemote(ctx, key)
	})
	if shared {
		Coalesced.Inc()
	}
	if err != nil {
		return zero, err
	}
	return result.(V), nil
}

// FetchMany resolves the distinct keys concurrently, bounded by
// MaxConcurrency. One key's failure never aborts the others; the
// returned result carries an independent outcome per key. Cancelling
// ctx stops dispatching new fetches promptly; keys never dispatched
// resolve to the context error.
func (g *Gateway[V]) FetchMany(ctx context.Context, keys []string) Result[V] {
	start := time.Now()
	distinct := dedupe(keys)

	BatchKeys.Observe(float64(len(distinct)))

	results := make(Result[V], len(distinct))
	var mu sync.Mutex

	var group errgroup.Group
	group.SetLimit(g.cfg.MaxConcurrency)

	for _, key := range distinct {
		if ctx.Err() != nil {
			mu.Lock()
			results[key] = Outcome[V]{Err: ctx.Err()}
			mu.Unlock()
			continue
		}

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				results[key] = Outcome[V]{Err: err}
				mu.Unlock()
				return nil
			}

			value, err := g.FetchOne(ctx, key)
			mu.Lock()
			if err != nil {
				results[key] = Outcome[V]{Err: err}
			} else {
				results[key] = Outcome[V]{Value: value}
			}
			mu.Unlock()
			return nil
		})
	}

	_ = group.Wait()

	BatchDuration.Observe(time.Since(start).Seconds())

	if failed := results.FailureCount(); failed > 0 {
		g.logger.Warn().
			Int("failed", failed).
			Int("total", len(distinct)).
			Dur("duration", time.Since(start)).
			Msg("Batch fetch finished with partial failures")
	} else {
		g.logger.Debug().
			Int("keys", len(distinct)).
			Dur("duration", time.Since(start)).
			Msg("Batch fetch complete")
	}

	return results
}

// Reachability returns the last-known state of the remote source.
func (g *Gateway[V]) Reachability() Reachability {
	return g.reach.snapshot()
}

// fetchRemote issues the remote call, fills the cache on success and
// records the failure otherwise.
func (g *Gateway[V]) fetchRemote(ctx context.Context, key string) (V, error) {
	var zero V

	fetchCtx := ctx
	if g.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, g.cfg.FetchTimeout)
		defer cancel()
	}

	start := time.Now()
	value, err := g.fetch(fetchCtx, key)
	if err != nil {
		g.reach.recordFailure()
		Fetches.WithLabelValues(outcomeError).Inc()
		g.ledger.Record(errlog.SeverityHigh, errlog.CategoryExternalAPI, "remote fetch failed", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		g.logger.Warn().
			Err(err).
			Str("key", key).
			Dur("duration", time.Since(start)).
			Msg("Remote fetch failed")
		return zero, fmt.Errorf("fetch %s: %w", key, err)
	}

	g.reach.recordSuccess()
	Fetches.WithLabelValues(outcomeFetched).Inc()
	g.cache.Put(key, value, g.cfg.TTL)
	g.logger.Debug().
		Str("key", key).
		Dur("duration", time.Since(start)).
		Dur("ttl", g.cfg.TTL).
		Msg("Fetched and cached record")
	return value, nil
}

// dedupe returns the distinct keys in first-seen order.
func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	distinct := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		distinct = append(distinct, key)
	}
	return distinct
}
