package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bondradar/bondmon/pkg/logging"
)

// CheckFunc inspects one component and reports its health. The ctx is
// already bounded by the registry's per-check timeout.
type CheckFunc func(ctx context.Context) ComponentHealth

// Config holds registry configuration.
type Config struct {
	// CheckTimeout bounds each individual check.
	CheckTimeout time.Duration

	// DefaultInterval is the minimum time between re-runs of a check;
	// within it the cached result is reused unless forced. Zero means
	// every pass runs every check.
	DefaultInterval time.Duration

	// Version is reported in every SystemHealth snapshot.
	Version string
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		CheckTimeout:    10 * time.Second,
		DefaultInterval: 30 * time.Second,
	}
}

type entry struct {
	name     string
	check    CheckFunc
	interval time.Duration

	last      ComponentHealth
	lastRun   time.Time
	hasResult bool
}

// Registry holds named component checks and runs them as one pass.
// Checks run concurrently, each under its own timeout; results are
// reported in registration order.
type Registry struct {
	mu      sync.Mutex
	entries []*entry
	byName  map[string]*entry

	cfg     Config
	started time.Time
	logger  zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = DefaultConfig().CheckTimeout
	}
	return &Registry{
		byName:  make(map[string]*entry),
		cfg:     cfg,
		started: time.Now(),
		logger:  logging.NewLogger("health"),
	}
}

// Register adds a check under the given name with the default re-check
// interval. Re-registering a name replaces the check but keeps its
// position in the reporting order.
func (r *Registry) Register(name string, check CheckFunc) {
	r.RegisterEvery(name, r.cfg.DefaultInterval, check)
}

// RegisterEvery adds a check with its own minimum re-check interval.
func (r *Registry) RegisterEvery(name string, interval time.Duration, check CheckFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byName[name]; ok {
		existing.check = check
		existing.interval = interval
		existing.hasResult = false
		return
	}

	e := &entry{name: name, check: check, interval: interval}
	r.entries = append(r.entries, e)
	r.byName[name] = e
	r.logger.Debug().Str("component", name).Dur("interval", interval).Msg("Registered health check")
}

// Unregister removes the named check. It reports whether the check was
// present.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byName[name]
	if !ok {
		return false
	}
	delete(r.byName, name)
	for i, candidate := range r.entries {
		if candidate == e {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	ComponentStatus.DeleteLabelValues(name)
	return true
}

// RunAll runs a health pass reusing cached results for checks still
// within their re-check interval.
func (r *Registry) RunAll(ctx context.Context) SystemHealth {
	return r.run(ctx, false)
}

// ForceRunAll runs a health pass ignoring cached results.
func (r *Registry) ForceRunAll(ctx context.Context) SystemHealth {
	return r.run(ctx, true)
}

// RunCheck runs (or serves from cache) the single named check.
func (r *Registry) RunCheck(ctx context.Context, name string, force bool) (ComponentHealth, error) {
	r.mu.Lock()
	e, ok := r.byName[name]
	if !ok {
		r.mu.Unlock()
		return ComponentHealth{}, fmt.Errorf("unknown health component: %s", name)
	}
	if !force && e.hasResult && time.Since(e.lastRun) < e.interval {
		cached := e.last
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	result := r.runOne(ctx, e)

	r.mu.Lock()
	e.last = result
	e.lastRun = time.Now()
	e.hasResult = true
	r.mu.Unlock()

	ComponentStatus.WithLabelValues(name).Set(float64(result.Status.rank()))
	return result, nil
}

// Last returns a snapshot assembled from cached results without
// running any check. Components never run yet report unknown.
func (r *Registry) Last() SystemHealth {
	r.mu.Lock()
	components := make([]ComponentHealth, 0, len(r.entries))
	for _, e := range r.entries {
		if e.hasResult {
			components = append(components, e.last)
			continue
		}
		components = append(components, ComponentHealth{
			Name:    e.name,
			Status:  StatusUnknown,
			Message: "not checked yet",
		})
	}
	r.mu.Unlock()

	return r.assemble(components)
}

// StartPeriodic runs scheduled health passes until ctx is cancelled.
// Interval caching still applies per check.
func (r *Registry) StartPeriodic(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.RunAll(ctx)
			}
		}
	}()
}

func (r *Registry) run(ctx context.Context, force bool) SystemHealth {
	start := time.Now()

	type job struct {
		idx int
		e   *entry
	}

	r.mu.Lock()
	results := make([]ComponentHealth, len(r.entries))
	jobs := make([]job, 0, len(r.entries))
	now := time.Now()
	for i, e := range r.entries {
		if !force && e.hasResult && now.Sub(e.lastRun) < e.interval {
			results[i] = e.last
			continue
		}
		jobs = append(jobs, job{idx: i, e: e})
	}
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			results[j.idx] = r.runOne(ctx, j.e)
		}(j)
	}
	wg.Wait()

	r.mu.Lock()
	now = time.Now()
	for _, j := range jobs {
		j.e.last = results[j.idx]
		j.e.lastRun = now
		j.e.hasResult = true
	}
	r.mu.Unlock()

	trigger := "scheduled"
	if force {
		trigger = "forced"
	}
	Runs.WithLabelValues(trigger).Inc()
	for _, c := range results {
		ComponentStatus.WithLabelValues(c.Name).Set(float64(c.Status.rank()))
	}

	system := r.assemble(results)
	OverallStatus.Set(float64(system.OverallStatus.rank()))

	event := r.logger.Debug()
	if system.OverallStatus == StatusError {
		event = r.logger.Error()
	} else if system.OverallStatus == StatusWarning {
		event = r.logger.Warn()
	}
	event.
		Str("status", string(system.OverallStatus)).
		Int("components", len(results)).
		Int("checked", len(jobs)).
		Bool("forced", force).
		Dur("duration", time.Since(start)).
		Msg("Health pass complete")

	return system
}

// runOne executes a single check under the per-check timeout. A check
// that overruns or panics yields an error result instead of blocking
// or killing the pass.
func (r *Registry) runOne(ctx context.Context, e *entry) ComponentHealth {
	checkCtx, cancel := context.WithTimeout(ctx, r.cfg.CheckTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan ComponentHealth, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- ComponentHealth{
					Status:  StatusError,
					Message: "health check panicked",
					Err:     fmt.Sprintf("panic: %v", p),
				}
			}
		}()
		done <- e.check(checkCtx)
	}()

	var result ComponentHealth
	select {
	case result = <-done:
	case <-checkCtx.Done():
		errText := "timeout"
		if checkCtx.Err() != context.DeadlineExceeded {
			errText = checkCtx.Err().Error()
		}
		result = ComponentHealth{
			Status:  StatusError,
			Message: "health check did not finish in time",
			Err:     errText,
		}
	}

	elapsed := time.Since(start)
	result.Name = e.name
	result.ResponseTimeMs = float64(elapsed.Microseconds()) / 1000.0
	result.LastChecked = time.Now()

	CheckDuration.WithLabelValues(e.name).Observe(elapsed.Seconds())

	if result.Status == StatusError || result.Status == StatusWarning {
		r.logger.Warn().
			Str("component", e.name).
			Str("status", string(result.Status)).
			Str("error", result.Err).
			Dur("duration", elapsed).
			Msg(result.Message)
	}
	return result
}

func (r *Registry) assemble(components []ComponentHealth) SystemHealth {
	return SystemHealth{
		OverallStatus: Reduce(components),
		Components:    components,
		GeneratedAt:   time.Now(),
		UptimeSeconds: time.Since(r.started).Seconds(),
		Version:       r.cfg.Version,
	}
}
