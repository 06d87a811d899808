package gateway

import (
	"sync"
	"time"
)

// Thresholds for reachability decisions.
const (
	// FailureThresholdUnreachable marks the remote source unreachable
	// once this many fetches have failed in a row.
	FailureThresholdUnreachable = 3

	// RecentFailureWindow is how long after a failure the source is
	// still considered degraded even when later fetches succeed.
	RecentFailureWindow = 5 * time.Minute
)

// Reachability is a snapshot of the remote source's last-known state.
// The health registry reads it instead of probing the source itself,
// so a health pass never issues remote calls.
type Reachability struct {
	// LastSuccess is the time of the most recent successful fetch.
	LastSuccess time.Time `json:"last_success"`

	// LastFailure is the time of the most recent failed fetch.
	LastFailure time.Time `json:"last_failure"`

	// ConsecutiveFailures counts failures since the last success.
	ConsecutiveFailures int `json:"consecutive_failures"`

	// TotalFetches counts all remote calls issued.
	TotalFetches uint64 `json:"total_fetches"`

	// TotalFailures counts all remote calls that failed.
	TotalFailures uint64 `json:"total_failures"`
}

// Unreachable returns true once consecutive failures cross the
// threshold.
func (r Reachability) Unreachable() bool {
	return r.ConsecutiveFailures >= FailureThresholdUnreachable
}

// Degraded returns true when a failure occurred within the recent
// window but the source is not yet unreachable.
func (r Reachability) Degraded() bool {
	if r.Unreachable() {
		return false
	}
	return !r.LastFailure.IsZero() && time.Since(r.LastFailure) < RecentFailureWindow
}

// Unobserved returns true when no remote call has completed yet, so
// reachability cannot be judged.
func (r Reachability) Unobserved() bool {
	return r.TotalFetches == 0
}

// reachabilityTracker accumulates fetch outcomes behind a mutex.
type reachabilityTracker struct {
	mu    sync.Mutex
	state Reachability
}

func (t *reachabilityTracker) recordSuccess() {
	t.mu.Lock()
	t.state.TotalFetches++
	t.state.ConsecutiveFailures = 0
	t.state.LastSuccess = time.Now()
	t.mu.Unlock()
}

func (t *reachabilityTracker) recordFailure() {
	t.mu.Lock()
	t.state.TotalFetches++
	t.state.TotalFailures++
	t.state.ConsecutiveFailures++
	t.state.LastFailure = time.Now()
	t.mu.Unlock()
}

func (t *reachabilityTracker) snapshot() Reachability {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
