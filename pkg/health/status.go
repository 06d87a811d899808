// Package health runs registered component checks and reduces their
// results into one system verdict.
//
// Checks are cheap local inspections of already-collected state (cache
// stats, ledger counts, gateway reachability) plus explicit dependency
// probes; a health pass must never trigger remote data fetches. Each
// check runs under its own timeout so one stuck dependency cannot
// block the pass, and the system status is the worst component status.
package health

// Status is the health verdict of a component or of the whole system.
type Status string

const (
	StatusHealthy Status = "healthy"
	StatusUnknown Status = "unknown"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// rank orders statuses by severity for reduction. Unknown sits above
// healthy: a component we cannot judge is worse than one we know is
// fine, but better than one reporting trouble.
func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusUnknown:
		return 1
	case StatusWarning:
		return 2
	case StatusError:
		return 3
	default:
		return 1
	}
}

// Reduce returns the worst status among the components. An empty set
// reduces to unknown.
func Reduce(components []ComponentHealth) Status {
	if len(components) == 0 {
		return StatusUnknown
	}
	overall := StatusHealthy
	for _, c := range components {
		if c.Status.rank() > overall.rank() {
			overall = c.Status
		}
	}
	return overall
}
