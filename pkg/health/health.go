package health

import "time"

// ComponentHealth is the outcome of one component check.
type ComponentHealth struct {
	// Name identifies the checked component.
	Name string `json:"name"`

	// Status is the component verdict.
	Status Status `json:"status"`

	// Message is a human-readable summary of the verdict.
	Message string `json:"message,omitempty"`

	// ResponseTimeMs is how long the check itself took.
	ResponseTimeMs float64 `json:"response_time_ms"`

	// LastChecked is when the check last actually ran. Cached results
	// keep the timestamp of the run that produced them.
	LastChecked time.Time `json:"last_checked"`

	// Details carries check-specific measurements.
	Details map[string]any `json:"details,omitempty"`

	// Err is the failure description when the check failed or timed
	// out.
	Err string `json:"error,omitempty"`
}

// SystemHealth is the reduced verdict over all registered components.
type SystemHealth struct {
	// OverallStatus is the worst component status.
	OverallStatus Status `json:"overall_status"`

	// Components lists per-component results in registration order.
	Components []ComponentHealth `json:"components"`

	// GeneratedAt is when this snapshot was assembled.
	GeneratedAt time.Time `json:"generated_at"`

	// UptimeSeconds is how long the registry has been alive.
	UptimeSeconds float64 `json:"uptime_seconds"`

	// Version is the running service version.
	Version string `json:"version,omitempty"`
}

// Component returns the named component result, if present.
func (s SystemHealth) Component(name string) (ComponentHealth, bool) {
	for _, c := range s.Components {
		if c.Name == name {
			return c, true
		}
	}
	return ComponentHealth{}, false
}
