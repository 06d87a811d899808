package health

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ComponentStatus reports each component's status as its severity
	// rank (0 healthy, 1 unknown, 2 warning, 3 error)
	ComponentStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bondmon_health_component_status",
			Help: "Component health status (0 healthy, 1 unknown, 2 warning, 3 error)",
		},
		[]string{"component"},
	)

	// OverallStatus reports the reduced system status as its severity rank
	OverallStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bondmon_health_overall_status",
			Help: "Overall system health status (0 healthy, 1 unknown, 2 warning, 3 error)",
		},
	)

	// CheckDuration tracks how long individual checks take
	CheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bondmon_health_check_duration_seconds",
			Help:    "Duration of individual health checks in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"component"},
	)

	// Runs counts health passes by trigger
	Runs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondmon_health_runs_total",
			Help: "Total health passes by trigger (scheduled, forced)",
		},
		[]string{"trigger"},
	)
)
