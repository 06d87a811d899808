package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Fetches tracks gateway fetches by outcome (hit, fetched, error)
	Fetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondmon_gateway_fetches_total",
			Help: "Total gateway fetches by outcome",
		},
		[]string{"outcome"},
	)

	// Coalesced tracks fetches served by an in-flight call for the same key
	Coalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bondmon_gateway_coalesced_total",
			Help: "Total fetches coalesced onto an in-flight remote call",
		},
	)

	// BatchDuration tracks wall-clock duration of batch fetches
	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bondmon_gateway_batch_duration_seconds",
			Help:    "Duration of gateway batch fetches in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// BatchKeys tracks the number of distinct keys per batch
	BatchKeys = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bondmon_gateway_batch_keys",
			Help:    "Distinct keys per gateway batch fetch",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		},
	)
)

const (
	outcomeHit     = "hit"
	outcomeFetched = "fetched"
	outcomeError   = "error"
)
