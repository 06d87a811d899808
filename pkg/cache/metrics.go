package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by cache name
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondmon_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	// CacheMisses tracks cache misses by cache name
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondmon_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// CacheEvictions tracks capacity-based evictions by cache name
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondmon_cache_evictions_total",
			Help: "Total number of cache entries evicted at capacity",
		},
		[]string{"cache"},
	)

	// CacheEntries tracks the current number of stored entries by cache name
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bondmon_cache_entries",
			Help: "Current number of entries in the cache",
		},
		[]string{"cache"},
	)

	// CacheSweepRemoved tracks entries removed by expiry sweeps
	CacheSweepRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondmon_cache_sweep_removed_total",
			Help: "Total number of expired entries removed by sweeps",
		},
		[]string{"cache"},
	)
)
