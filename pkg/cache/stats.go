package cache

// Stats is a point-in-time snapshot of cache statistics.
// Hits, Misses and Evictions accumulate for the lifetime of the cache
// (until ResetStats); Size and Capacity describe the store at the
// instant of the Stats call.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Size      int    `json:"size"`
	Capacity  int    `json:"capacity"`
}

// HitRate returns hits / (hits + misses) in the range [0, 1].
// Returns 0 when no lookups have been recorded.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Usage returns size / capacity in the range [0, 1].
// Returns 0 for an unbounded cache (capacity <= 0).
func (s Stats) Usage() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return float64(s.Size) / float64(s.Capacity)
}
