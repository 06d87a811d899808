// Package cache implements a generic in-memory key/value store with
// per-entry time-to-live, a bounded capacity and lifetime statistics.
//
// The store is sharded: keys are distributed over a fixed number of
// segments, each guarded by its own RWMutex, so an expiry sweep over
// one segment never stalls lookups hitting another. All operations are
// safe for concurrent use.
//
// Expiry is enforced two ways:
//
//   - Lazily: Get purges an expired entry on access and reports a miss.
//   - Actively: CleanupExpired sweeps all segments; StartSweeper runs
//     the sweep on a timer until its context is cancelled.
//
// A Put with a non-positive TTL inserts an entry that is already
// expired. Callers can therefore pass computed TTLs without branching;
// the next Get or sweep removes the entry.
//
// When the store is at capacity, Put first purges expired entries and
// then, if still full, evicts the entry with the oldest creation time.
// Evictions are counted in the statistics.
//
// Example usage:
//
//	c := cache.New[[]byte]("bonds", 1000)
//	c.Put("RU000A105EX7", payload, time.Hour)
//	if data, ok := c.Get("RU000A105EX7"); ok {
//		// serve from cache
//	}
//
//	stats := c.Stats()
//	fmt.Printf("hit rate: %.2f%%\n", stats.HitRate()*100)
//
// Statistics are cumulative for the lifetime of the cache: Clear
// empties the store but keeps the hit/miss/eviction counters, which a
// monitoring layer reads as lifetime totals. ResetStats zeroes the
// counters explicitly.
package cache
