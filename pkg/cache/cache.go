package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/bondradar/bondmon/pkg/logging"
)

// shardCount is the number of segments the key space is split into.
// Power of two so the modulo compiles to a mask.
const shardCount = 16

// Cache is a sharded in-memory store with per-entry TTL and a bounded
// capacity. The zero value is not usable; create instances with New.
type Cache[V any] struct {
	name     string
	capacity int
	shards   [shardCount]*shard[V]

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	logger zerolog.Logger
}

type shard[V any] struct {
	mu      sync.RWMutex
	entries map[string]*Entry[V]
}

// New creates a cache with the given name and capacity.
// The name labels the cache's Prometheus metrics and log lines.
// A capacity <= 0 means the store is unbounded.
func New[V any](name string, capacity int) *Cache[V] {
	c := &Cache[V]{
		name:     name,
		capacity: capacity,
		logger:   logging.NewLogger("cache").With().Str("cache", name).Logger(),
	}
	for i := range c.shards {
		c.shards[i] = &shard[V]{entries: make(map[string]*Entry[V])}
	}
	return c
}

// Name returns the cache name used for metrics and logging.
func (c *Cache[V]) Name() string {
	return c.name
}

// Capacity returns the configured maximum number of entries.
func (c *Cache[V]) Capacity() int {
	return c.capacity
}

// Put inserts or overwrites the entry for key with the given TTL.
// A TTL <= 0 stores an already-expired entry, which the next Get or
// sweep removes; callers can pass computed TTLs without branching.
// Inserting a new key at capacity purges expired entries first and
// then evicts the oldest entry by creation time.
func (c *Cache[V]) Put(key string, value V, ttl time.Duration) {
	now := time.Now()
	entry := &Entry[V]{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	s := c.shard(key)
	s.mu.Lock()
	_, existed := s.entries[key]
	s.entries[key] = entry
	s.mu.Unlock()

	if !existed && c.capacity > 0 {
		c.enforceCapacity(now)
	}

	CacheEntries.WithLabelValues(c.name).Set(float64(c.Len()))
}

// Get returns the value for key. found is false if the key is absent
// or expired; an expired entry is purged on access and counted as a
// miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	now := time.Now()

	s := c.shard(key)
	s.mu.Lock()
	entry, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		CacheMisses.WithLabelValues(c.name).Inc()
		return zero, false
	}
	if entry.isExpiredAt(now) {
		// Lazy purge: the expired entry must not serve a phantom hit.
		delete(s.entries, key)
		s.mu.Unlock()
		c.misses.Add(1)
		CacheMisses.WithLabelValues(c.name).Inc()
		CacheEntries.WithLabelValues(c.name).Set(float64(c.Len()))
		return zero, false
	}
	value := entry.Value
	s.mu.Unlock()

	c.hits.Add(1)
	CacheHits.WithLabelValues(c.name).Inc()
	return value, true
}

// Delete removes the entry for key. Returns true if an entry was
// present, expired or not.
func (c *Cache[V]) Delete(key string) bool {
	s := c.shard(key)
	s.mu.Lock()
	_, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	s.mu.Unlock()

	if ok {
		CacheEntries.WithLabelValues(c.name).Set(float64(c.Len()))
	}
	return ok
}

// CleanupExpired removes every entry whose TTL has elapsed and returns
// the number of removed entries. Designed to run on a timer (see
// StartSweeper) so lazy purging does not accumulate dead entries and
// Stats().Size stays accurate between lookups.
func (c *Cache[V]) CleanupExpired() int {
	now := time.Now()
	removed := 0

	for _, s := range c.shards {
		s.mu.Lock()
		for key, entry := range s.entries {
			if entry.isExpiredAt(now) {
				delete(s.entries, key)
				removed++
			}
		}
		s.mu.Unlock()
	}

	if removed > 0 {
		CacheSweepRemoved.WithLabelValues(c.name).Add(float64(removed))
		CacheEntries.WithLabelValues(c.name).Set(float64(c.Len()))
		c.logger.Debug().
			Int("removed", removed).
			Msg("Expiry sweep removed entries")
	}
	return removed
}

// Clear empties the store. Lifetime hit/miss/eviction counters are
// kept; use ResetStats to zero them.
func (c *Cache[V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[string]*Entry[V])
		s.mu.Unlock()
	}
	CacheEntries.WithLabelValues(c.name).Set(0)
	c.logger.Debug().Msg("Cache cleared")
}

// ResetStats zeroes the lifetime hit/miss/eviction counters.
func (c *Cache[V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Len returns the current number of stored entries, expired entries
// not yet purged included.
func (c *Cache[V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.RLock()
		total += len(s.entries)
		s.mu.RUnlock()
	}
	return total
}

// Stats returns a point-in-time snapshot of the cache statistics.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.Len(),
		Capacity:  c.capacity,
	}
}

// StartSweeper runs CleanupExpired every interval until ctx is
// cancelled. It returns immediately; the sweep runs on its own
// goroutine.
func (c *Cache[V]) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.logger.Debug().Msg("Sweeper stopping (context cancelled)")
				return
			case <-ticker.C:
				c.CleanupExpired()
			}
		}
	}()
}

// enforceCapacity brings the store back within capacity: expired
// entries go first, then the oldest entries by creation time.
func (c *Cache[V]) enforceCapacity(now time.Time) {
	if c.Len() <= c.capacity {
		return
	}

	c.CleanupExpired()

	for c.Len() > c.capacity {
		if !c.evictOldest() {
			return
		}
	}
}

// evictOldest removes the entry with the oldest creation time across
// all shards. Returns false if the store is empty.
func (c *Cache[V]) evictOldest() bool {
	var (
		oldestKey   string
		oldestShard *shard[V]
		oldestAt    time.Time
		found       bool
	)

	for _, s := range c.shards {
		s.mu.RLock()
		for key, entry := range s.entries {
			if !found || entry.CreatedAt.Before(oldestAt) {
				oldestKey = key
				oldestShard = s
				oldestAt = entry.CreatedAt
				found = true
			}
		}
		s.mu.RUnlock()
	}

	if !found {
		return false
	}

	oldestShard.mu.Lock()
	// The entry may have been replaced since the scan; only evict the
	// same generation.
	if entry, ok := oldestShard.entries[oldestKey]; ok && entry.CreatedAt.Equal(oldestAt) {
		delete(oldestShard.entries, oldestKey)
		c.evictions.Add(1)
		CacheEvictions.WithLabelValues(c.name).Inc()
		c.logger.Debug().
			Str("key", oldestKey).
			Time("created_at", oldestAt).
			Msg("Evicted oldest entry at capacity")
	}
	oldestShard.mu.Unlock()

	return true
}

func (c *Cache[V]) shard(key string) *shard[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return c.shards[h.Sum32()%shardCount]
}
