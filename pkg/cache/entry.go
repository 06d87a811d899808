package cache

import (
	"time"
)

// Entry represents a single cached value with its expiry metadata.
// Entries are owned by the cache; callers receive value copies via Get
// and never mutate entries in place.
type Entry[V any] struct {
	// Key is the opaque string identity of the entry.
	Key string

	// Value is the cached payload.
	Value V

	// CreatedAt is when the entry was inserted or last overwritten.
	CreatedAt time.Time

	// ExpiresAt is when the entry becomes invisible to readers.
	ExpiresAt time.Time
}

// IsExpired returns true if the entry is no longer visible to readers.
// An entry is visible iff now < ExpiresAt.
func (e *Entry[V]) IsExpired() bool {
	return e.isExpiredAt(time.Now())
}

func (e *Entry[V]) isExpiredAt(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// TTL returns the remaining time until expiration.
// Returns 0 if already expired.
func (e *Entry[V]) TTL() time.Duration {
	ttl := time.Until(e.ExpiresAt)
	if ttl < 0 {
		return 0
	}
	return ttl
}
