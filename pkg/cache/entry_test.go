package cache

import (
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		expected  bool
	}{
		{
			name:      "future_expiry",
			expiresAt: time.Now().Add(5 * time.Minute),
			expected:  false,
		},
		{
			name:      "past_expiry",
			expiresAt: time.Now().Add(-5 * time.Minute),
			expected:  true,
		},
		{
			name:      "expiry_now",
			expiresAt: time.Now(),
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry[string]{
				Key:       "test",
				Value:     "data",
				CreatedAt: time.Now().Add(-time.Minute),
				ExpiresAt: tt.expiresAt,
			}
			if got := entry.IsExpired(); got != tt.expected {
				t.Errorf("IsExpired() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	entry := &Entry[int]{
		Key:       "test",
		Value:     42,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}

	ttl := entry.TTL()
	if ttl <= 4*time.Minute || ttl > 5*time.Minute {
		t.Errorf("TTL() = %v, want ~5m", ttl)
	}
}

func TestEntry_TTL_Expired(t *testing.T) {
	entry := &Entry[int]{
		Key:       "test",
		Value:     42,
		CreatedAt: time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	if ttl := entry.TTL(); ttl != 0 {
		t.Errorf("TTL() = %v, want 0 for expired entry", ttl)
	}
}
