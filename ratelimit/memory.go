package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

type windowEntry struct {
	count     int
	resetTime time.Time
}

// MemoryStore is a process-local Store. It provides no cross-process
// consistency; deployments with more than one instance need RedisStore to
// preserve the limiting guarantee.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

// NewMemoryStore creates a store and starts a background sweep that drops
// expired windows every five minutes to bound memory under many keys.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
	go s.sweepLoop()
	return s
}

func (s *MemoryStore) Take(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	entry, ok := s.entries[key]
	if !ok || !entry.resetTime.After(now) {
		entry = &windowEntry{count: 0, resetTime: now.Add(window)}
		s.entries[key] = entry
	}

	if entry.count >= limit {
		// Denied requests do not consume from the window.
		retryAfter := int(math.Ceil(entry.resetTime.Sub(now).Seconds()))
		return Result{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetTime:  entry.resetTime,
			RetryAfter: retryAfter,
		}, nil
	}

	entry.count++
	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - entry.count,
		ResetTime: entry.resetTime,
	}, nil
}

func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		s.sweep()
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if !entry.resetTime.After(now) {
			delete(s.entries, key)
		}
	}
}
