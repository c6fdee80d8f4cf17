// Package ratelimit implements fixed-window request limiting keyed by
// client address and route. The window counter lives behind the Store
// interface so single-instance deployments can use the in-memory store
// while multi-instance deployments share state through redis.
package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of a single rate-limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter int // seconds until the window resets, set only on denial
}

// Store holds per-key fixed-window counters. Take atomically applies one
// request against the window for key and reports whether it was allowed.
// Within a window the count only grows; it resets exactly once the window
// boundary is crossed. A burst at the end of one window followed by a burst
// at the start of the next is permitted (fixed-window edge effect).
type Store interface {
	Take(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Limiter binds a named policy (limit per window) to a counter store. The
// name namespaces the counters so policies sharing one store never collide
// on the same client key.
type Limiter struct {
	store  Store
	name   string
	limit  int
	window time.Duration
}

func NewLimiter(store Store, name string, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, name: name, limit: limit, window: window}
}

func (l *Limiter) Check(ctx context.Context, key string) (Result, error) {
	return l.store.Take(ctx, l.name+":"+key, l.limit, l.window)
}
