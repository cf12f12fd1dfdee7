// Package ratelimit implements fixed-window counters keyed by (client, action).
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go-scout-backend/pkg/logger"
)

// Policy allows Limit hits per Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Result describes one hit against a window.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store increments the counter for key, creating it with a TTL of window on
// the first hit of a window.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// Limiter checks hits against a primary store, falling back to a local one
// when the primary errors. Store failures never reject a request.
type Limiter struct {
	primary  Store
	fallback Store
}

func NewLimiter(primary, fallback Store) *Limiter {
	if primary == nil {
		primary = fallback
	}
	return &Limiter{primary: primary, fallback: fallback}
}

func Key(action, client string) string {
	return fmt.Sprintf("rl:%s:%s", action, client)
}

func (l *Limiter) Allow(ctx context.Context, action, client string, policy Policy) Result {
	key := Key(action, client)
	count, resetAt, err := l.primary.Hit(ctx, key, policy.Window)
	if err != nil && l.fallback != nil && l.fallback != l.primary {
		logger.Log.Warn("rate limit store unavailable, using local counters", "action", action, "error", err)
		count, resetAt, err = l.fallback.Hit(ctx, key, policy.Window)
	}
	if err != nil {
		logger.Log.Warn("rate limit check skipped", "action", action, "error", err)
		return Result{Allowed: true, Limit: policy.Limit, Remaining: policy.Limit}
	}

	remaining := policy.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= policy.Limit,
		Limit:     policy.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
