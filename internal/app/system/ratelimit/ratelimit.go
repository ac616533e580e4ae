// internal/app/system/ratelimit/ratelimit.go

// Package ratelimit implements fixed-window request limiting over a
// pluggable counter store. The store is injected (in production a
// TTL-indexed Mongo collection) so limits survive process restarts and
// apply across horizontally scaled instances.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

// CounterStore persists per-key window counters. Incr increments the
// counter for the window beginning at windowStart and returns the count
// after the increment; expiresAt tells the store when the window's
// record can be discarded.
type CounterStore interface {
	Incr(ctx context.Context, key string, windowStart, expiresAt time.Time) (int64, error)
}

// Limiter enforces at most limit requests per key per window.
type Limiter struct {
	store  CounterStore
	limit  int64
	window time.Duration
	now    func() time.Time
}

// New creates a limiter. limit: maximum requests allowed per window
// duration for a single key.
func New(store CounterStore, limit int64, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// SetClock overrides the limiter's time source. Test use only.
func (l *Limiter) SetClock(now func() time.Time) { l.now = now }

// Allow checks whether a request for the given key fits in the current
// window. A store error is returned to the caller, which decides whether
// to fail open or closed.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now().UTC()
	windowStart := now.Truncate(l.window)
	expiresAt := windowStart.Add(2 * l.window)

	n, err := l.store.Incr(ctx, key, windowStart, expiresAt)
	if err != nil {
		return false, err
	}
	return n <= l.limit, nil
}

// ClientIP extracts the client IP from an HTTP request. It checks
// X-Forwarded-For and X-Real-IP headers first (for proxied requests),
// then falls back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}
