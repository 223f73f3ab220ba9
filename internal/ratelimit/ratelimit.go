// Package ratelimit provides the per-client request limiter behind the
// HTTP middleware. The counter store is injected so a single instance
// can run on the in-memory store while multi-instance deployments
// share a redis-backed one. Both are approximate, best-effort controls,
// not correctness-critical state.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/skyfuel-aero/skyfuel-platform/internal/cache"
)

// CounterStore decides whether a request from key may proceed.
type CounterStore interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryStore keeps one token-bucket limiter per key, sized to admit
// requests/window, and sweeps entries idle for more than two windows.
type MemoryStore struct {
	mu       sync.Mutex
	limiters map[string]*memoryEntry

	requests int
	window   time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryStore creates a MemoryStore admitting requests per window
// for each key.
func NewMemoryStore(requests int, window time.Duration) *MemoryStore {
	return &MemoryStore{
		limiters: make(map[string]*memoryEntry),
		requests: requests,
		window:   window,
		now:      time.Now,
	}
}

// Allow reports whether a request from key fits the configured rate.
func (s *MemoryStore) Allow(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.limiters[key]
	if !ok {
		limit := rate.Every(s.window / time.Duration(s.requests))
		entry = &memoryEntry{limiter: rate.NewLimiter(limit, s.requests)}
		s.limiters[key] = entry
	}
	entry.lastSeen = s.now()
	return entry.limiter.AllowN(s.now(), 1), nil
}

// Sweep evicts limiters idle for more than two windows and returns the
// number evicted.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-2 * s.window)
	evicted := 0
	for key, entry := range s.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(s.limiters, key)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs Sweep every window until ctx is cancelled.
func (s *MemoryStore) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.window)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// RedisStore is a fixed-window counter on redis, shared across
// instances. On a redis failure it fails open: rate limiting is a
// throttle, not an auth control.
type RedisStore struct {
	cache    *cache.Cache
	requests int
	window   time.Duration
}

// NewRedisStore creates a RedisStore admitting requests per window.
func NewRedisStore(c *cache.Cache, requests int, window time.Duration) *RedisStore {
	return &RedisStore{cache: c, requests: requests, window: window}
}

// Allow increments the key's window counter and compares it against
// the limit.
func (s *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	n, err := s.cache.Incr(ctx, "ratelimit:"+key, s.window)
	if err != nil {
		return true, err
	}
	return n <= int64(s.requests), nil
}
