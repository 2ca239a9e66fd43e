package ratelimit

//go:generate mockgen -source=limiter.go -destination=mock_limiter.go -package=ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter answers whether another request for key fits in the current
// window. When it does not, the returned duration says when to retry.
type Limiter interface {
	Allow(ctx context.Context, key string, now time.Time) (bool, time.Duration, error)
}

// MemoryLimiter is a fixed window counter kept per process.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*entry
}

type entry struct {
	count int
	reset time.Time
}

func NewMemory(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		entries: map[string]*entry{},
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, now time.Time) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cleanup(now)

	e, ok := l.entries[key]
	if !ok {
		l.entries[key] = &entry{count: 1, reset: now.Add(l.window)}
		return true, l.window, nil
	}

	if e.count >= l.limit {
		return false, e.reset.Sub(now), nil
	}
	e.count++
	return true, e.reset.Sub(now), nil
}

func (l *MemoryLimiter) cleanup(now time.Time) {
	for key, e := range l.entries {
		if !now.Before(e.reset) {
			delete(l.entries, key)
		}
	}
}
