package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count       int
	windowStart time.Time
}

// MemoryStore is a mutex-guarded in-process fixed-window store. A janitor
// goroutine sweeps expired windows so the map does not grow with every IP
// ever seen.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithClock replaces the store's clock, for deterministic tests
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a store admitting up to limit requests per key per
// window and starts its sweep goroutine
func NewMemoryStore(limit int, window time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.janitor()
	return s
}

// Allow admits the request if the key's count within the current window has
// not exceeded the limit. The first request after window expiry starts a
// fresh window with count 1.
func (s *MemoryStore) Allow(_ context.Context, key string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || now.Sub(e.windowStart) >= s.window {
		s.entries[key] = &entry{count: 1, windowStart: now}
		return Result{Allowed: true, Remaining: s.limit - 1}, nil
	}

	e.count++
	if e.count > s.limit {
		return Result{
			Allowed:    false,
			RetryAfter: s.window - now.Sub(e.windowStart),
		}, nil
	}
	return Result{Allowed: true, Remaining: s.limit - e.count}, nil
}

// Close stops the sweep goroutine
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

// janitor periodically drops entries whose window has elapsed
func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(s.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if now.Sub(e.windowStart) >= s.window {
			delete(s.entries, key)
		}
	}
}
