// Package ratelimit bounds repeated attempts per identifier within a time
// window. The counting is decoupled from the policy behind a small store
// interface: the in-memory store covers single-instance deployments, the
// Redis store keeps counts shared when the service scales horizontally.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// CounterStore counts attempts per key within a rolling window.
type CounterStore interface {
	// Increment bumps the counter for key, starting a fresh window when none
	// is open, and returns the count inside the current window.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// Limiter applies a max-attempts-per-window policy over a CounterStore.
type Limiter struct {
	store  CounterStore
	max    int64
	window time.Duration
}

// NewLimiter creates a limiter allowing max attempts per window.
func NewLimiter(store CounterStore, max int64, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		max:    max,
		window: window,
	}
}

// Allow records one attempt for key and reports whether it is still within
// the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return false, err
	}
	return count <= l.max, nil
}

// Reset clears the window for key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}

type memoryEntry struct {
	count     int64
	windowEnd time.Time
}

// MemoryStore is the process-local CounterStore. Counts are not shared
// across instances.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Increment implements CounterStore.
func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.windowEnd) {
		entry = memoryEntry{count: 0, windowEnd: now.Add(window)}
	}
	entry.count++
	s.entries[key] = entry
	return entry.count, nil
}

// Reset implements CounterStore.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
