package store

import (
	"context"
	"sync"
	"time"
)

const defaultRetention = time.Hour

// MemoryStore is an in-process event store.
//
// It is safe for concurrent use by multiple goroutines, but its state is
// local to the process. Use RedisStore when counters must be shared across
// replicas.
type MemoryStore struct {
	mu        sync.Mutex
	events    map[string][]time.Time
	retention time.Duration
}

// NewMemoryStore constructs a MemoryStore with empty state.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		events:    make(map[string][]time.Time),
		retention: defaultRetention,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type MemoryOption func(*MemoryStore)

// WithMemoryRetention sets how long recorded events are kept before lazy
// pruning discards them. Must be at least the longest window ever queried
// for a key, otherwise counts may come up short.
func WithMemoryRetention(d time.Duration) MemoryOption {
	return func(m *MemoryStore) {
		m.retention = d
	}
}

// Record adds one event under key. Entries older than the retention period
// are pruned on the way in, so idle keys cost nothing once revisited.
func (m *MemoryStore) Record(ctx context.Context, key string, ts time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.pruneLocked(key, ts)
	m.events[key] = append(kept, ts)
	return nil
}

// CountWithin counts events for key in (now-window, now].
func (m *MemoryStore) CountWithin(ctx context.Context, key string, window time.Duration, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.Add(-window)
	var count int64
	for _, ts := range m.events[key] {
		if ts.After(cutoff) && !ts.After(now) {
			count++
		}
	}
	return count, nil
}

// pruneLocked drops events for key older than the retention period.
// Caller must hold mu.
func (m *MemoryStore) pruneLocked(key string, now time.Time) []time.Time {
	cutoff := now.Add(-m.retention)
	existing := m.events[key]
	kept := existing[:0]
	for _, ts := range existing {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
