// Package store provides the window counter store: an expiring multiset of
// timestamped events, partitioned by key, with sliding-window occupancy
// queries.
//
// Two backends share the Store contract:
//
//   - MemoryStore: an in-process store backed by a Go map. Useful for unit
//     tests, local development, and single-instance deployments. Its state is
//     local to the process and is not shared across replicas.
//
//   - RedisStore: a distributed store backed by a Redis sorted set per key.
//     Safe to use across many application instances sharing one counter
//     space.
//
// Both backends exclude events older than the queried window from counts
// without requiring a separate cleanup pass; physical deletion of stale
// entries is lazy.
//
// Store errors are returned to the caller untouched. A failing store is
// never reported as "zero events" — callers decide the fail-open versus
// fail-closed policy themselves.
package store

import (
	"context"
	"time"
)

// Store is an expiring, per-key event multiset.
type Store interface {
	// Record adds one event under key at the given timestamp.
	Record(ctx context.Context, key string, ts time.Time) error

	// CountWithin returns the number of events for key with timestamp in
	// (now-window, now]. The lower bound is exclusive, the upper inclusive.
	CountWithin(ctx context.Context, key string, window time.Duration, now time.Time) (int64, error)
}
