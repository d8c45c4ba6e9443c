// Package limiter provides sliding-window rate limiting over a pluggable
// window counter store.
//
// The primary entry point is the SlidingWindowLimiter:
//
//	l, err := limiter.New(st, clientIdentity)
//	err = l.Add(ctx, "expensiveField")
//	over, err := l.Exceeded(ctx, "expensiveField", limiter.Spec{Threshold: 5, Interval: 15 * time.Second})
//
// # Overview
//
// A sliding window counts events in a trailing time span that advances
// continuously, rather than resetting at fixed boundaries:
//
//   - Add records one event for (identity, operation) at the current time.
//   - Exceeded counts the events for that pair inside the trailing window
//     and reports whether the count is strictly greater than the threshold.
//
// Exactly Threshold events inside the window are allowed; the
// (Threshold+1)-th is the first one rejected.
//
// # Identity and Keys
//
// One limiter instance is bound to one client identity (for example, a
// network address). Counters themselves are keyed per operation:
//
//	"{prefix}{identity}:{operation}"
//
// with prefix "ratelimit:" unless overridden via WithPrefix. Two identities
// never share a counter, and all invocations of the same operation by one
// identity share exactly one.
//
// # Backends
//
// The limiter holds no counter state of its own; it delegates to a
// store.Store. Use store.MemoryStore in tests and single-instance
// deployments, and store.RedisStore when many application instances must
// enforce one shared budget. Correctness under concurrent Add calls for the
// same key rests on the store's per-key atomicity.
//
// # Ordering
//
// For one key, an Add is visible to a subsequent Exceeded call in the same
// request sequence. Exceeded calls for different keys are independent.
//
// # Context and Error Policy
//
// Add and Exceeded accept a context.Context and pass it to the store. A
// store failure is returned as a non-nil error, never as "not exceeded";
// the caller decides whether to deny traffic (protect the backend) or allow
// it (maximize availability).
//
// # Configuration
//
// The limiter is configured using the Functional Options pattern:
//
//	l, _ := limiter.New(st, identity,
//		limiter.WithPrefix("myapp:rate:"),
//		limiter.WithClock(fakeNow),
//		limiter.WithRecorder(myMetrics),
//	)
//
// Supported options:
//
//   - WithPrefix(string): sets the key prefix (default "ratelimit:").
//   - WithClock(func() time.Time): sets the time source, mainly for tests.
//   - WithRecorder(MetricsRecorder): injects a custom metrics backend.
package limiter
