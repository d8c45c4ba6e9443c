package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/querylimit/query-rate-limiter/pkg/store"
)

// DefaultKeyPrefix is prepended to every counter key unless overridden via
// WithPrefix.
const DefaultKeyPrefix = "ratelimit:"

// Spec is the configured limit for one operation: at most Threshold events
// inside any trailing Interval.
type Spec struct {
	Threshold int
	Interval  time.Duration
}

// Validate reports whether the spec is usable.
func (s Spec) Validate() error {
	if s.Threshold <= 0 {
		return errors.New("threshold must be positive")
	}
	if s.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	return nil
}

// SlidingWindowLimiter records and checks events for a single client
// identity. All of a client's checks share the limiter instance; counters
// stay distinguished per operation through the key, not the instance.
type SlidingWindowLimiter struct {
	store    store.Store
	identity string
	prefix   string
	now      func() time.Time
	recorder MetricsRecorder
}

// New constructs a limiter bound to one client identity.
func New(st store.Store, identity string, opts ...Option) (*SlidingWindowLimiter, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if identity == "" {
		return nil, errors.New("client identity is required")
	}

	l := &SlidingWindowLimiter{
		store:    st,
		identity: identity,
		prefix:   DefaultKeyPrefix,
		now:      time.Now,
		recorder: &NoOpMetricsRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Identity returns the client identity the limiter is bound to.
func (l *SlidingWindowLimiter) Identity() string {
	return l.identity
}

// Key returns the counter key for an operation:
// "{prefix}{identity}:{operation}".
func (l *SlidingWindowLimiter) Key(operation string) string {
	return l.prefix + l.identity + ":" + operation
}

// Add records one event for the operation at the current clock time.
func (l *SlidingWindowLimiter) Add(ctx context.Context, operation string) error {
	ts := l.now()
	begin := time.Now()
	err := l.store.Record(ctx, l.Key(operation), ts)
	l.recorder.Observe("ratelimit.latency", time.Since(begin).Seconds(), tags(operation))
	if err != nil {
		l.recorder.Add("ratelimit.error", 1, tags(operation))
		return err
	}
	l.recorder.Add("ratelimit.add", 1, tags(operation))
	return nil
}

// Exceeded reports whether the operation has more than spec.Threshold
// events in the trailing spec.Interval. Strict greater-than: exactly
// Threshold events are still allowed.
func (l *SlidingWindowLimiter) Exceeded(ctx context.Context, operation string, spec Spec) (bool, error) {
	if err := spec.Validate(); err != nil {
		return false, err
	}

	count, err := l.store.CountWithin(ctx, l.Key(operation), spec.Interval, l.now())
	if err != nil {
		l.recorder.Add("ratelimit.error", 1, tags(operation))
		return false, err
	}

	l.recorder.Add("ratelimit.check", 1, tags(operation))
	if count > int64(spec.Threshold) {
		l.recorder.Add("ratelimit.exceeded", 1, tags(operation))
		return true, nil
	}
	return false, nil
}

func tags(operation string) map[string]string {
	return map[string]string{"operation": operation}
}
