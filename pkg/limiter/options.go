package limiter

import "time"

// Option configures a SlidingWindowLimiter.
type Option func(*SlidingWindowLimiter)

// WithPrefix sets the counter key prefix (default "ratelimit:").
func WithPrefix(prefix string) Option {
	return func(l *SlidingWindowLimiter) {
		l.prefix = prefix
	}
}

// WithClock sets the time source used for event timestamps and window
// queries. Intended for tests that need to advance time without sleeping.
func WithClock(now func() time.Time) Option {
	return func(l *SlidingWindowLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithRecorder injects a custom metrics backend.
func WithRecorder(r MetricsRecorder) Option {
	return func(l *SlidingWindowLimiter) {
		if r != nil {
			l.recorder = r
		}
	}
}
