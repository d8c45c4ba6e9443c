package analyzer

import (
	"time"

	"go.uber.org/zap"

	"github.com/querylimit/query-rate-limiter/pkg/limiter"
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithQueryTypeName sets the owner type whose fields are rate limited
// (default "Query").
func WithQueryTypeName(name string) Option {
	return func(a *Analyzer) {
		a.queryTypeName = name
	}
}

// WithKeyPrefix sets the counter key prefix used for every client's
// limiter (default "ratelimit:").
func WithKeyPrefix(prefix string) Option {
	return func(a *Analyzer) {
		a.limiterOpts = append(a.limiterOpts, limiter.WithPrefix(prefix))
	}
}

// WithClock sets the time source for every client's limiter. Intended for
// tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.limiterOpts = append(a.limiterOpts, limiter.WithClock(now))
	}
}

// WithRecorder injects a metrics backend into every client's limiter.
func WithRecorder(r limiter.MetricsRecorder) Option {
	return func(a *Analyzer) {
		a.limiterOpts = append(a.limiterOpts, limiter.WithRecorder(r))
	}
}

// WithLogger sets the analyzer's logger (default zap.NewNop).
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}
