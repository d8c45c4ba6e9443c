package limiter

// MetricsRecorder receives counters and timing observations from the
// limiter hot path.
//
// Emitted series:
//
//	ratelimit.add       counter, one per recorded event
//	ratelimit.check     counter, one per window query
//	ratelimit.exceeded  counter, one per check that came back over limit
//	ratelimit.error     counter, one per failed store call
//	ratelimit.latency   observation, store write latency in seconds
//
// Every series carries an "operation" tag.
type MetricsRecorder interface {
	Add(name string, value float64, tags map[string]string)
	Observe(name string, value float64, tags map[string]string)
}

// NoOpMetricsRecorder is a placeholder that does nothing.
// It ensures we never have to check 'if r.recorder != nil' in our hot path.
type NoOpMetricsRecorder struct{}

func (n *NoOpMetricsRecorder) Add(name string, value float64, tags map[string]string)     {}
func (n *NoOpMetricsRecorder) Observe(name string, value float64, tags map[string]string) {}
