package limiter

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder adapts the MetricsRecorder contract onto Prometheus
// collectors. Counter series map to one CounterVec partitioned by event and
// operation; observations map to one HistogramVec.
type PrometheusRecorder struct {
	events  *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewPrometheusRecorder builds a recorder and registers its collectors.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratelimit_events_total",
				Help: "Rate limiter events by type and operation",
			},
			[]string{"event", "operation"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ratelimit_store_duration_seconds",
				Help:    "Window counter store call latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"event", "operation"},
		),
	}
	reg.MustRegister(r.events, r.latency)
	return r
}

func (r *PrometheusRecorder) Add(name string, value float64, tags map[string]string) {
	r.events.WithLabelValues(eventLabel(name), tags["operation"]).Add(value)
}

func (r *PrometheusRecorder) Observe(name string, value float64, tags map[string]string) {
	r.latency.WithLabelValues(eventLabel(name), tags["operation"]).Observe(value)
}

// eventLabel turns "ratelimit.check" into "check".
func eventLabel(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
