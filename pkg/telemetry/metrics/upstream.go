package metrics

import (
	"github.com/biswatma/zerocoder/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks calls to the engine APIs.
type UpstreamMetrics struct {
	latency    *prometheus.HistogramVec
	firstChunk *prometheus.HistogramVec
	errors     *prometheus.CounterVec
	framing    *prometheus.CounterVec
}

// NewUpstreamMetrics creates and registers upstream metrics.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_latency_seconds",
				Help:      "Time until upstream response headers in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"engine"},
		),

		firstChunk: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "first_chunk_latency_seconds",
				Help:      "Time until the first htmlChunk is sent in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"engine"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_errors_total",
				Help:      "Total number of upstream errors by type",
			},
			[]string{"engine", "type"},
		),

		framing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "framing_errors_total",
				Help:      "Malformed upstream stream records that were skipped",
			},
			[]string{"engine"},
		),
	}

	registry.MustRegister(
		um.latency,
		um.firstChunk,
		um.errors,
		um.framing,
	)

	return um
}
