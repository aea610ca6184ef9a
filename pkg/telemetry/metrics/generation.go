package metrics

import (
	"time"

	"github.com/biswatma/zerocoder/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// GenerationMetrics tracks client-facing generation outcomes.
type GenerationMetrics struct {
	total       *prometheus.CounterVec
	inFlight    *prometheus.GaugeVec
	duration    *prometheus.HistogramVec
	chunks      *prometheus.CounterVec
	bytes       *prometheus.HistogramVec
	extraction  *prometheus.CounterVec
	disconnects *prometheus.CounterVec
}

// NewGenerationMetrics creates and registers generation metrics.
func NewGenerationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GenerationMetrics {
	gm := &GenerationMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "generations_total",
				Help:      "Total number of generation requests by outcome",
			},
			[]string{"engine", "status"},
		),

		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "generations_in_flight",
				Help:      "Number of generations currently streaming",
			},
			[]string{"engine"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "generation_duration_seconds",
				Help:      "Duration of generation requests in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"engine"},
		),

		chunks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "chunks_sent_total",
				Help:      "Total number of htmlChunk messages sent",
			},
			[]string{"engine"},
		),

		bytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "response_bytes",
				Help:      "HTML bytes sent per generation",
				Buckets:   prometheus.ExponentialBuckets(1024, 2, 10), // 1KB to 512KB
			},
			[]string{"engine"},
		),

		extraction: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "extraction_strategy_total",
				Help:      "HTML extractor fallback step used for buffered responses",
			},
			[]string{"strategy"},
		),

		disconnects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "client_disconnects_total",
				Help:      "Clients that disconnected before the end of stream",
			},
			[]string{"engine"},
		),
	}

	registry.MustRegister(
		gm.total,
		gm.inFlight,
		gm.duration,
		gm.chunks,
		gm.bytes,
		gm.extraction,
		gm.disconnects,
	)

	return gm
}

// RecordGeneration records a finished generation. Rejected requests are
// counted but not timed.
func (gm *GenerationMetrics) RecordGeneration(engine, status string, duration time.Duration) {
	gm.total.WithLabelValues(engine, status).Inc()
	if status != StatusInvalid {
		gm.duration.WithLabelValues(engine).Observe(duration.Seconds())
	}
}

// RecordChunks records chunk and byte counts of one generation.
func (gm *GenerationMetrics) RecordChunks(engine string, chunks int, bytes int64) {
	if chunks > 0 {
		gm.chunks.WithLabelValues(engine).Add(float64(chunks))
	}
	if bytes > 0 {
		gm.bytes.WithLabelValues(engine).Observe(float64(bytes))
	}
}
