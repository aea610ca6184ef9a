package metrics

import (
	"time"

	"github.com/biswatma/zerocoder/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Generation outcome labels.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusCancelled = "cancelled"
	StatusInvalid   = "invalid"
)

// DefaultDurationBuckets covers generation times from one second to ten
// minutes; full-page generations are long.
var DefaultDurationBuckets = []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300, 600}

// Collector owns the metric registry and records generation metrics.
// All methods are safe on a nil receiver.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	generation *GenerationMetrics
	upstream   *UpstreamMetrics
}

// NewCollector creates a collector registering into registry. A nil registry
// gets a fresh one with the Go and process collectors.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = DefaultDurationBuckets
	}

	return &Collector{
		config:     cfg,
		registry:   registry,
		generation: NewGenerationMetrics(cfg, registry),
		upstream:   NewUpstreamMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// StartGeneration marks a generation in flight and returns a function that
// records its outcome and duration. The returned function must be called
// exactly once.
func (c *Collector) StartGeneration(engine string) func(status string) {
	if !c.enabled() {
		return func(string) {}
	}

	start := time.Now()
	c.generation.inFlight.WithLabelValues(engine).Inc()
	return func(status string) {
		c.generation.inFlight.WithLabelValues(engine).Dec()
		c.generation.RecordGeneration(engine, status, time.Since(start))
	}
}

// RecordRejected counts a request rejected before streaming.
func (c *Collector) RecordRejected(engine string) {
	if !c.enabled() {
		return
	}
	c.generation.RecordGeneration(engine, StatusInvalid, 0)
}

// RecordChunks records the htmlChunk messages and bytes of one generation.
func (c *Collector) RecordChunks(engine string, chunks int, bytes int64) {
	if !c.enabled() {
		return
	}
	c.generation.RecordChunks(engine, chunks, bytes)
}

// RecordExtraction counts the extractor step used for a buffered response.
func (c *Collector) RecordExtraction(strategy string) {
	if !c.enabled() || strategy == "" {
		return
	}
	c.generation.extraction.WithLabelValues(strategy).Inc()
}

// RecordClientDisconnect counts a client leaving mid-stream.
func (c *Collector) RecordClientDisconnect(engine string) {
	if !c.enabled() {
		return
	}
	c.generation.disconnects.WithLabelValues(engine).Inc()
}

// RecordUpstreamLatency records the time to upstream response headers.
func (c *Collector) RecordUpstreamLatency(engine string, d time.Duration) {
	if !c.enabled() {
		return
	}
	c.upstream.latency.WithLabelValues(engine).Observe(d.Seconds())
}

// RecordFirstChunk records the time from request start to the first chunk.
func (c *Collector) RecordFirstChunk(engine string, d time.Duration) {
	if !c.enabled() {
		return
	}
	c.upstream.firstChunk.WithLabelValues(engine).Observe(d.Seconds())
}

// RecordUpstreamError counts an upstream failure.
//
// errorType is one of the proxy error types, e.g. "auth", "timeout",
// "upstream_status", "transport" or "provider_error" for errors reported
// inside an otherwise successful response.
func (c *Collector) RecordUpstreamError(engine, errorType string) {
	if !c.enabled() {
		return
	}
	c.upstream.errors.WithLabelValues(engine, errorType).Inc()
}

// RecordFramingError counts a malformed stream record that was skipped.
func (c *Collector) RecordFramingError(engine string) {
	if !c.enabled() {
		return
	}
	c.upstream.framing.WithLabelValues(engine).Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
