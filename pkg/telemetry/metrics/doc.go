// Package metrics provides Prometheus metrics for generation requests.
//
// # Metrics
//
// All names are prefixed with the configured namespace (default "zerocoder"):
//
//   - generations_total{engine,status}: finished generations by outcome
//   - generations_in_flight{engine}: generations currently streaming
//   - generation_duration_seconds{engine}: request duration
//   - chunks_sent_total{engine}: htmlChunk messages sent
//   - response_bytes{engine}: HTML bytes sent per generation
//   - extraction_strategy_total{strategy}: extractor fallback step used
//   - client_disconnects_total{engine}: clients that left mid-stream
//   - upstream_latency_seconds{engine}: time to upstream response headers
//   - first_chunk_latency_seconds{engine}: time to first htmlChunk
//   - upstream_errors_total{engine,type}: upstream failures by error type
//   - framing_errors_total{engine}: malformed stream records skipped
//
// Go runtime and process collectors are registered alongside.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
//	done := collector.StartGeneration("gemini")
//	defer done("success")
//
// A nil *Collector is valid and records nothing.
package metrics
