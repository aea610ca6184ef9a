// Package tracing provides OpenTelemetry tracing for generation requests.
//
// When enabled, spans are exported over OTLP gRPC and sampled with a
// parent-based ratio sampler. Incoming W3C traceparent headers are honoured
// by HTTPMiddleware so a generation joins the caller's trace.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "generate")
//	defer span.End()
//
// A disabled Tracer hands out noop spans.
package tracing
