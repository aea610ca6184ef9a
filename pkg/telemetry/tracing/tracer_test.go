package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/biswatma/zerocoder/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:   "disabled",
			config: &config.TracingConfig{Enabled: false, ServiceName: "zerocoder"},
		},
		{
			name: "enabled insecure",
			config: &config.TracingConfig{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				Insecure:    true,
				ServiceName: "zerocoder",
				SampleRatio: 0.5,
			},
			wantEnabled: true,
		},
		{
			name: "invalid ratio",
			config: &config.TracingConfig{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				ServiceName: "zerocoder",
				SampleRatio: 2,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config, "test")
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}

			_, span := tracer.Start(context.Background(), "generate")
			span.End()
		})
	}
}

func TestDisabledTracerSpans(t *testing.T) {
	tracer, err := New(&config.TracingConfig{}, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, span := tracer.Start(context.Background(), "generate")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("disabled tracer produced a valid span context")
	}
	if TraceID(ctx) != "" || SpanID(ctx) != "" {
		t.Error("disabled tracer exposed trace IDs")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNilTracer(t *testing.T) {
	var tracer *Tracer

	_, span := tracer.Start(context.Background(), "generate")
	span.End()

	if tracer.Enabled() {
		t.Error("nil tracer reports enabled")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func recordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return &Tracer{
		config:   &config.TracingConfig{Enabled: true},
		tracer:   provider.Tracer(InstrumentationName),
		provider: provider,
		enabled:  true,
	}, rec
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestSpanAttributes(t *testing.T) {
	tracer, rec := recordingTracer(t)

	ctx, span := tracer.Start(context.Background(), "generate")
	if TraceID(ctx) == "" || SpanID(ctx) == "" {
		t.Fatal("recording span has no IDs")
	}
	SetGenerationAttributes(span, "req-1", "gemini", "gemini-2.0-flash", true, "json_array")
	SetResultAttributes(span, "success", 3, 120, "document", false)
	AddEvent(span, "first_chunk", attribute.Int("bytes", 40))
	SetStatus(span, nil)
	span.End()

	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(ended))
	}
	got := attrMap(ended[0].Attributes())

	if got[AttrEngine].AsString() != "gemini" {
		t.Errorf("%s = %v", AttrEngine, got[AttrEngine])
	}
	if got[AttrModel].AsString() != "gemini-2.0-flash" {
		t.Errorf("%s = %v", AttrModel, got[AttrModel])
	}
	if !got[AttrIsEdit].AsBool() {
		t.Errorf("%s = %v, want true", AttrIsEdit, got[AttrIsEdit])
	}
	if got[AttrChunks].AsInt64() != 3 {
		t.Errorf("%s = %v, want 3", AttrChunks, got[AttrChunks])
	}
	if got[AttrStrategy].AsString() != "document" {
		t.Errorf("%s = %v", AttrStrategy, got[AttrStrategy])
	}
	if len(ended[0].Events()) != 1 || ended[0].Events()[0].Name != "first_chunk" {
		t.Errorf("events = %v", ended[0].Events())
	}
	if ended[0].Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", ended[0].Status().Code)
	}
}

func TestSetErrorAttributes(t *testing.T) {
	tracer, rec := recordingTracer(t)

	_, span := tracer.Start(context.Background(), "generate")
	SetErrorAttributes(span, errors.New("gemini API request failed with status 500"), "upstream_status")
	span.End()

	s := rec.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
	if got := attrMap(s.Attributes())[AttrErrorType].AsString(); got != "upstream_status" {
		t.Errorf("%s = %q", AttrErrorType, got)
	}
	if len(s.Events()) != 1 || s.Events()[0].Name != "exception" {
		t.Errorf("expected exception event, got %v", s.Events())
	}
}
