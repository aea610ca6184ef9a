package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys. Custom keys use the "zerocoder." namespace.
const (
	AttrEngine    = "zerocoder.engine"
	AttrModel     = "zerocoder.model"
	AttrIsEdit    = "zerocoder.is_edit"
	AttrFraming   = "zerocoder.framing"
	AttrRequestID = "zerocoder.request_id"

	AttrChunks       = "zerocoder.chunks"
	AttrBytes        = "zerocoder.bytes"
	AttrStrategy     = "zerocoder.extract.strategy"
	AttrStatus       = "zerocoder.status"
	AttrDisconnected = "zerocoder.client_disconnected"

	AttrErrorType = "zerocoder.error.type"
)

// SetGenerationAttributes describes the generation a span covers.
func SetGenerationAttributes(span trace.Span, requestID, engine, model string, isEdit bool, framing string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrEngine, engine),
		attribute.Bool(AttrIsEdit, isEdit),
		attribute.String(AttrFraming, framing),
	}
	if model != "" {
		attrs = append(attrs, attribute.String(AttrModel, model))
	}
	if requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	span.SetAttributes(attrs...)
}

// SetResultAttributes records how a relayed stream ended.
func SetResultAttributes(span trace.Span, status string, chunks int, bytes int64, strategy string, disconnected bool) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrStatus, status),
		attribute.Int(AttrChunks, chunks),
		attribute.Int64(AttrBytes, bytes),
		attribute.Bool(AttrDisconnected, disconnected),
	}
	if strategy != "" {
		attrs = append(attrs, attribute.String(AttrStrategy, strategy))
	}
	span.SetAttributes(attrs...)
}

// SetErrorAttributes records err with its classification and marks the
// span failed.
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.SetAttributes(attribute.String(AttrErrorType, errorType))
	SetError(span, err)
}

// AddEvent adds a named event to span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
