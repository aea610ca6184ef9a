package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// EngineKey is the context key for the generation engine.
	EngineKey contextKey = "engine"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithEngine adds the generation engine name to the context.
func WithEngine(ctx context.Context, engine string) context.Context {
	return context.WithValue(ctx, EngineKey, engine)
}

// GetEngine retrieves the generation engine name from the context.
func GetEngine(ctx context.Context) string {
	if engine, ok := ctx.Value(EngineKey).(string); ok {
		return engine
	}
	return ""
}

// contextAttrs returns the context fields as key-value pairs.
func contextAttrs(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var fields []any
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, string(RequestIDKey), requestID)
	}
	if engine := GetEngine(ctx); engine != "" {
		fields = append(fields, string(EngineKey), engine)
	}
	return fields
}
