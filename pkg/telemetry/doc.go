// Package telemetry groups the proxy's observability packages: structured
// logging with credential redaction, Prometheus metrics, OpenTelemetry
// tracing and health endpoints.
package telemetry
