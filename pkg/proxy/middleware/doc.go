// Package middleware provides the HTTP middleware wrapped around the proxy
// routes.
//
// The server chains them outermost first:
//
//	Recovery, RequestID, tracing, Logging, CORS, then the rate limiter on
//	the generation route only
//
// RequestIDMiddleware stores the ID with logging.WithRequestID so every log
// record written with the request context carries it. The logging and
// recovery wrappers forward Flush and Unwrap, which the SSE relay relies on.
package middleware
