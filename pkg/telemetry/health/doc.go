// Package health serves liveness, readiness and version endpoints.
//
// Liveness only says the process is running. Readiness runs the registered
// checks concurrently, each bounded by a timeout, and answers 503 while any
// of them fails. The server registers checks for the engine registry, the
// prompt templates and, when enabled, the audit store.
package health
