// Package types defines the wire types exchanged with browser clients.
//
// Once a generation stream is open, every message is one of:
//
//	{"htmlChunk": "<string>"}
//	{"error": "<string>"}
//	{"event": "EOS"}
//
// Failures detected before the stream opens are returned as a plain JSON
// ErrorResponse with a 4xx status instead.
package types
