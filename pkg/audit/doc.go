// Package audit records one row per finished generation request.
//
// Records carry what happened to a request (engine, status, chunk and byte
// counts, which extraction step produced the document) but never the prompt
// or the generated HTML. The prompt is kept only as a SHA-256 hash so that
// repeated prompts can be correlated.
//
// Recording is asynchronous and never feeds back into request handling.
// The subpackages provide:
//
//   - storage: memory and SQLite backends
//   - recorder: the buffered async writer used by the generation handler
//   - retention: age based pruning on a cron schedule
package audit
