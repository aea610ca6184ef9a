// Package handlers provides the HTTP handlers of the proxy.
//
// GenerateHandler serves GET /api/generate. Parameters come from the query
// string (or a urlencoded POST body):
//
//	prompt             required, non-blank
//	engine             gemini (default), lmstudio or openrouter
//	isEdit             "true" to edit currentHtml instead of generating
//	currentHtml        the document being edited
//	apiKey             provider key; an Authorization bearer token also works
//	model              overrides the engine's default model
//	lmstudio_no_think  "true" to skip a local model's reasoning phase
//
// Requests that fail validation get a 400 with {"error": "..."} and no stream.
// Everything else is answered with a text/event-stream of
//
//	data: {"htmlChunk":"..."}
//	data: {"error":"..."}
//	data: {"event":"EOS"}
//
// records. Exactly one EOS ends every stream the client is still reading.
// When the client goes away the upstream request is cancelled and nothing
// more is written.
package handlers
