// Package gemini implements the adapter for Google's Generative Language
// streamGenerateContent API.
//
// Without the alt=sse parameter the endpoint streams a single JSON array of
// GenerateContentResponse objects, so responses use stream.JSONArray framing:
// the body is buffered and parsed once it is complete.
//
// The API key is sent in the x-goog-api-key header rather than the URL query
// so that it never appears in access logs or traces.
package gemini
