// Package enginetest provides a fake LLM upstream for exercising engine
// adapters and the generation handler end to end.
package enginetest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockUpstream is an HTTP server that plays back configured engine
// responses and records what it received.
type MockUpstream struct {
	server *httptest.Server

	mu        sync.Mutex
	responses map[string]MockResponse
	fallback  *MockResponse
	requests  []RecordedRequest
}

// MockResponse describes one canned reply.
type MockResponse struct {
	StatusCode int
	Headers    map[string]string

	// Body is written in one piece when Chunks is empty.
	Body string

	// Chunks are written and flushed one at a time, ChunkDelay apart.
	Chunks     []string
	ChunkDelay time.Duration

	// Delay is waited before the status line is sent.
	Delay time.Duration
}

// RecordedRequest is a request the upstream received.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// NewMockUpstream starts a mock upstream. Callers must Close it.
func NewMockUpstream() *MockUpstream {
	m := &MockUpstream{responses: make(map[string]MockResponse)}
	m.server = httptest.NewServer(http.HandlerFunc(m.handler))
	return m
}

// URL returns the base URL of the upstream.
func (m *MockUpstream) URL() string {
	return m.server.URL
}

// Close shuts the upstream down.
func (m *MockUpstream) Close() {
	m.server.CloseClientConnections()
	m.server.Close()
}

// SetResponse sets the reply for an exact request path.
func (m *MockUpstream) SetResponse(path string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = resp
}

// SetFallback sets the reply for paths without their own response.
func (m *MockUpstream) SetFallback(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &resp
}

// Requests returns a copy of the requests received so far.
func (m *MockUpstream) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// RequestCount returns the number of requests received.
func (m *MockUpstream) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockUpstream) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	resp, ok := m.responses[r.URL.Path]
	if !ok && m.fallback != nil {
		resp, ok = *m.fallback, true
	}
	m.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if !sleep(r, resp.Delay) {
		return
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(resp.Chunks) == 0 {
		_, _ = io.WriteString(w, resp.Body)
		return
	}

	flusher, _ := w.(http.Flusher)
	for i, chunk := range resp.Chunks {
		if i > 0 && !sleep(r, resp.ChunkDelay) {
			return
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// sleep waits for d unless the client goes away first.
func sleep(r *http.Request, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-time.After(d):
		return true
	case <-r.Context().Done():
		return false
	}
}

// GeminiStream returns a streamGenerateContent reply carrying texts, one
// array element per chunk.
func GeminiStream(texts ...string) MockResponse {
	chunks := make([]string, 0, len(texts)+1)
	for i, text := range texts {
		sep := ","
		if i == 0 {
			sep = "["
		}
		chunks = append(chunks, sep+geminiElement(text))
	}
	if len(chunks) == 0 {
		chunks = append(chunks, "[")
	}
	chunks = append(chunks, "]")

	return MockResponse{
		Headers: map[string]string{"Content-Type": "application/json"},
		Chunks:  chunks,
	}
}

func geminiElement(text string) string {
	elem := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
	b, _ := json.Marshal(elem)
	return string(b)
}

// ChatCompletionStream returns an OpenAI-style SSE reply carrying texts as
// deltas, terminated by [DONE].
func ChatCompletionStream(texts ...string) MockResponse {
	chunks := make([]string, 0, len(texts)+1)
	for _, text := range texts {
		chunks = append(chunks, "data: "+ChatCompletionDelta(text)+"\n\n")
	}
	chunks = append(chunks, "data: [DONE]\n\n")

	return MockResponse{
		Headers: map[string]string{"Content-Type": "text/event-stream"},
		Chunks:  chunks,
	}
}

// ChatCompletionDelta returns one chat.completion.chunk payload.
func ChatCompletionDelta(text string) string {
	chunk := map[string]any{
		"object": "chat.completion.chunk",
		"choices": []any{
			map[string]any{
				"index": 0,
				"delta": map[string]any{"content": text},
			},
		},
	}
	b, _ := json.Marshal(chunk)
	return string(b)
}

// ErrorResponse returns a non-2xx reply with an {"error":{"message"}} body.
func ErrorResponse(status int, message string) MockResponse {
	b, _ := json.Marshal(map[string]any{
		"error": map[string]any{"code": status, "message": message},
	})
	return MockResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}

// HeaderContains reports whether header key of req contains value.
func (r RecordedRequest) HeaderContains(key, value string) error {
	if got := r.Header.Get(key); !strings.Contains(got, value) {
		return fmt.Errorf("header %q = %q, want it to contain %q", key, got, value)
	}
	return nil
}
