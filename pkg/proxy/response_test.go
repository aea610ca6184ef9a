package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biswatma/zerocoder/pkg/proxy/types"
)

func TestWriteErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	if err := WriteErrorResponse(w, http.StatusBadRequest, "Prompt is required"); err != nil {
		t.Fatalf("WriteErrorResponse() error = %v", err)
	}

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Body.String(); got != "{\"error\":\"Prompt is required\"}\n" {
		t.Errorf("body = %q", got)
	}
}

func TestWriteSSEMessage(t *testing.T) {
	w := httptest.NewRecorder()
	SetSSEHeaders(w)

	if _, err := WriteSSEMessage(w, types.HTMLChunk{HTMLChunk: "<p>\"hi\"</p>"}); err != nil {
		t.Fatalf("WriteSSEMessage() error = %v", err)
	}
	if _, err := WriteSSEMessage(w, types.NewEndOfStream()); err != nil {
		t.Fatalf("WriteSSEMessage() error = %v", err)
	}

	want := "data: {\"htmlChunk\":\"\\u003cp\\u003e\\\"hi\\\"\\u003c/p\\u003e\"}\n\ndata: {\"event\":\"EOS\"}\n\n"
	if got := w.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
	if !w.Flushed {
		t.Error("expected response to be flushed")
	}
	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q", got)
	}
}
