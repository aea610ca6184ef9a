package proxy

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/biswatma/zerocoder/pkg/providers"
)

func TestParseGenerationRequest(t *testing.T) {
	q := url.Values{}
	q.Set("prompt", "a coffee shop site")
	q.Set("isEdit", "true")
	q.Set("currentHtml", "<html></html>")
	q.Set("engine", "lmstudio")
	q.Set("model", "qwen3")
	q.Set("lmstudio_no_think", "true")

	r := httptest.NewRequest(http.MethodGet, "/api/generate?"+q.Encode(), nil)
	r.Header.Set("Referer", "http://localhost:3000/")

	req, err := ParseGenerationRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("ParseGenerationRequest() error = %v", err)
	}

	if req.Prompt != "a coffee shop site" {
		t.Errorf("Prompt = %q", req.Prompt)
	}
	if !req.IsEdit || req.ExistingDocument != "<html></html>" {
		t.Errorf("edit fields not parsed: %+v", req)
	}
	if req.Engine != providers.EngineLMStudio {
		t.Errorf("Engine = %q", req.Engine)
	}
	if req.Model != "qwen3" {
		t.Errorf("Model = %q", req.Model)
	}
	if !req.Option(providers.OptionNoThink) {
		t.Error("expected no_think option")
	}
	if req.Referer != "http://localhost:3000/" {
		t.Errorf("Referer = %q", req.Referer)
	}
}

func TestParseGenerationRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/generate?prompt=hi&isEdit=nope", nil)
	req, err := ParseGenerationRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("ParseGenerationRequest() error = %v", err)
	}
	if req.Engine != "" {
		t.Errorf("Engine = %q, want empty", req.Engine)
	}
	if req.IsEdit {
		t.Error("unparseable isEdit should be false")
	}
	if req.Option(providers.OptionNoThink) {
		t.Error("no_think should default to false")
	}
}

func TestParseGenerationRequest_WhitespacePrompt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/generate?prompt=%20%20", nil)
	req, err := ParseGenerationRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("ParseGenerationRequest() error = %v", err)
	}
	if req.Prompt != "  " {
		t.Errorf("Prompt = %q, want it passed through unchanged", req.Prompt)
	}
}

func TestParseGenerationRequest_MissingPrompt(t *testing.T) {
	for _, target := range []string{"/api/generate", "/api/generate?prompt="} {
		t.Run(target, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, target, nil)
			_, err := ParseGenerationRequest(httptest.NewRecorder(), r)

			var verr *providers.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Message != "Prompt is required" {
				t.Errorf("Message = %q", verr.Message)
			}
		})
	}
}

func TestParseGenerationRequest_PostFormAndBearer(t *testing.T) {
	form := url.Values{}
	form.Set("prompt", "edit it")
	form.Set("currentHtml", strings.Repeat("<p>x</p>", 1000))
	form.Set("engine", "openrouter")

	r := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Authorization", "Bearer sk-or-abc")

	req, err := ParseGenerationRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("ParseGenerationRequest() error = %v", err)
	}
	if req.APIKey != "sk-or-abc" {
		t.Errorf("APIKey = %q", req.APIKey)
	}
	if len(req.ExistingDocument) != 8000 {
		t.Errorf("ExistingDocument length = %d", len(req.ExistingDocument))
	}
}

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := ExtractAPIKey(r); got != tt.want {
			t.Errorf("ExtractAPIKey(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:51234"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if got := ClientIP(r, false); got != "10.0.0.5" {
		t.Errorf("ClientIP(untrusted) = %q", got)
	}
	if got := ClientIP(r, true); got != "203.0.113.7" {
		t.Errorf("ClientIP(trusted) = %q", got)
	}
}

func TestRedactAPIKey(t *testing.T) {
	if got := RedactAPIKey("sk-or-v1-1234567890abcdef"); got != "sk-or-v...cdef" {
		t.Errorf("RedactAPIKey() = %q", got)
	}
	if got := RedactAPIKey("short"); got != "***" {
		t.Errorf("RedactAPIKey(short) = %q", got)
	}
	if got := RedactAPIKey(""); got != "" {
		t.Errorf("RedactAPIKey(empty) = %q", got)
	}
}
