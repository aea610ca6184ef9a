package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biswatma/zerocoder/pkg/providers"
	"github.com/biswatma/zerocoder/pkg/providers/openai"
	"github.com/biswatma/zerocoder/pkg/stream"
)

func TestBuildRequest(t *testing.T) {
	a, err := NewAdapter(providers.ProviderConfig{}, nil)
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}

	up, err := a.BuildRequest(&providers.GenerationRequest{
		Prompt: "pricing page",
		APIKey: "sk-or-1",
		Model:  "anthropic/claude-3.5-sonnet",
	})
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	if up.URL != DefaultURL {
		t.Errorf("URL = %q", up.URL)
	}
	wantHeaders := map[string]string{
		"Authorization": "Bearer sk-or-1",
		"HTTP-Referer":  DefaultReferer,
		"X-Title":       DefaultTitle,
	}
	for k, v := range wantHeaders {
		if up.Headers[k] != v {
			t.Errorf("header %s = %q, want %q", k, up.Headers[k], v)
		}
	}

	var body openai.ChatRequest
	if err := json.Unmarshal(up.Body, &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Model != "anthropic/claude-3.5-sonnet" || !body.Stream {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestBuildRequest_Referer(t *testing.T) {
	a, _ := NewAdapter(providers.ProviderConfig{}, nil)
	up, _ := a.BuildRequest(&providers.GenerationRequest{
		Prompt:  "x",
		APIKey:  "k",
		Model:   "m",
		Referer: "https://my.site/editor",
	})
	if up.Headers["HTTP-Referer"] != "https://my.site/editor" {
		t.Errorf("HTTP-Referer = %q", up.Headers["HTTP-Referer"])
	}
}

func TestBuildRequest_MissingCredentials(t *testing.T) {
	a, _ := NewAdapter(providers.ProviderConfig{}, nil)

	tests := []struct {
		name   string
		req    providers.GenerationRequest
		fields []string
	}{
		{name: "missing both", req: providers.GenerationRequest{Prompt: "x"}, fields: []string{"apiKey", "model"}},
		{name: "missing model", req: providers.GenerationRequest{Prompt: "x", APIKey: "k"}, fields: []string{"model"}},
		{name: "blank key", req: providers.GenerationRequest{Prompt: "x", APIKey: "  ", Model: "m"}, fields: []string{"apiKey"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.BuildRequest(&tt.req)
			var merr *providers.MissingCredentialError
			if !errors.As(err, &merr) {
				t.Fatalf("expected MissingCredentialError, got %v", err)
			}
			if merr.Message != "OpenRouter API Key and Model are required" {
				t.Errorf("Message = %q", merr.Message)
			}
			if fmt.Sprint(merr.Fields) != fmt.Sprint(tt.fields) {
				t.Errorf("Fields = %v, want %v", merr.Fields, tt.fields)
			}
		})
	}
}

func TestBuildRequest_ConfiguredDefaults(t *testing.T) {
	a, _ := NewAdapter(providers.ProviderConfig{APIKey: "server", Model: "openai/gpt-4o", Title: "Builder"}, nil)
	up, err := a.BuildRequest(&providers.GenerationRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	if up.Model != "openai/gpt-4o" || up.Headers["X-Title"] != "Builder" {
		t.Errorf("configured defaults not applied: %+v", up)
	}
}

func TestStreamThroughClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("missing bearer token")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		chunks := []string{
			": OPENROUTER PROCESSING\n\n",
			`data: {"choices":[{"delta":{"content":"<!DOCTYPE html>"}}]}` + "\n\n",
			`data: {"choices":[{"delta":{"content":"<html></html>"}}]}` + "\n\n",
			"data: [DONE]\n\n",
		}
		for _, c := range chunks {
			fmt.Fprint(w, c)
			flusher.Flush()
		}
	}))
	defer server.Close()

	a, _ := NewAdapter(providers.ProviderConfig{BaseURL: server.URL}, nil)
	up, err := a.BuildRequest(&providers.GenerationRequest{Prompt: "x", APIKey: "k", Model: "m"})
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	client := providers.NewClient(providers.ClientConfig{}, nil)
	resp, err := client.Do(context.Background(), a.Engine(), up)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Body.Close()

	n := &stream.Normalizer{Provider: string(a.Engine()), Framing: up.Framing, Decode: a.DecodeFrame}
	var got []string
	for ev := range n.Run(context.Background(), resp.Body) {
		switch ev.Kind {
		case stream.KindContent:
			got = append(got, ev.Text)
		case stream.KindProviderError:
			t.Errorf("unexpected provider error %q", ev.Message)
		}
	}

	if fmt.Sprint(got) != fmt.Sprint([]string{"<!DOCTYPE html>", "<html></html>"}) {
		t.Errorf("content = %q", got)
	}
}
