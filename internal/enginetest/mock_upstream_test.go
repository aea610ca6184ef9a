package enginetest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestMockUpstream(t *testing.T) {
	m := NewMockUpstream()
	t.Cleanup(m.Close)

	m.SetResponse("/gemini", GeminiStream("a", "b"))
	m.SetResponse("/sse", ChatCompletionStream("x"))
	m.SetResponse("/fail", ErrorResponse(http.StatusUnauthorized, "bad key"))

	tests := []struct {
		path       string
		wantStatus int
		check      func(t *testing.T, body string)
	}{
		{
			path:       "/gemini",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body string) {
				var elems []json.RawMessage
				if err := json.Unmarshal([]byte(body), &elems); err != nil || len(elems) != 2 {
					t.Errorf("body %q is not a two element array: %v", body, err)
				}
			},
		},
		{
			path:       "/sse",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body string) {
				if !strings.HasSuffix(body, "data: [DONE]\n\n") || !strings.Contains(body, `"content":"x"`) {
					t.Errorf("body = %q", body)
				}
			},
		},
		{
			path:       "/fail",
			wantStatus: http.StatusUnauthorized,
			check: func(t *testing.T, body string) {
				if !strings.Contains(body, "bad key") {
					t.Errorf("body = %q", body)
				}
			},
		},
		{path: "/missing", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Post(m.URL()+tt.path, "application/json", strings.NewReader(`{"q":1}`))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.check != nil {
				tt.check(t, string(body))
			}
		})
	}

	reqs := m.Requests()
	if len(reqs) != 4 || m.RequestCount() != 4 {
		t.Fatalf("recorded %d requests, want 4", len(reqs))
	}
	if string(reqs[0].Body) != `{"q":1}` || reqs[0].Method != http.MethodPost {
		t.Errorf("first request = %+v", reqs[0])
	}
	if err := reqs[0].HeaderContains("Content-Type", "json"); err != nil {
		t.Error(err)
	}
}

func TestMockUpstream_Fallback(t *testing.T) {
	m := NewMockUpstream()
	t.Cleanup(m.Close)
	m.SetFallback(MockResponse{Body: "any"})

	resp, err := http.Get(m.URL() + "/models/x:streamGenerateContent")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "any" {
		t.Errorf("got %d %q", resp.StatusCode, body)
	}
}
