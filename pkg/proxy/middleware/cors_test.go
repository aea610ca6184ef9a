package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biswatma/zerocoder/pkg/config"
)

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	base := config.CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"https://app.example.com"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         3600,
	}

	tests := []struct {
		name        string
		mutate      func(*config.CORSConfig)
		method      string
		origin      string
		preflight   bool
		wantCode    int
		wantOrigin  string
		wantMethods string
		wantMaxAge  string
	}{
		{
			name:       "allowed origin",
			method:     http.MethodGet,
			origin:     "https://app.example.com",
			wantCode:   http.StatusOK,
			wantOrigin: "https://app.example.com",
		},
		{
			name:     "disallowed origin",
			method:   http.MethodGet,
			origin:   "https://evil.example.com",
			wantCode: http.StatusOK,
		},
		{
			name:       "wildcard",
			mutate:     func(c *config.CORSConfig) { c.AllowedOrigins = []string{"*"} },
			method:     http.MethodGet,
			origin:     "https://any.example.com",
			wantCode:   http.StatusOK,
			wantOrigin: "*",
		},
		{
			name: "wildcard with credentials echoes origin",
			mutate: func(c *config.CORSConfig) {
				c.AllowedOrigins = []string{"*"}
				c.AllowCredentials = true
			},
			method:     http.MethodGet,
			origin:     "https://any.example.com",
			wantCode:   http.StatusOK,
			wantOrigin: "https://any.example.com",
		},
		{
			name:        "preflight",
			method:      http.MethodOptions,
			origin:      "https://app.example.com",
			preflight:   true,
			wantCode:    http.StatusNoContent,
			wantOrigin:  "https://app.example.com",
			wantMethods: "GET, POST, OPTIONS",
			wantMaxAge:  "3600",
		},
		{
			name:     "disabled",
			mutate:   func(c *config.CORSConfig) { c.Enabled = false },
			method:   http.MethodOptions,
			origin:   "https://app.example.com",
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			req := httptest.NewRequest(tt.method, "/api/generate", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", "GET")
			}
			rec := httptest.NewRecorder()

			CORSMiddleware(&cfg)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != tt.wantMethods {
				t.Errorf("Allow-Methods = %q, want %q", got, tt.wantMethods)
			}
			if got := rec.Header().Get("Access-Control-Max-Age"); got != tt.wantMaxAge {
				t.Errorf("Max-Age = %q, want %q", got, tt.wantMaxAge)
			}
			if tt.wantOrigin != "" && rec.Header().Get("Access-Control-Expose-Headers") != "X-Request-ID" {
				t.Errorf("Expose-Headers = %q", rec.Header().Get("Access-Control-Expose-Headers"))
			}
		})
	}
}
