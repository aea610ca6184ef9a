package proxy

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/biswatma/zerocoder/pkg/providers"
	"github.com/biswatma/zerocoder/pkg/proxy/types"
)

const (
	// MaxRequestBodySize is the maximum allowed form body size (10MB).
	MaxRequestBodySize = 10 * 1024 * 1024

	// AuthorizationHeader is the HTTP header for API key authentication.
	AuthorizationHeader = "Authorization"

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// Generation request parameters.
const (
	ParamPrompt      = "prompt"
	ParamIsEdit      = "isEdit"
	ParamCurrentHTML = "currentHtml"
	ParamEngine      = "engine"
	ParamAPIKey      = "apiKey"
	ParamModel       = "model"
	ParamNoThink     = "lmstudio_no_think"
)

// ParseGenerationRequest reads a generation request from the query string or,
// for POST requests, a urlencoded form body. Large documents being edited
// may not fit in a URL, so the form body is accepted as an alternative.
//
// The API key may also be given as a bearer token, which keeps it out of
// URLs and access logs.
func ParseGenerationRequest(w http.ResponseWriter, r *http.Request) (*providers.GenerationRequest, error) {
	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	}
	if err := r.ParseForm(); err != nil {
		return nil, &providers.ValidationError{Field: "body", Message: "invalid request parameters"}
	}

	prompt := r.Form.Get(ParamPrompt)
	if prompt == "" {
		return nil, &providers.ValidationError{Field: ParamPrompt, Message: types.MessagePromptRequired}
	}

	apiKey := r.Form.Get(ParamAPIKey)
	if apiKey == "" {
		apiKey = ExtractAPIKey(r)
	}

	req := &providers.GenerationRequest{
		Prompt:           prompt,
		IsEdit:           parseBool(r.Form.Get(ParamIsEdit)),
		ExistingDocument: r.Form.Get(ParamCurrentHTML),
		Engine:           providers.Engine(strings.TrimSpace(r.Form.Get(ParamEngine))), // resolved by the registry when empty
		APIKey:           apiKey,
		Model:            r.Form.Get(ParamModel),
		Referer:          r.Referer(),
		Options: map[string]bool{
			providers.OptionNoThink: parseBool(r.Form.Get(ParamNoThink)),
		},
	}
	return req, nil
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// ExtractAPIKey extracts the API key from the Authorization header.
// The expected format is:
//
//	Authorization: Bearer <key>
//
// If the header is missing or malformed, an empty string is returned.
func ExtractAPIKey(r *http.Request) string {
	authHeader := r.Header.Get(AuthorizationHeader)
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// ClientIP returns the client address, preferring the first X-Forwarded-For
// hop when trustProxy is set.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RedactAPIKey redacts an API key for safe logging.
// It shows only the first 7 and last 4 characters.
//
// Example:
//
//	sk-or-v1-1234567890abcdef -> sk-or-v...cdef
func RedactAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) < 12 {
		return "***"
	}
	return apiKey[:7] + "..." + apiKey[len(apiKey)-4:]
}
