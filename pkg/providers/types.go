package providers

import (
	"time"

	"github.com/biswatma/zerocoder/pkg/stream"
)

// Engine identifies an upstream provider.
type Engine string

// Supported engines.
const (
	EngineGemini     Engine = "gemini"
	EngineLMStudio   Engine = "lmstudio"
	EngineOpenRouter Engine = "openrouter"
)

// DefaultEngine is used when a request does not name one.
const DefaultEngine = EngineGemini

// Engine option keys.
const (
	// OptionNoThink asks a local engine to skip its reasoning phase.
	OptionNoThink = "no_think"
)

// GenerationRequest is a provider-agnostic request to generate or edit an
// HTML document.
type GenerationRequest struct {
	// Prompt is the generation prompt, or the edit instruction when IsEdit is set.
	Prompt string

	// IsEdit requests a targeted change to ExistingDocument.
	IsEdit bool

	// ExistingDocument is the document to edit. Without it an edit request
	// degrades to a plain generation.
	ExistingDocument string

	// Engine selects the upstream provider.
	Engine Engine

	// APIKey is the caller-supplied credential. When empty, adapters may fall
	// back to a server-configured key.
	APIKey string

	// Model overrides the engine's default model.
	Model string

	// Options are engine-specific boolean toggles.
	Options map[string]bool

	// Referer is forwarded to providers that attribute traffic by origin.
	Referer string
}

// EditMode reports whether the request should be composed as an edit.
func (r *GenerationRequest) EditMode() bool {
	return r.IsEdit && r.ExistingDocument != ""
}

// Option returns the value of an engine option.
func (r *GenerationRequest) Option(name string) bool {
	return r.Options[name]
}

// UpstreamRequest is a fully built outbound call. Building one performs no I/O.
type UpstreamRequest struct {
	// Method is the HTTP method, normally POST.
	Method string

	// URL is the complete endpoint URL.
	URL string

	// Headers are sent in addition to Content-Type.
	Headers map[string]string

	// Body is the JSON payload.
	Body []byte

	// Framing tells the normalizer how to parse the response body.
	Framing stream.Framing

	// Model is the model the request targets, for logs and metrics.
	Model string
}

// Message is one chat message.
type Message struct {
	// Role identifies the message sender (system, user)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`
}

// Message role constants
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ProviderConfig contains the server-side configuration of one engine.
type ProviderConfig struct {
	// Name is the engine identifier (e.g., "gemini", "openrouter")
	Name string

	// BaseURL is the API endpoint base URL, or the full endpoint for
	// OpenAI-compatible engines
	BaseURL string

	// APIKey is the server-side key used when a request supplies none
	APIKey string

	// Model is the default model identifier
	Model string

	// Referer is the default attribution referer
	Referer string

	// Title is the application title sent to aggregators
	Title string
}

// ClientConfig configures the shared upstream HTTP client.
type ClientConfig struct {
	// StreamTimeout bounds a whole upstream call, including the body.
	// Zero disables the bound.
	StreamTimeout time.Duration

	// ResponseHeaderTimeout bounds the wait for response headers.
	ResponseHeaderTimeout time.Duration

	// MaxRetries is the maximum number of retry attempts for transport
	// failures and 5xx responses. Zero disables retries.
	MaxRetries int

	// RetryBackoff is the delay before the first retry; it doubles per attempt.
	RetryBackoff time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration
}
