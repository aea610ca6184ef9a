package gemini

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/biswatma/zerocoder/pkg/providers"
	"github.com/biswatma/zerocoder/pkg/stream"
)

const (
	// DefaultBaseURL is the public Generative Language API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is used when neither the request nor the config names one.
	DefaultModel = "gemini-2.5-pro-exp-03-25"

	apiKeyHeader = "x-goog-api-key"
)

// Adapter builds streamGenerateContent requests.
type Adapter struct {
	config    providers.ProviderConfig
	templates providers.TemplateSource
}

// NewAdapter creates a Gemini adapter. The configured API key, if any, is used
// for requests that do not carry their own.
func NewAdapter(config providers.ProviderConfig, templates providers.TemplateSource) (*Adapter, error) {
	if config.Name == "" {
		config.Name = string(providers.EngineGemini)
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if _, err := url.ParseRequestURI(config.BaseURL); err != nil {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "base_url",
			Message:  fmt.Sprintf("invalid URL: %v", err),
		}
	}
	if templates == nil {
		templates = providers.StaticTemplates{}
	}

	slog.Info("gemini adapter initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
		"server_key", config.APIKey != "",
	)

	return &Adapter{config: config, templates: templates}, nil
}

// Engine implements providers.Adapter.
func (a *Adapter) Engine() providers.Engine {
	return providers.EngineGemini
}

// BuildRequest implements providers.Adapter.
func (a *Adapter) BuildRequest(req *providers.GenerationRequest) (*providers.UpstreamRequest, error) {
	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = a.config.APIKey
	}
	if apiKey == "" {
		return nil, &providers.MissingCredentialError{
			Engine:  providers.EngineGemini,
			Fields:  []string{"apiKey"},
			Message: "API Key is required for Gemini",
		}
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = a.config.Model
	}

	t := a.templates.Current()
	body, err := json.Marshal(&GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: providers.UserContent(req, t.Edit)}}}},
		SystemInstruction: &Content{
			Parts: []Part{{Text: t.System}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	return &providers.UpstreamRequest{
		Method: http.MethodPost,
		URL: fmt.Sprintf("%s/models/%s:streamGenerateContent",
			strings.TrimRight(a.config.BaseURL, "/"), url.PathEscape(model)),
		Headers: map[string]string{apiKeyHeader: apiKey},
		Body:    body,
		Framing: stream.JSONArray,
		Model:   model,
	}, nil
}

// DecodeFrame implements providers.Adapter.
func (a *Adapter) DecodeFrame(raw []byte) (stream.Frame, error) {
	return DecodeFrame(raw)
}
