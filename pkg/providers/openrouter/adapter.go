// Package openrouter implements the adapter for the OpenRouter model-routing
// aggregator.
//
// Both an API key and a model are required. Requests carry attribution
// headers (HTTP-Referer and X-Title) that OpenRouter uses to identify the
// calling application.
package openrouter

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/biswatma/zerocoder/pkg/providers"
	"github.com/biswatma/zerocoder/pkg/providers/openai"
	"github.com/biswatma/zerocoder/pkg/stream"
)

const (
	// DefaultURL is the OpenRouter chat completions endpoint.
	DefaultURL = "https://openrouter.ai/api/v1/chat/completions"

	// DefaultReferer is sent when the caller supplies no referer.
	DefaultReferer = "https://zerocoder.vercel.app"

	// DefaultTitle identifies the application to OpenRouter.
	DefaultTitle = "ZeroCoder"
)

// Adapter builds OpenRouter chat completion requests.
type Adapter struct {
	config    providers.ProviderConfig
	templates providers.TemplateSource
}

// NewAdapter creates an adapter. config.BaseURL is the full endpoint URL.
func NewAdapter(config providers.ProviderConfig, templates providers.TemplateSource) (*Adapter, error) {
	if config.Name == "" {
		config.Name = string(providers.EngineOpenRouter)
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultURL
	}
	if config.Referer == "" {
		config.Referer = DefaultReferer
	}
	if config.Title == "" {
		config.Title = DefaultTitle
	}
	if _, err := url.ParseRequestURI(config.BaseURL); err != nil {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "url",
			Message:  fmt.Sprintf("invalid URL: %v", err),
		}
	}
	if templates == nil {
		templates = providers.StaticTemplates{}
	}

	slog.Info("openrouter adapter initialized",
		"provider", config.Name,
		"url", config.BaseURL,
		"title", config.Title,
	)

	return &Adapter{config: config, templates: templates}, nil
}

// Engine implements providers.Adapter.
func (a *Adapter) Engine() providers.Engine {
	return providers.EngineOpenRouter
}

// BuildRequest implements providers.Adapter.
func (a *Adapter) BuildRequest(req *providers.GenerationRequest) (*providers.UpstreamRequest, error) {
	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = a.config.APIKey
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = a.config.Model
	}

	var missing []string
	if apiKey == "" {
		missing = append(missing, "apiKey")
	}
	if model == "" {
		missing = append(missing, "model")
	}
	if len(missing) > 0 {
		return nil, &providers.MissingCredentialError{
			Engine:  providers.EngineOpenRouter,
			Fields:  missing,
			Message: "OpenRouter API Key and Model are required",
		}
	}

	t := a.templates.Current()
	body, err := openai.NewChatRequest(model, t.System, providers.UserContent(req, t.Edit)).Marshal()
	if err != nil {
		return nil, err
	}

	referer := req.Referer
	if referer == "" {
		referer = a.config.Referer
	}

	return &providers.UpstreamRequest{
		Method: http.MethodPost,
		URL:    a.config.BaseURL,
		Headers: map[string]string{
			"Authorization": "Bearer " + apiKey,
			"HTTP-Referer":  referer,
			"X-Title":       a.config.Title,
		},
		Body:    body,
		Framing: stream.SSEDelta,
		Model:   model,
	}, nil
}

// DecodeFrame implements providers.Adapter.
func (a *Adapter) DecodeFrame(raw []byte) (stream.Frame, error) {
	return openai.DecodeFrame(raw)
}
