// Package lmstudio implements the adapter for a local OpenAI-compatible
// inference server such as LM Studio.
//
// No credential is required. The model is optional: when neither the request
// nor the configuration names one, the server's loaded model is used.
package lmstudio

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

// DefaultURL is LM Studio's default chat completions endpoint.
const DefaultURL = "http://localhost:1234/v1/chat/completions"

// Adapter builds chat completion requests for a local server.
type Adapter struct {
	config    providers.ProviderConfig
	templates providers.TemplateSource
}

// NewAdapter creates an adapter. config.BaseURL is the full endpoint URL.
func NewAdapter(config providers.ProviderConfig, templates providers.TemplateSource) (*Adapter, error) {
	if config.Name == "" {
		config.Name = string(providers.EngineLMStudio)
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultURL
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

	slog.Info("local inference adapter initialized",
		"provider", config.Name,
		"url", config.BaseURL,
		"model", config.Model,
	)

	return &Adapter{config: config, templates: templates}, nil
}

// Engine implements providers.Adapter.
func (a *Adapter) Engine() providers.Engine {
	return providers.EngineLMStudio
}

// BuildRequest implements providers.Adapter.
func (a *Adapter) BuildRequest(req *providers.GenerationRequest) (*providers.UpstreamRequest, error) {
	t := a.templates.Current()

	content := providers.UserContent(req, t.LocalEdit)
	if req.Option(providers.OptionNoThink) {
		content = content + " " + t.NoThinkDirective
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = a.config.Model
	}

	body, err := openai.NewChatRequest(model, t.System, content).Marshal()
	if err != nil {
		return nil, err
	}

	headers := map[string]string{}
	if a.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + a.config.APIKey
	}

	return &providers.UpstreamRequest{
		Method:  http.MethodPost,
		URL:     a.config.BaseURL,
		Headers: headers,
		Body:    body,
		Framing: stream.SSEDelta,
		Model:   model,
	}, nil
}

// DecodeFrame implements providers.Adapter.
func (a *Adapter) DecodeFrame(raw []byte) (stream.Frame, error) {
	return openai.DecodeFrame(raw)
}
