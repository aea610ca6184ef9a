package openai

import (
	"encoding/json"
	"fmt"

	"github.com/biswatma/zerocoder/pkg/providers"
)

// ChatRequest is a streaming chat completion request.
type ChatRequest struct {
	Model    string              `json:"model,omitempty"`
	Messages []providers.Message `json:"messages"`
	Stream   bool                `json:"stream"`
}

// NewChatRequest builds a streamed two-message request. An empty model is
// omitted so that servers fall back to their loaded model.
func NewChatRequest(model, system, user string) *ChatRequest {
	return &ChatRequest{
		Model: model,
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: system},
			{Role: providers.RoleUser, Content: user},
		},
		Stream: true,
	}
}

// Marshal encodes the request body.
func (r *ChatRequest) Marshal() ([]byte, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}
	return body, nil
}
