package openai

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/biswatma/zerocoder/pkg/stream"
)

// ChatDeltaFrame is one streamed chat completion chunk.
type ChatDeltaFrame struct {
	ID      string        `json:"id,omitempty"`
	Model   string        `json:"model,omitempty"`
	Choices []DeltaChoice `json:"choices"`

	// Error is either an object with a message or a bare string.
	Error json.RawMessage `json:"error,omitempty"`
}

// DeltaChoice is one choice within a chunk.
type DeltaChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta is the incremental message content.
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// Text returns the first choice's content, or "".
func (f *ChatDeltaFrame) Text() string {
	if len(f.Choices) == 0 {
		return ""
	}
	return f.Choices[0].Delta.Content
}

// Failed reports whether the chunk carried an error payload.
func (f *ChatDeltaFrame) Failed() bool {
	return len(f.Error) > 0 && string(f.Error) != "null"
}

// ErrorMessage returns the error text, or "" when none was given.
func (f *ChatDeltaFrame) ErrorMessage() string {
	if !f.Failed() {
		return ""
	}
	e := gjson.ParseBytes(f.Error)
	if e.Type == gjson.String {
		return e.Str
	}
	return e.Get("message").String()
}

// DecodeFrame parses one SSE record payload. Payloads that are not JSON
// objects yield a *stream.FramingError.
func DecodeFrame(raw []byte) (stream.Frame, error) {
	var f ChatDeltaFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return stream.Frame{}, stream.NewFramingError(raw, err)
	}
	return stream.Frame{
		Text:         f.Text(),
		Failed:       f.Failed(),
		ErrorMessage: f.ErrorMessage(),
	}, nil
}
