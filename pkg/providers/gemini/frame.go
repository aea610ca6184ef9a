package gemini

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/biswatma/zerocoder/pkg/stream"
)

// GenerateRequest is the streamGenerateContent request body.
type GenerateRequest struct {
	Contents          []Content `json:"contents"`
	SystemInstruction *Content  `json:"system_instruction,omitempty"`
}

// Content is a list of parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single text part.
type Part struct {
	Text string `json:"text"`
}

// ResponseFrame is one element of the streamed response array.
type ResponseFrame struct {
	Candidates []Candidate `json:"candidates"`

	// Error is usually an APIError object but may be any JSON value.
	Error json.RawMessage `json:"error,omitempty"`
}

// Candidate is one generated candidate.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// APIError is the error object embedded in a response element.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Text returns the first part of the first candidate, or "".
func (f *ResponseFrame) Text() string {
	if len(f.Candidates) == 0 {
		return ""
	}
	c := f.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 {
		return ""
	}
	return c.Parts[0].Text
}

// Failed reports whether the element carried an error payload.
func (f *ResponseFrame) Failed() bool {
	return len(f.Error) > 0 && string(f.Error) != "null"
}

// ErrorMessage returns the error text, or "" when none was given.
func (f *ResponseFrame) ErrorMessage() string {
	if !f.Failed() {
		return ""
	}
	e := gjson.ParseBytes(f.Error)
	if e.Type == gjson.String {
		return e.Str
	}
	return e.Get("message").String()
}

// DecodeFrame parses one response array element. Elements that are not JSON
// objects yield a *stream.FramingError.
func DecodeFrame(raw []byte) (stream.Frame, error) {
	var f ResponseFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return stream.Frame{}, stream.NewFramingError(raw, err)
	}

	return stream.Frame{
		Text:         f.Text(),
		Failed:       f.Failed(),
		ErrorMessage: f.ErrorMessage(),
	}, nil
}
