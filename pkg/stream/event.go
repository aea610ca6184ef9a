// Package stream normalizes provider wire formats into a uniform event sequence.
//
// Two framing styles are supported. JSONArray bodies are a single JSON array of
// response objects delivered across arbitrary byte boundaries; they are buffered
// in full and parsed once. SSEDelta bodies are "data: <json>" records separated
// by blank lines and terminated by "data: [DONE]"; each record is forwarded as
// soon as it is complete.
//
// Both styles produce the same events: Content, ProviderError and End. End is
// always the final event unless the context is cancelled first.
package stream

import "fmt"

// Framing identifies the wire shape of a provider's streaming response.
type Framing int

const (
	// JSONArray is one top-level JSON array spanning the whole response body.
	JSONArray Framing = iota

	// SSEDelta is a sequence of "data: " records terminated by a done sentinel.
	SSEDelta
)

// String returns the framing name used in logs and metrics.
func (f Framing) String() string {
	switch f {
	case JSONArray:
		return "json_array"
	case SSEDelta:
		return "sse_delta"
	default:
		return fmt.Sprintf("framing(%d)", int(f))
	}
}

// Incremental reports whether content events are forwarded as they arrive.
func (f Framing) Incremental() bool {
	return f == SSEDelta
}

// Kind is the type of a normalized event.
type Kind int

const (
	// KindContent carries model output text.
	KindContent Kind = iota

	// KindProviderError carries an error reported by the provider.
	KindProviderError

	// KindEnd terminates the sequence.
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindContent:
		return "content"
	case KindProviderError:
		return "provider_error"
	case KindEnd:
		return "end"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is a single normalized upstream event.
type Event struct {
	Kind Kind

	// Text is set for KindContent.
	Text string

	// Message is set for KindProviderError.
	Message string

	// Stats is set for KindEnd.
	Stats Stats
}

// Stats summarizes how a body was consumed. It is attached to the End event.
type Stats struct {
	// Bytes is the number of body bytes read.
	Bytes int64

	// Records is the number of frames decoded (array elements or SSE records).
	Records int

	// Skipped is the number of malformed frames that were dropped.
	Skipped int

	// Done reports whether an SSE done sentinel was seen.
	Done bool
}

// Content returns a content event.
func Content(text string) Event {
	return Event{Kind: KindContent, Text: text}
}

// ProviderError returns a provider error event.
func ProviderError(message string) Event {
	return Event{Kind: KindProviderError, Message: message}
}

// End returns a terminal event.
func End(stats Stats) Event {
	return Event{Kind: KindEnd, Stats: stats}
}

// Frame is the provider-independent content of one decoded frame.
type Frame struct {
	// Text is the text payload, empty when the frame carried none.
	Text string

	// Failed is true when the frame carried an error payload.
	Failed bool

	// ErrorMessage is the provider's error text, possibly empty even when Failed.
	ErrorMessage string
}

// FrameDecoder turns one raw JSON frame into a Frame. It returns a
// *FramingError when the payload is not a recognizable frame.
type FrameDecoder func(raw []byte) (Frame, error)

// FramingError reports a single malformed frame. It is never fatal to a stream.
type FramingError struct {
	// Payload is the offending frame, truncated for logging.
	Payload string

	// Cause is the underlying decode error.
	Cause error
}

// Error implements the error interface.
func (e *FramingError) Error() string {
	return fmt.Sprintf("malformed frame %q: %v", e.Payload, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *FramingError) Unwrap() error {
	return e.Cause
}

// NewFramingError builds a FramingError, truncating long payloads.
func NewFramingError(payload []byte, cause error) *FramingError {
	const maxPayload = 200
	p := string(payload)
	if len(p) > maxPayload {
		p = p[:maxPayload] + "..."
	}
	return &FramingError{Payload: p, Cause: cause}
}
