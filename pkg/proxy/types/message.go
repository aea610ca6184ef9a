package types

// EventEOS is the value of the terminal stream message.
const EventEOS = "EOS"

// HTMLChunk carries generated document text.
type HTMLChunk struct {
	HTMLChunk string `json:"htmlChunk"`
}

// StreamError carries an error that occurred after the stream opened.
type StreamError struct {
	Error string `json:"error"`
}

// EndOfStream terminates a stream.
type EndOfStream struct {
	Event string `json:"event"`
}

// NewEndOfStream returns the terminal message.
func NewEndOfStream() EndOfStream {
	return EndOfStream{Event: EventEOS}
}
