package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/biswatma/zerocoder/pkg/proxy"
	"github.com/biswatma/zerocoder/pkg/proxy/types"
)

// ErrClosed is returned by writes on a session that has ended or whose
// client has gone away.
var ErrClosed = errors.New("relay: session closed")

// Stats counts what a session has written to the client.
type Stats struct {
	// Messages is the number of SSE records written, including EOS.
	Messages int

	// Bytes is the number of bytes written to the client.
	Bytes int64
}

// Session is an open SSE channel to one client. It is not safe for
// concurrent use; a request's session is written only by the goroutine
// serving that request.
type Session struct {
	ctx context.Context
	w   http.ResponseWriter

	ended  bool
	closed bool
	stats  Stats
}

// Open writes the SSE response headers and flushes them so the client sees
// the channel immediately. It fails when w cannot be flushed; in that case
// nothing more should be written to w.
func Open(ctx context.Context, w http.ResponseWriter) (*Session, error) {
	proxy.SetSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	s := &Session{ctx: ctx, w: w}
	if err := http.NewResponseController(w).Flush(); err != nil {
		s.closed = true
		return nil, fmt.Errorf("relay: open stream: %w", err)
	}
	return s, nil
}

// SendHTML writes an {"htmlChunk": ...} message.
func (s *Session) SendHTML(html string) error {
	return s.write(types.HTMLChunk{HTMLChunk: html})
}

// SendError writes an {"error": ...} message. The channel stays open.
func (s *Session) SendError(message string) error {
	return s.write(types.StreamError{Error: message})
}

// End writes the {"event":"EOS"} message. Only the first call writes; later
// calls return nil. Nothing is written when the client has gone away.
func (s *Session) End() error {
	if s.ended {
		return nil
	}
	if err := s.write(types.NewEndOfStream()); err != nil {
		s.ended = true
		return err
	}
	s.ended = true
	return nil
}

// Close marks the session as abandoned by the client. Subsequent writes,
// including End, are dropped.
func (s *Session) Close() {
	s.closed = true
}

// Ended reports whether the end-of-stream message has been handled.
func (s *Session) Ended() bool {
	return s.ended
}

// Closed reports whether the client has gone away.
func (s *Session) Closed() bool {
	return s.closed
}

// Stats returns the write counters.
func (s *Session) Stats() Stats {
	return s.stats
}

func (s *Session) write(msg any) error {
	if s.ended || s.closed {
		return ErrClosed
	}
	if err := s.ctx.Err(); err != nil {
		s.closed = true
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	n, err := proxy.WriteSSEMessage(s.w, msg)
	s.stats.Bytes += int64(n)
	if err != nil {
		s.closed = true
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	s.stats.Messages++
	return nil
}
