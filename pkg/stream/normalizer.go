package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseFailureMessage is reported when a JSONArray body cannot be parsed.
const ParseFailureMessage = "failed to parse full response"

const (
	readBufferSize = 32 * 1024
	eventBuffer    = 16
)

var (
	recordSeparator = []byte("\n\n")
	doneSentinel    = []byte("[DONE]")
	carriageReturn  = []byte("\r")
)

// Normalizer converts one provider response body into Events.
// A Normalizer holds no per-body state and may be reused across requests.
type Normalizer struct {
	// Provider names the upstream in logs and default error messages.
	Provider string

	// Framing selects the body parser.
	Framing Framing

	// Decode interprets individual frames.
	Decode FrameDecoder

	// Logger receives framing diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// OnSkip, when set, is called for every malformed frame that is dropped.
	OnSkip func(err *FramingError)
}

// Normalize is a convenience wrapper around Normalizer.Run.
func Normalize(ctx context.Context, body io.Reader, framing Framing, decode FrameDecoder) <-chan Event {
	n := &Normalizer{Framing: framing, Decode: decode}
	return n.Run(ctx, body)
}

// Run reads body in a new goroutine and returns the resulting events.
//
// The channel is closed after End is delivered. If ctx is cancelled the
// goroutine stops without emitting End; callers that cancel must not wait for
// it. Run never closes body.
func (n *Normalizer) Run(ctx context.Context, body io.Reader) <-chan Event {
	events := make(chan Event, eventBuffer)

	go func() {
		defer close(events)

		r := &run{n: n, ctx: ctx, events: events}
		switch n.Framing {
		case SSEDelta:
			r.sse(body)
		default:
			r.jsonArray(body)
		}
	}()

	return events
}

func (n *Normalizer) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

func (n *Normalizer) providerName() string {
	if n.Provider == "" {
		return "provider"
	}
	return n.Provider
}

// run is the state of a single body being normalized.
type run struct {
	n      *Normalizer
	ctx    context.Context
	events chan<- Event
	stats  Stats
}

// emit delivers ev unless the context is cancelled first.
func (r *run) emit(ev Event) bool {
	select {
	case r.events <- ev:
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *run) readFailed(err error) {
	if r.ctx.Err() != nil {
		return
	}
	r.n.logger().Warn("upstream body read failed",
		"provider", r.n.Provider,
		"bytes", r.stats.Bytes,
		"error", err,
	)
	if r.emit(ProviderError(fmt.Sprintf("error reading %s response: %v", r.n.providerName(), err))) {
		r.emit(End(r.stats))
	}
}

func (r *run) skip(payload []byte, err error) {
	var fe *FramingError
	if !errors.As(err, &fe) {
		fe = NewFramingError(payload, err)
	}
	r.stats.Skipped++

	r.n.logger().Warn("skipping malformed stream frame",
		"provider", r.n.Provider,
		"framing", r.n.Framing.String(),
		"error", fe,
	)
	if r.n.OnSkip != nil {
		r.n.OnSkip(fe)
	}
}

// jsonArray buffers the whole body and parses it once. Partial JSON is never
// inspected.
func (r *run) jsonArray(body io.Reader) {
	buf, err := io.ReadAll(body)
	r.stats.Bytes = int64(len(buf))
	if err != nil {
		r.readFailed(err)
		return
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(buf, &elements); err != nil {
		preview := string(buf)
		if len(preview) > 500 {
			preview = preview[:500]
		}
		r.n.logger().Warn("failed to parse upstream response array",
			"provider", r.n.Provider,
			"bytes", len(buf),
			"preview", preview,
			"error", err,
		)
		if r.emit(ProviderError(ParseFailureMessage)) {
			r.emit(End(r.stats))
		}
		return
	}

	var text strings.Builder
	for _, raw := range elements {
		r.stats.Records++

		frame, err := r.n.Decode(raw)
		if err != nil {
			r.skip(raw, err)
			continue
		}
		if frame.Failed {
			msg := frame.ErrorMessage
			if msg == "" {
				msg = fmt.Sprintf("error in %s response object", r.n.providerName())
			}
			if !r.emit(ProviderError(msg)) {
				return
			}
		}
		text.WriteString(frame.Text)
	}

	if text.Len() > 0 {
		if !r.emit(Content(text.String())) {
			return
		}
	}
	r.emit(End(r.stats))
}

// sse splits the body into blank-line separated records, keeping the trailing
// fragment buffered until the next read completes it.
func (r *run) sse(body io.Reader) {
	var pending []byte
	chunk := make([]byte, readBufferSize)

	for {
		n, err := body.Read(chunk)
		if n > 0 {
			r.stats.Bytes += int64(n)
			pending = append(pending, bytes.ReplaceAll(chunk[:n], carriageReturn, nil)...)

			for {
				idx := bytes.Index(pending, recordSeparator)
				if idx < 0 {
					break
				}
				record := pending[:idx]
				pending = pending[idx+len(recordSeparator):]

				if !r.record(record) {
					return
				}
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			r.readFailed(err)
			return
		}
	}

	if len(bytes.TrimSpace(pending)) > 0 {
		if !r.record(pending) {
			return
		}
	}
	r.emit(End(r.stats))
}

// record handles one complete SSE record. It returns false when reading must
// stop, either because the done sentinel was seen or the context ended.
func (r *run) record(rec []byte) bool {
	payload, ok := dataPayload(rec)
	if !ok {
		return true
	}

	if bytes.Equal(bytes.TrimSpace(payload), doneSentinel) {
		r.stats.Done = true
		r.emit(End(r.stats))
		return false
	}

	r.stats.Records++
	frame, err := r.n.Decode(payload)
	if err != nil {
		r.skip(payload, err)
		return r.ctx.Err() == nil
	}

	if frame.Failed {
		msg := frame.ErrorMessage
		if msg == "" {
			msg = fmt.Sprintf("error in %s stream chunk", r.n.providerName())
		}
		if !r.emit(ProviderError(msg)) {
			return false
		}
	}
	if frame.Text != "" {
		if !r.emit(Content(frame.Text)) {
			return false
		}
	}
	return true
}

// dataPayload joins the data lines of an SSE record. Comment lines and other
// fields are ignored. ok is false when the record has no data line.
func dataPayload(rec []byte) (payload []byte, ok bool) {
	var data [][]byte
	for _, line := range bytes.Split(rec, []byte("\n")) {
		if !bytes.HasPrefix(line, []byte("data:")) {
			continue
		}
		v := line[len("data:"):]
		if len(v) > 0 && v[0] == ' ' {
			v = v[1:]
		}
		data = append(data, v)
	}
	if len(data) == 0 {
		return nil, false
	}
	return bytes.Join(data, []byte("\n")), true
}
