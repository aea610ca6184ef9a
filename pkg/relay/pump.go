package relay

import (
	"context"
	"time"

	"github.com/biswatma/zerocoder/pkg/extract"
	"github.com/biswatma/zerocoder/pkg/stream"
)

// Summary describes how an event stream was relayed.
type Summary struct {
	// Chunks is the number of htmlChunk messages sent.
	Chunks int

	// Errors is the number of provider errors relayed.
	Errors int

	// FirstError is the first provider error message, if any.
	FirstError string

	// Bytes is the total length of the HTML sent.
	Bytes int64

	// Strategy is the extraction step used for a buffered response. It is
	// empty for incremental streams.
	Strategy extract.Strategy

	// Ended reports whether the stream reached its End event.
	Ended bool

	// Disconnected reports whether the client went away.
	Disconnected bool

	// Stream carries the normalizer's counters from the End event.
	Stream stream.Stats

	// FirstChunkAt is when the first htmlChunk was sent.
	FirstChunkAt time.Time
}

// Pump relays events to s until the End event, the events channel closing,
// or ctx being cancelled. It does not end the session.
//
// For buffered framings the single content event is run through the HTML
// extractor before sending. Incremental content is forwarded unchanged.
func Pump(ctx context.Context, s *Session, events <-chan stream.Event, framing stream.Framing) Summary {
	var sum Summary

	for {
		select {
		case <-ctx.Done():
			s.Close()
			sum.Disconnected = true
			return sum

		case ev, ok := <-events:
			if !ok {
				return sum
			}

			switch ev.Kind {
			case stream.KindContent:
				text := ev.Text
				if !framing.Incremental() {
					res := extract.Extract(text)
					text, sum.Strategy = res.HTML, res.Strategy
				}
				if text == "" {
					continue
				}
				if err := s.SendHTML(text); err != nil {
					sum.Disconnected = s.Closed()
					return sum
				}
				if sum.Chunks == 0 {
					sum.FirstChunkAt = time.Now()
				}
				sum.Chunks++
				sum.Bytes += int64(len(text))

			case stream.KindProviderError:
				if sum.Errors == 0 {
					sum.FirstError = ev.Message
				}
				sum.Errors++
				if err := s.SendError(ev.Message); err != nil {
					sum.Disconnected = s.Closed()
					return sum
				}

			case stream.KindEnd:
				sum.Ended = true
				sum.Stream = ev.Stats
				return sum
			}
		}
	}
}
