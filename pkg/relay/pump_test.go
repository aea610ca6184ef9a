package relay

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/biswatma/zerocoder/pkg/extract"
	"github.com/biswatma/zerocoder/pkg/stream"
)

func feed(events ...stream.Event) <-chan stream.Event {
	ch := make(chan stream.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func openRecorder(t *testing.T, ctx context.Context) (*Session, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	s, err := Open(ctx, w)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s, w
}

func TestPump(t *testing.T) {
	tests := []struct {
		name         string
		framing      stream.Framing
		events       []stream.Event
		wantBody     string
		wantChunks   int
		wantErrors   int
		wantEnded    bool
		wantStrategy extract.Strategy
	}{
		{
			name:    "buffered response is extracted",
			framing: stream.JSONArray,
			events: []stream.Event{
				stream.Content("Sure! ```html\n<!DOCTYPE html><html><body>Hi</body></html>\n```"),
				stream.End(stream.Stats{Records: 2}),
			},
			wantBody:     `data: {"htmlChunk":"\u003c!DOCTYPE html\u003e\u003chtml\u003e\u003cbody\u003eHi\u003c/body\u003e\u003c/html\u003e"}` + "\n\n",
			wantChunks:   1,
			wantEnded:    true,
			wantStrategy: extract.StrategyDocument,
		},
		{
			name:    "incremental content is forwarded raw",
			framing: stream.SSEDelta,
			events: []stream.Event{
				stream.Content("```"),
				stream.Content("Hi"),
				stream.End(stream.Stats{Done: true}),
			},
			wantBody:   "data: {\"htmlChunk\":\"```\"}\n\ndata: {\"htmlChunk\":\"Hi\"}\n\n",
			wantChunks: 2,
			wantEnded:  true,
		},
		{
			name:    "provider errors are relayed and the stream continues",
			framing: stream.SSEDelta,
			events: []stream.Event{
				stream.Content("a"),
				stream.ProviderError("error in openrouter stream chunk"),
				stream.Content("b"),
				stream.End(stream.Stats{}),
			},
			wantBody: "data: {\"htmlChunk\":\"a\"}\n\n" +
				"data: {\"error\":\"error in openrouter stream chunk\"}\n\n" +
				"data: {\"htmlChunk\":\"b\"}\n\n",
			wantChunks: 2,
			wantErrors: 1,
			wantEnded:  true,
		},
		{
			name:    "parse failure",
			framing: stream.JSONArray,
			events: []stream.Event{
				stream.ProviderError(stream.ParseFailureMessage),
				stream.End(stream.Stats{}),
			},
			wantBody:   "data: {\"error\":\"failed to parse full response\"}\n\n",
			wantErrors: 1,
			wantEnded:  true,
		},
		{
			name:    "events after end are not relayed",
			framing: stream.SSEDelta,
			events: []stream.Event{
				stream.End(stream.Stats{Done: true}),
				stream.Content("late"),
			},
			wantEnded: true,
		},
		{
			name:       "channel closed without end",
			framing:    stream.SSEDelta,
			events:     []stream.Event{stream.Content("partial")},
			wantBody:   "data: {\"htmlChunk\":\"partial\"}\n\n",
			wantChunks: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, w := openRecorder(t, context.Background())

			sum := Pump(context.Background(), s, feed(tt.events...), tt.framing)

			if got := w.Body.String(); got != tt.wantBody {
				t.Errorf("body = %q\nwant %q", got, tt.wantBody)
			}
			if sum.Chunks != tt.wantChunks {
				t.Errorf("Chunks = %d, want %d", sum.Chunks, tt.wantChunks)
			}
			if sum.Errors != tt.wantErrors {
				t.Errorf("Errors = %d, want %d", sum.Errors, tt.wantErrors)
			}
			if sum.Ended != tt.wantEnded {
				t.Errorf("Ended = %v, want %v", sum.Ended, tt.wantEnded)
			}
			if sum.Strategy != tt.wantStrategy {
				t.Errorf("Strategy = %q, want %q", sum.Strategy, tt.wantStrategy)
			}
			if sum.Disconnected {
				t.Error("unexpected disconnect")
			}
			if s.Ended() {
				t.Error("Pump must not end the session")
			}
		})
	}
}

func TestPump_SummaryCounters(t *testing.T) {
	s, _ := openRecorder(t, context.Background())

	sum := Pump(context.Background(), s, feed(
		stream.ProviderError("first"),
		stream.ProviderError("second"),
		stream.Content("<p>"),
		stream.End(stream.Stats{Bytes: 42, Records: 3, Skipped: 1, Done: true}),
	), stream.SSEDelta)

	if sum.FirstError != "first" {
		t.Errorf("FirstError = %q", sum.FirstError)
	}
	if sum.Bytes != 3 {
		t.Errorf("Bytes = %d, want 3", sum.Bytes)
	}
	if sum.FirstChunkAt.IsZero() {
		t.Error("FirstChunkAt not set")
	}
	if sum.Stream.Skipped != 1 || !sum.Stream.Done {
		t.Errorf("Stream = %+v", sum.Stream)
	}
}

func TestPump_ClientDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, w := openRecorder(t, ctx)

	events := make(chan stream.Event)
	done := make(chan Summary)
	go func() {
		done <- Pump(ctx, s, events, stream.SSEDelta)
	}()

	events <- stream.Content("first")
	cancel()
	sum := <-done

	if !sum.Disconnected {
		t.Error("expected Disconnected")
	}
	if !s.Closed() {
		t.Error("session should be closed")
	}
	if err := s.End(); err == nil {
		t.Error("End() after disconnect should fail")
	}
	if strings.Contains(w.Body.String(), "EOS") {
		t.Error("EOS written after disconnect")
	}
}

func TestPump_WriteFailure(t *testing.T) {
	w := &brokenWriter{}
	s, err := Open(context.Background(), w)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	sum := Pump(context.Background(), s, feed(
		stream.Content("a"),
		stream.Content("b"),
		stream.End(stream.Stats{}),
	), stream.SSEDelta)

	if !sum.Disconnected {
		t.Error("expected Disconnected after write failure")
	}
	if sum.Chunks != 0 {
		t.Errorf("Chunks = %d, want 0", sum.Chunks)
	}
	if w.writes != 1 {
		t.Errorf("writes = %d, want 1", w.writes)
	}
}
