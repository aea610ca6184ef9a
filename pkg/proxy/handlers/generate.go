package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/biswatma/zerocoder/pkg/audit"
	"github.com/biswatma/zerocoder/pkg/audit/recorder"
	"github.com/biswatma/zerocoder/pkg/providers"
	"github.com/biswatma/zerocoder/pkg/proxy"
	"github.com/biswatma/zerocoder/pkg/relay"
	"github.com/biswatma/zerocoder/pkg/stream"
	"github.com/biswatma/zerocoder/pkg/telemetry/logging"
	"github.com/biswatma/zerocoder/pkg/telemetry/metrics"
	"github.com/biswatma/zerocoder/pkg/telemetry/tracing"
	"go.opentelemetry.io/otel/trace"
)

// unknownEngineLabel replaces unrecognized engine names in metric labels.
const unknownEngineLabel = "unknown"

// GenerateHandler serves GET /api/generate.
//
// Each request makes exactly one upstream call and relays it over one SSE
// channel. Requests share nothing but the registry and the HTTP client.
type GenerateHandler struct {
	Registry *providers.Registry
	Client   *providers.Client

	// Optional collaborators. Nil values disable the concern.
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Audit   *recorder.Recorder
}

// NewGenerateHandler creates a handler for the engines in registry.
func NewGenerateHandler(registry *providers.Registry, client *providers.Client) *GenerateHandler {
	return &GenerateHandler{Registry: registry, Client: client}
}

// outcome collects what happened to one request for metrics, tracing and
// the audit trail.
type outcome struct {
	engine    providers.Engine
	model     string
	status    string
	errorType string
	errorMsg  string
	summary   relay.Summary
}

// ServeHTTP implements http.Handler.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	started := time.Now()

	req, err := proxy.ParseGenerationRequest(w, r)
	if err != nil {
		h.reject(ctx, w, h.Registry.Default(), nil, err, started)
		return
	}

	adapter, err := h.Registry.Get(req.Engine)
	if err != nil {
		h.reject(ctx, w, req.Engine, req, err, started)
		return
	}
	engine := adapter.Engine()
	ctx = logging.WithEngine(ctx, string(engine))

	up, err := adapter.BuildRequest(req)
	if err != nil {
		h.reject(ctx, w, engine, req, err, started)
		return
	}

	ctx, span := h.Tracer.Start(ctx, "generate", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	tracing.SetGenerationAttributes(span, logging.GetRequestID(ctx), string(engine), up.Model, req.EditMode(), up.Framing.String())

	done := h.Metrics.StartGeneration(string(engine))

	slog.InfoContext(ctx, "processing generation request",
		"model", up.Model,
		"is_edit", req.EditMode(),
		"framing", up.Framing.String(),
		"prompt_length", len(req.Prompt),
	)

	out := h.stream(ctx, w, adapter, up)

	done(out.status)
	h.Metrics.RecordChunks(string(engine), out.summary.Chunks, out.summary.Bytes)
	if out.summary.Strategy != "" {
		h.Metrics.RecordExtraction(string(out.summary.Strategy))
	}
	if out.summary.Disconnected {
		h.Metrics.RecordClientDisconnect(string(engine))
	}

	tracing.SetResultAttributes(span, out.status, out.summary.Chunks, out.summary.Bytes,
		string(out.summary.Strategy), out.summary.Disconnected)
	if out.errorType != "" {
		tracing.SetErrorAttributes(span, errors.New(out.errorMsg), out.errorType)
	}

	h.record(ctx, req, out, started)

	level := slog.LevelInfo
	if out.status == audit.StatusError {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "generation finished",
		"status", out.status,
		"chunks", out.summary.Chunks,
		"bytes", out.summary.Bytes,
		"strategy", string(out.summary.Strategy),
		"upstream_records", out.summary.Stream.Records,
		"skipped_records", out.summary.Stream.Skipped,
		"disconnected", out.summary.Disconnected,
		"error", out.errorMsg,
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

// stream opens the client channel and relays one upstream call into it.
// Every path that leaves the client connected ends the session.
func (h *GenerateHandler) stream(ctx context.Context, w http.ResponseWriter, adapter providers.Adapter, up *providers.UpstreamRequest) outcome {
	engine := adapter.Engine()
	out := outcome{engine: engine, model: up.Model, status: audit.StatusSuccess}

	session, err := relay.Open(ctx, w)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open event stream", "error", err)
		out.status, out.errorType, out.errorMsg = audit.StatusError, proxy.ErrorTypeInternal, err.Error()
		return out
	}

	upCtx, cancel := h.Client.StreamContext(ctx)
	defer cancel()

	sent := time.Now()
	resp, err := h.send(upCtx, engine, up)
	if err != nil {
		if ctx.Err() != nil {
			out.status, out.summary.Disconnected = audit.StatusCancelled, true
			session.Close()
			return out
		}
		h.Metrics.RecordUpstreamError(string(engine), proxy.ErrorType(err))
		h.fail(session, &out, err)
		return out
	}
	defer resp.Body.Close()
	h.Metrics.RecordUpstreamLatency(string(engine), time.Since(sent))

	n := &stream.Normalizer{
		Provider: string(engine),
		Framing:  up.Framing,
		Decode:   adapter.DecodeFrame,
		Logger:   slog.Default().With("request_id", logging.GetRequestID(ctx)),
		OnSkip: func(*stream.FramingError) {
			h.Metrics.RecordFramingError(string(engine))
		},
	}
	out.summary = relay.Pump(ctx, session, n.Run(upCtx, resp.Body), up.Framing)
	if !out.summary.FirstChunkAt.IsZero() {
		h.Metrics.RecordFirstChunk(string(engine), out.summary.FirstChunkAt.Sub(sent))
	}

	switch {
	case out.summary.Disconnected || ctx.Err() != nil:
		// Cancelling upCtx on return aborts the upstream request.
		out.summary.Disconnected = true
		out.status = audit.StatusCancelled
		session.Close()
		return out

	case !out.summary.Ended:
		// The normalizer stops silently when upCtx ends; report why.
		err := h.Client.ContextError(upCtx, engine)
		if err == nil {
			err = &providers.ProviderError{Provider: string(engine), Message: "stream ended unexpectedly"}
		}
		h.Metrics.RecordUpstreamError(string(engine), proxy.ErrorType(err))
		h.fail(session, &out, err)
		return out

	case out.summary.Errors > 0:
		out.status, out.errorType, out.errorMsg = audit.StatusError, proxy.ErrorTypeProvider, out.summary.FirstError
		h.Metrics.RecordUpstreamError(string(engine), proxy.ErrorTypeProvider)

	case out.summary.Chunks == 0:
		msg := fmt.Sprintf("%s returned an empty response", engine)
		out.status, out.errorType, out.errorMsg = audit.StatusError, proxy.ErrorTypeProvider, msg
		_ = session.SendError(msg)
	}

	if err := session.End(); err != nil {
		slog.DebugContext(ctx, "failed to end event stream", "error", err)
	}
	return out
}

// send performs the upstream call inside its own span.
func (h *GenerateHandler) send(ctx context.Context, engine providers.Engine, up *providers.UpstreamRequest) (*http.Response, error) {
	ctx, span := h.Tracer.Start(ctx, "upstream.request", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	resp, err := h.Client.Do(ctx, engine, up)
	if err != nil {
		tracing.SetError(span, err)
		return nil, err
	}
	tracing.AddEvent(span, "response_headers")
	return resp, nil
}

// fail reports err on an open session and ends it.
func (h *GenerateHandler) fail(session *relay.Session, out *outcome, err error) {
	msg := proxy.ClientMessage(out.engine, err)
	out.status, out.errorType, out.errorMsg = audit.StatusError, proxy.ErrorType(err), msg
	out.summary.Errors++
	if out.summary.FirstError == "" {
		out.summary.FirstError = msg
	}
	_ = session.SendError(msg)
	_ = session.End()
}

// reject answers a request that failed validation. No stream is opened.
func (h *GenerateHandler) reject(ctx context.Context, w http.ResponseWriter, engine providers.Engine, req *providers.GenerationRequest, err error, started time.Time) {
	label := string(engine)
	var uerr *providers.UnknownEngineError
	if errors.As(err, &uerr) {
		label = unknownEngineLabel
	}

	msg := proxy.ClientMessage(engine, err)
	slog.WarnContext(ctx, "rejected generation request",
		"engine", label,
		"error_type", proxy.ErrorType(err),
		"error", msg,
	)
	h.Metrics.RecordRejected(label)

	h.record(ctx, req, outcome{
		engine:    providers.Engine(label),
		status:    audit.StatusInvalid,
		errorType: proxy.ErrorType(err),
		errorMsg:  msg,
	}, started)

	if werr := proxy.WriteErrorResponse(w, proxy.StatusCode(err), msg); werr != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", werr)
	}
}

// record hands the finished request to the audit trail.
func (h *GenerateHandler) record(ctx context.Context, req *providers.GenerationRequest, out outcome, started time.Time) {
	if h.Audit == nil {
		return
	}

	var prompt string
	var isEdit bool
	model := out.model
	if req != nil {
		prompt, isEdit = req.Prompt, req.EditMode()
		if model == "" {
			model = req.Model
		}
	}

	rec := audit.NewRecord(logging.GetRequestID(ctx), string(out.engine), model, isEdit, prompt, started)
	rec.Status = out.status
	rec.ErrorType = out.errorType
	rec.ErrorMessage = out.errorMsg
	rec.Chunks = out.summary.Chunks
	rec.ResponseBytes = out.summary.Bytes
	rec.ExtractionStrategy = string(out.summary.Strategy)
	rec.ClientDisconnected = out.summary.Disconnected
	rec.Duration = time.Since(started)

	if err := h.Audit.Record(context.WithoutCancel(ctx), rec); err != nil {
		slog.WarnContext(ctx, "failed to record generation", "error", err)
	}
}
