package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/biswatma/zerocoder/pkg/audit"
	"github.com/biswatma/zerocoder/pkg/audit/recorder"
	"github.com/biswatma/zerocoder/pkg/audit/retention"
	"github.com/biswatma/zerocoder/pkg/audit/storage"
	"github.com/biswatma/zerocoder/pkg/config"
	"github.com/biswatma/zerocoder/pkg/prompts"
	"github.com/biswatma/zerocoder/pkg/providers"
	"github.com/biswatma/zerocoder/pkg/providers/gemini"
	"github.com/biswatma/zerocoder/pkg/providers/lmstudio"
	"github.com/biswatma/zerocoder/pkg/providers/openrouter"
	"github.com/biswatma/zerocoder/pkg/telemetry/metrics"
	"github.com/biswatma/zerocoder/pkg/telemetry/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Components are the long-lived collaborators the server wires together.
// Optional fields may be nil.
type Components struct {
	Registry *providers.Registry
	Client   *providers.Client
	Prompts  *prompts.Store

	Metrics *metrics.Collector
	Tracer  *tracing.Tracer

	AuditStorage audit.Storage
	Recorder     *recorder.Recorder
	Retention    *retention.Scheduler
}

// Build creates all components described by cfg.
func Build(cfg *config.Config, version string) (*Components, error) {
	c := &Components{}

	store, err := prompts.NewStore(cfg.Prompts.File, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	c.Prompts = store

	registry, err := NewRegistry(&cfg.Engines, store)
	if err != nil {
		return nil, err
	}
	c.Registry = registry

	c.Client = providers.NewClient(providers.ClientConfig{
		StreamTimeout:         cfg.Upstream.StreamTimeout,
		ResponseHeaderTimeout: cfg.Upstream.ResponseHeaderTimeout,
		MaxRetries:            cfg.Upstream.MaxRetries,
		RetryBackoff:          cfg.Upstream.RetryBackoff,
		MaxIdleConns:          cfg.Upstream.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.Upstream.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.Upstream.IdleConnTimeout,
	}, slog.Default())

	if cfg.Telemetry.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		c.Metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, reg)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
	if err != nil {
		c.Close(context.Background())
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	c.Tracer = tracer

	if cfg.Audit.Enabled {
		st, err := storage.Open(cfg.Audit)
		if err != nil {
			c.Close(context.Background())
			return nil, fmt.Errorf("failed to open audit storage: %w", err)
		}
		c.AuditStorage = st
		c.Recorder = recorder.New(st, cfg.Audit.Recorder)

		if cfg.Audit.Retention.Days > 0 && cfg.Audit.Retention.PruneSchedule != "" {
			pruner := retention.NewPruner(st, cfg.Audit.Retention.Days)
			c.Retention = retention.NewScheduler(pruner, cfg.Audit.Retention.PruneSchedule)
		}
	}

	return c, nil
}

// NewRegistry creates adapters for every engine in cfg.
func NewRegistry(cfg *config.EnginesConfig, templates providers.TemplateSource) (*providers.Registry, error) {
	g, err := gemini.NewAdapter(providerConfig(providers.EngineGemini, cfg.Gemini), templates)
	if err != nil {
		return nil, err
	}
	l, err := lmstudio.NewAdapter(providerConfig(providers.EngineLMStudio, cfg.LMStudio), templates)
	if err != nil {
		return nil, err
	}
	o, err := openrouter.NewAdapter(providerConfig(providers.EngineOpenRouter, cfg.OpenRouter), templates)
	if err != nil {
		return nil, err
	}

	r := providers.NewRegistry(g, l, o)
	if cfg.Default != "" {
		r.SetDefault(providers.Engine(cfg.Default))
	}
	return r, nil
}

func providerConfig(engine providers.Engine, ec config.EngineConfig) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:    string(engine),
		BaseURL: ec.BaseURL,
		APIKey:  ec.APIKey,
		Model:   ec.Model,
		Referer: ec.Referer,
		Title:   ec.Title,
	}
}

// Close releases everything Build created. Pending audit records are
// flushed before the storage is closed.
func (c *Components) Close(ctx context.Context) error {
	var errs []error

	if c.Retention != nil {
		c.Retention.Stop()
	}
	if c.Recorder != nil {
		if err := c.Recorder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("audit recorder: %w", err))
		}
	}
	if c.AuditStorage != nil {
		if err := c.AuditStorage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("audit storage: %w", err))
		}
	}
	if c.Client != nil {
		c.Client.Close()
	}
	if err := c.Tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer: %w", err))
	}

	return errors.Join(errs...)
}
