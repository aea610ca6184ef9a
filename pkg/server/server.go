package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/biswatma/zerocoder/pkg/config"
	"github.com/biswatma/zerocoder/pkg/prompts"
	"github.com/biswatma/zerocoder/pkg/proxy/handlers"
	"github.com/biswatma/zerocoder/pkg/proxy/middleware"
	"github.com/biswatma/zerocoder/pkg/telemetry/health"
	"github.com/biswatma/zerocoder/pkg/telemetry/tracing"
)

// GeneratePath is the route of the generation endpoint.
const GeneratePath = "/api/generate"

// Server is the HTTP front of the proxy together with its background
// workers.
type Server struct {
	config     *config.Config
	components *Components
	version    health.VersionInfo

	mu         sync.RWMutex
	httpServer *http.Server
	addr       net.Addr
	isRunning  bool
}

// New creates a server. Components must carry at least a registry and a
// client.
func New(cfg *config.Config, components *Components, version health.VersionInfo) *Server {
	return &Server{
		config:     cfg,
		components: components,
		version:    version,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, waiting up to the configured shutdown timeout for in-flight
// generations. The prompt watcher and the retention scheduler run alongside
// the listener and stop with it.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		ln.Close()
		return fmt.Errorf("server is already running")
	}
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}
	s.addr = ln.Addr()
	s.isRunning = true
	srv := s.httpServer
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting HTTP server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), s.config.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			// Streams still open past the deadline are cut off.
			srv.Close()
			return fmt.Errorf("server shutdown error: %w", err)
		}
		slog.Info("HTTP server stopped")
		return nil
	})

	if store := s.components.Prompts; store != nil && s.config.Prompts.Watch && store.Path() != "" {
		watcher := prompts.NewWatcher(store, s.config.Prompts.DebounceInterval, slog.Default())
		g.Go(func() error {
			if err := watcher.Watch(gctx); err != nil {
				return fmt.Errorf("prompt watcher: %w", err)
			}
			return nil
		})
	}

	if sched := s.components.Retention; sched != nil {
		g.Go(func() error {
			if err := sched.Run(gctx); err != nil {
				return fmt.Errorf("retention scheduler: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Addr returns the address the server is listening on, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	c := s.components

	generate := handlers.NewGenerateHandler(c.Registry, c.Client)
	generate.Metrics = c.Metrics
	generate.Tracer = c.Tracer
	generate.Audit = c.Recorder

	var gh http.Handler = generate
	if s.config.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(s.config.RateLimit, s.config.Server.TrustProxy)
		gh = limiter.Middleware(gh)
	}
	mux.Handle("GET "+GeneratePath, gh)
	mux.Handle("POST "+GeneratePath, gh)

	health.Register(mux, s.healthChecker(), s.version)

	if c.Metrics != nil && s.config.Telemetry.Metrics.Path != "" {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, c.Metrics.Handler())
	}

	if dir := s.config.Server.StaticDir; dir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(dir)))
	}

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware,
		middleware.RequestIDMiddleware,
		tracing.HTTPMiddleware,
		middleware.LoggingMiddleware(s.config.Server.TrustProxy),
		middleware.CORSMiddleware(&s.config.Server.CORS),
	)
}

func (s *Server) healthChecker() *health.Checker {
	checker := health.New(health.DefaultCheckTimeout)
	c := s.components

	checker.RegisterCheck("engines", func(ctx context.Context) error {
		if c.Registry == nil || len(c.Registry.Engines()) == 0 {
			return errors.New("no engines registered")
		}
		if _, err := c.Registry.Get(""); err != nil {
			return fmt.Errorf("default engine: %w", err)
		}
		return nil
	})

	if c.Prompts != nil {
		checker.RegisterCheck("prompts", func(ctx context.Context) error {
			return c.Prompts.Current().Validate()
		})
	}

	if c.AuditStorage != nil {
		checker.RegisterCheck("audit", func(ctx context.Context) error {
			return c.AuditStorage.Ping(ctx)
		})
	}

	return checker
}
