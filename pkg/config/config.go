package config

import "time"

// Config is the root configuration structure for ZeroCoder.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts and CORS.
	Server ServerConfig `yaml:"server"`

	// Engines contains per-engine upstream settings.
	Engines EnginesConfig `yaml:"engines"`

	// Upstream contains the shared HTTP transport settings used for all
	// engine calls.
	Upstream UpstreamConfig `yaml:"upstream"`

	// RateLimit contains per-client rate limiting for the generation endpoint.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Prompts contains the prompt template override settings.
	Prompts PromptsConfig `yaml:"prompts"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Audit contains the generation audit trail configuration.
	Audit AuditConfig `yaml:"audit"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "0.0.0.0:3000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds the whole response. Generation streams can run for
	// minutes, so zero (no limit) is the default; the upstream stream timeout
	// bounds a generation instead.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight
	// generations during graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// TrustProxy makes client IP detection honor X-Forwarded-For.
	TrustProxy bool `yaml:"trust_proxy"`

	// StaticDir, when set, is served at / (the browser client).
	StaticDir string `yaml:"static_dir"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	// Enabled controls whether CORS headers are added to responses.
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists allowed origins. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists allowed HTTP methods.
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists allowed request headers.
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders lists response headers visible to the browser.
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache duration in seconds.
	MaxAge int `yaml:"max_age"`

	// AllowCredentials allows cookies and authorization headers.
	AllowCredentials bool `yaml:"allow_credentials"`
}

// EnginesConfig contains settings for each generation engine.
type EnginesConfig struct {
	// Default is the engine used when a request names none.
	// Default: "gemini"
	Default string `yaml:"default"`

	Gemini     EngineConfig `yaml:"gemini"`
	LMStudio   EngineConfig `yaml:"lmstudio"`
	OpenRouter EngineConfig `yaml:"openrouter"`
}

// EngineConfig contains the upstream settings for one engine.
type EngineConfig struct {
	// BaseURL is the API base (gemini) or full chat completions URL.
	BaseURL string `yaml:"base_url"`

	// APIKey is a server-side credential used when the request has none.
	APIKey string `yaml:"api_key"`

	// Model is the model used when the request names none.
	Model string `yaml:"model"`

	// Referer is sent as HTTP-Referer when the client sent none (openrouter).
	Referer string `yaml:"referer"`

	// Title is sent as X-Title (openrouter).
	Title string `yaml:"title"`
}

// UpstreamConfig contains the HTTP transport settings for engine calls.
type UpstreamConfig struct {
	// StreamTimeout bounds a whole upstream call including the streamed body.
	// Default: 5m
	StreamTimeout time.Duration `yaml:"stream_timeout"`

	// ResponseHeaderTimeout bounds the wait for upstream response headers.
	// Default: 60s
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout"`

	// MaxRetries is the number of retries for transport errors and 5xx
	// responses. Default: 0
	MaxRetries int `yaml:"max_retries"`

	// RetryBackoff is the base delay between retries.
	// Default: 1s
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// MaxIdleConns is the connection pool size.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the per-host connection pool size.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout closes pooled connections idle for longer.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// RateLimitConfig contains per-client-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled turns rate limiting on.
	Enabled bool `yaml:"enabled"`

	// RequestsPerMinute is the sustained rate per client.
	// Default: 30
	RequestsPerMinute float64 `yaml:"requests_per_minute"`

	// Burst is the number of requests allowed at once.
	// Default: 5
	Burst int `yaml:"burst"`

	// IdleTTL evicts limiters for clients idle for longer.
	// Default: 10m
	IdleTTL time.Duration `yaml:"idle_ttl"`
}

// PromptsConfig contains prompt template override settings.
type PromptsConfig struct {
	// File is an optional YAML file overriding the built-in templates.
	File string `yaml:"file"`

	// Watch reloads File when it changes.
	Watch bool `yaml:"watch"`

	// DebounceInterval coalesces bursts of file events.
	// Default: 200ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line in records.
	AddSource bool `yaml:"add_source"`

	// Redact masks API keys and bearer tokens in log output.
	// Default: true
	Redact bool `yaml:"redact"`

	// RedactPatterns adds custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern is a custom log redaction rule.
type RedactPattern struct {
	// Name identifies the pattern.
	Name string `yaml:"name"`

	// Pattern is a regular expression.
	Pattern string `yaml:"pattern"`

	// Replacement is the replacement text (may reference groups).
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled exposes metrics.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path metrics are served on.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "zerocoder"
	Namespace string `yaml:"namespace"`

	// DurationBuckets overrides the histogram buckets for generation duration.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled turns on span export.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure"`

	// ServiceName is reported as service.name.
	// Default: "zerocoder"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of traces sampled, 0.0 to 1.0.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`
}

// AuditConfig contains the generation audit trail configuration.
type AuditConfig struct {
	// Enabled turns on recording.
	Enabled bool `yaml:"enabled"`

	// Backend is "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Memory contains in-memory backend configuration.
	Memory MemoryConfig `yaml:"memory"`

	// Recorder contains async recorder configuration.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains the pruning policy.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the database file.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// Driver selects the database/sql driver: "sqlite3" (cgo,
	// mattn/go-sqlite3) or "sqlite" (pure Go, modernc.org/sqlite).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// MemoryConfig contains in-memory backend configuration.
type MemoryConfig struct {
	// MaxRecords caps the number of records kept; oldest are evicted.
	// Default: 10000
	MaxRecords int `yaml:"max_records"`
}

// RecorderConfig contains async recorder configuration.
type RecorderConfig struct {
	// AsyncBuffer is the number of records queued before drops.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds a single storage write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains the pruning policy.
type RetentionConfig struct {
	// Days is how long records are kept. Zero keeps them forever.
	// Default: 30
	Days int `yaml:"days"`

	// PruneSchedule is a cron expression.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}
