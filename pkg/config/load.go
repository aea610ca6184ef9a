package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "ZEROCODER_"

// LoadConfig loads configuration from a YAML file at path. An empty path
// yields the defaults. The result is validated but not subject to
// environment overrides; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention ZEROCODER_SECTION_FIELD (e.g. ZEROCODER_SERVER_LISTEN_ADDRESS)
// and always take precedence over the file.
//
// The loading sequence is:
// 1. Load YAML from file (optional)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored. With no arguments ".env" is loaded.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func envString(name string, dst *string) {
	if val := os.Getenv(name); val != "" {
		*dst = val
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func envInt(name string, dst *int) {
	if val := os.Getenv(name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envFloat(name string, dst *float64) {
	if val := os.Getenv(name); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// applyEnvOverrides applies environment variable overrides to cfg.
// Unparseable values are ignored.
func applyEnvOverrides(cfg *Config) {
	p := EnvPrefix

	// Server overrides
	envString(p+"SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration(p+"SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration(p+"SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration(p+"SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	envDuration(p+"SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	envInt(p+"SERVER_MAX_HEADER_BYTES", &cfg.Server.MaxHeaderBytes)
	envBool(p+"SERVER_TRUST_PROXY", &cfg.Server.TrustProxy)
	envString(p+"SERVER_STATIC_DIR", &cfg.Server.StaticDir)

	// PORT is honored for platforms that assign the port.
	if port := os.Getenv("PORT"); port != "" && os.Getenv(p+"SERVER_LISTEN_ADDRESS") == "" {
		if _, err := strconv.Atoi(port); err == nil {
			cfg.Server.ListenAddress = "0.0.0.0:" + port
		}
	}

	// Engine overrides
	envString(p+"ENGINES_DEFAULT", &cfg.Engines.Default)
	applyEngineEnvOverrides(&cfg.Engines.Gemini, "GEMINI")
	applyEngineEnvOverrides(&cfg.Engines.LMStudio, "LMSTUDIO")
	applyEngineEnvOverrides(&cfg.Engines.OpenRouter, "OPENROUTER")

	// Upstream overrides
	envDuration(p+"UPSTREAM_STREAM_TIMEOUT", &cfg.Upstream.StreamTimeout)
	envDuration(p+"UPSTREAM_RESPONSE_HEADER_TIMEOUT", &cfg.Upstream.ResponseHeaderTimeout)
	envInt(p+"UPSTREAM_MAX_RETRIES", &cfg.Upstream.MaxRetries)
	envDuration(p+"UPSTREAM_RETRY_BACKOFF", &cfg.Upstream.RetryBackoff)

	// Rate limit overrides
	envBool(p+"RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	envFloat(p+"RATE_LIMIT_REQUESTS_PER_MINUTE", &cfg.RateLimit.RequestsPerMinute)
	envInt(p+"RATE_LIMIT_BURST", &cfg.RateLimit.Burst)

	// Prompt overrides
	envString(p+"PROMPTS_FILE", &cfg.Prompts.File)
	envBool(p+"PROMPTS_WATCH", &cfg.Prompts.Watch)

	// Telemetry overrides
	envString(p+"LOG_LEVEL", &cfg.Telemetry.Logging.Level)
	envString(p+"TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString(p+"TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool(p+"TELEMETRY_LOGGING_REDACT", &cfg.Telemetry.Logging.Redact)
	envBool(p+"TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString(p+"TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool(p+"TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString(p+"TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envBool(p+"TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	envFloat(p+"TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)

	// Audit overrides
	envBool(p+"AUDIT_ENABLED", &cfg.Audit.Enabled)
	envString(p+"AUDIT_BACKEND", &cfg.Audit.Backend)
	envString(p+"AUDIT_SQLITE_PATH", &cfg.Audit.SQLite.Path)
	envString(p+"AUDIT_SQLITE_DRIVER", &cfg.Audit.SQLite.Driver)
	envInt(p+"AUDIT_RETENTION_DAYS", &cfg.Audit.Retention.Days)
	envString(p+"AUDIT_RETENTION_PRUNE_SCHEDULE", &cfg.Audit.Retention.PruneSchedule)
}

// applyEngineEnvOverrides applies ZEROCODER_ENGINES_<NAME>_<FIELD> overrides.
// The unprefixed GEMINI_API_KEY, LMSTUDIO_URL and LMSTUDIO_MODEL variables
// are honored as well, with the prefixed forms taking precedence.
func applyEngineEnvOverrides(engine *EngineConfig, name string) {
	switch name {
	case "GEMINI":
		envString("GEMINI_API_KEY", &engine.APIKey)
	case "LMSTUDIO":
		envString("LMSTUDIO_URL", &engine.BaseURL)
		envString("LMSTUDIO_MODEL", &engine.Model)
	case "OPENROUTER":
		envString("OPENROUTER_API_KEY", &engine.APIKey)
	}

	prefix := EnvPrefix + "ENGINES_" + name + "_"
	envString(prefix+"BASE_URL", &engine.BaseURL)
	envString(prefix+"API_KEY", &engine.APIKey)
	envString(prefix+"MODEL", &engine.Model)
	envString(prefix+"REFERER", &engine.Referer)
	envString(prefix+"TITLE", &engine.Title)
}
