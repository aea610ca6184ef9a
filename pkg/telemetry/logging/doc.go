// Package logging configures the process-wide structured logger.
//
// Loggers are plain *slog.Logger values. The handler chain built by New adds
// request-scoped fields stored in the context (request ID, engine) to every
// record logged with a *Context method, and, when redaction is enabled,
// masks credentials before records reach the output:
//
//   - Gemini keys: AIzaSy... → AIza***
//   - OpenRouter and OpenAI-style keys: sk-or-v1-... → sk-***
//   - Bearer tokens: Bearer abc → Bearer ***
//   - Query parameters: ?key=abc → ?key=***
//
// Attributes whose key names a secret (api_key, authorization, token, ...) are
// masked regardless of their value.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json", Redact: true})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "generation started", "engine", "gemini")
package logging
