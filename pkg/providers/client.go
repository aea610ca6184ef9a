package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 * 1024

// Client sends upstream requests over a pooled HTTP transport.
//
// The client has no overall timeout: streaming bodies may legitimately take
// minutes. Use StreamContext to bound a whole call.
type Client struct {
	config ClientConfig
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a client with connection pooling.
func NewClient(config ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		ForceAttemptHTTP2:     true,
	}

	return &Client{
		config: config,
		client: &http.Client{Transport: transport},
		logger: logger,
	}
}

// NewClientWithHTTPClient wraps an existing http.Client. It is mainly useful
// in tests.
func NewClientWithHTTPClient(config ClientConfig, hc *http.Client, logger *slog.Logger) *Client {
	c := NewClient(config, logger)
	c.client = hc
	return c
}

// StreamContext derives the context for one upstream call, applying the
// configured stream timeout.
func (c *Client) StreamContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.config.StreamTimeout > 0 {
		return context.WithTimeout(parent, c.config.StreamTimeout)
	}
	return context.WithCancel(parent)
}

// Do performs req and returns the response once a 2xx status is received.
// The caller owns the response body.
//
// Transport failures and 5xx responses are retried up to MaxRetries times.
// Nothing is retried once a response body has been handed out, and a
// cancelled context is returned as ctx.Err() without retrying.
func (c *Client) Do(ctx context.Context, engine Engine, req *UpstreamRequest) (*http.Response, error) {
	provider := string(engine)
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			c.logger.DebugContext(ctx, "retrying upstream request",
				"provider", provider,
				"attempt", attempt,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff,
			)

			select {
			case <-ctx.Done():
				return nil, c.ContextError(ctx, engine)
			case <-time.After(backoff):
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for key, value := range req.Headers {
			httpReq.Header.Set(key, value)
		}
		if httpReq.Header.Get("Content-Type") == "" {
			httpReq.Header.Set("Content-Type", "application/json")
		}

		c.logger.DebugContext(ctx, "sending request to provider",
			"provider", provider,
			"method", method,
			"model", req.Model,
		)

		resp, err := c.client.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, c.ContextError(ctx, engine)
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				lastErr = &TimeoutError{Provider: provider, Timeout: c.config.ResponseHeaderTimeout}
			} else {
				lastErr = &ProviderError{Provider: provider, Message: err.Error(), Cause: err}
			}

			c.logger.WarnContext(ctx, "upstream request failed",
				"provider", provider,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		message := ExtractErrorMessage(errorBody, resp.StatusCode)

		c.logger.WarnContext(ctx, "upstream returned error status",
			"provider", provider,
			"status", resp.StatusCode,
			"attempt", attempt+1,
			"message", message,
		)

		switch {
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			return nil, &AuthError{Provider: provider, StatusCode: resp.StatusCode, Message: message}

		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, &RateLimitError{
				Provider:   provider,
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
				Message:    message,
			}

		case resp.StatusCode < 500:
			return nil, &ProviderError{Provider: provider, StatusCode: resp.StatusCode, Message: message}

		default:
			lastErr = &ProviderError{Provider: provider, StatusCode: resp.StatusCode, Message: message}
		}
	}

	return nil, lastErr
}

// Close releases idle connections.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

func (c *Client) backoff(attempt int) time.Duration {
	base := c.config.RetryBackoff
	if base <= 0 {
		base = time.Second
	}
	return base << (attempt - 1)
}

// ContextError maps a finished context to the error reported for engine:
// deadlines become TimeoutError, cancellation stays as is.
func (c *Client) ContextError(ctx context.Context, engine Engine) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Provider: string(engine), Timeout: c.config.StreamTimeout}
	}
	return ctx.Err()
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
