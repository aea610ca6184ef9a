package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/biswatma/zerocoder/pkg/providers"
	"github.com/biswatma/zerocoder/pkg/proxy/types"
)

// Error type labels used in logs, metrics and audit records.
const (
	ErrorTypeValidation    = "validation"
	ErrorTypeUnknownEngine = "unknown_engine"
	ErrorTypeAuth          = "auth"
	ErrorTypeRateLimit     = "rate_limit"
	ErrorTypeUpstream      = "upstream_status"
	ErrorTypeProvider      = "provider_error"
	ErrorTypeTransport     = "transport"
	ErrorTypeTimeout       = "timeout"
	ErrorTypeCancelled     = "cancelled"
	ErrorTypeInternal      = "internal"
)

// StatusCode maps an error detected before streaming to an HTTP status.
func StatusCode(err error) int {
	var verr *providers.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	var uerr *providers.UnknownEngineError
	if errors.As(err, &uerr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ErrorType classifies err for metrics and audit records.
func ErrorType(err error) string {
	var (
		verr *providers.ValidationError
		uerr *providers.UnknownEngineError
		aerr *providers.AuthError
		rerr *providers.RateLimitError
		terr *providers.TimeoutError
		perr *providers.ProviderError
	)
	switch {
	case errors.As(err, &verr):
		return ErrorTypeValidation
	case errors.As(err, &uerr):
		return ErrorTypeUnknownEngine
	case errors.As(err, &aerr):
		return ErrorTypeAuth
	case errors.As(err, &rerr):
		return ErrorTypeRateLimit
	case errors.As(err, &terr):
		return ErrorTypeTimeout
	case errors.Is(err, context.Canceled):
		return ErrorTypeCancelled
	case errors.As(err, &perr):
		if perr.StatusCode > 0 {
			return ErrorTypeUpstream
		}
		return ErrorTypeTransport
	default:
		return ErrorTypeInternal
	}
}

// ClientMessage returns the text shown to the client for err. Upstream
// failures carry the provider's own error text.
func ClientMessage(engine providers.Engine, err error) string {
	var (
		verr *providers.ValidationError
		uerr *providers.UnknownEngineError
		aerr *providers.AuthError
		rerr *providers.RateLimitError
		terr *providers.TimeoutError
		perr *providers.ProviderError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &uerr):
		return types.MessageInvalidEngine
	case errors.As(err, &aerr):
		return fmt.Sprintf("%s API request failed with status %d: %s", engine, aerr.StatusCode, aerr.Message)
	case errors.As(err, &rerr):
		return fmt.Sprintf("%s API request failed with status %d: %s", engine, http.StatusTooManyRequests, rerr.Message)
	case errors.As(err, &terr):
		return fmt.Sprintf("%s API request timed out after %s", engine, terr.Timeout)
	case errors.As(err, &perr):
		if perr.StatusCode > 0 {
			return fmt.Sprintf("%s API request failed with status %d: %s", engine, perr.StatusCode, perr.Message)
		}
		return fmt.Sprintf("%s API request failed: %s", engine, perr.Message)
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	default:
		return types.MessageInternalError
	}
}
