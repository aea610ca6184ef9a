package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/biswatma/zerocoder/pkg/proxy/types"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// It sets the appropriate content-type header and handles marshaling errors.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteErrorResponse writes {"error": message} with the given status.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSONResponse(w, statusCode, &types.ErrorResponse{Error: message})
}

// WriteSSEMessage writes v as a single Server-Sent Events record and flushes
// it. Each record is formatted as:
//
//	data: {"htmlChunk":"..."}
//
// followed by a blank line. Flush failures are returned so that callers can
// detect a disconnected client.
func WriteSSEMessage(w http.ResponseWriter, v interface{}) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal SSE message: %w", err)
	}

	n, err := fmt.Fprintf(w, "data: %s\n\n", data)
	if err != nil {
		return n, fmt.Errorf("failed to write SSE message: %w", err)
	}

	if err := http.NewResponseController(w).Flush(); err != nil {
		return n, fmt.Errorf("failed to flush SSE message: %w", err)
	}

	return n, nil
}

// SetSSEHeaders sets the appropriate headers for Server-Sent Events streaming.
func SetSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Disable response buffering in nginx-style reverse proxies.
	w.Header().Set("X-Accel-Buffering", "no")
}
