package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/biswatma/zerocoder/pkg/proxy"
	"github.com/biswatma/zerocoder/pkg/proxy/types"
)

// RecoveryMiddleware turns a handler panic into a 500 {"error"} response
// and logs the stack. A panic after a stream has started cannot change the
// status, so only the log line is produced in that case.
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newResponseWriter(w)
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				if rw.written {
					return
				}
				_ = proxy.WriteErrorResponse(rw, http.StatusInternalServerError, types.MessageInternalError)
			}
		}()

		next.ServeHTTP(rw, r)
	})
}
