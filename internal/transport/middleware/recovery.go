package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/lexigraph/engine/pkg/ctxutil"
)

// Recovery converts handler panics into 500 responses with the same JSON
// error shape the handlers emit, logging the panic value and stack.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					attrs := []any{
						slog.Any("panic", v),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					}
					if requestID := ctxutil.RequestIDFromCtx(r.Context()); requestID != "" {
						attrs = append(attrs, slog.String("request_id", requestID))
					}
					logger.ErrorContext(r.Context(), "panic recovered", attrs...)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":"internal server error"}`)) //nolint:errcheck
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
