package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/lexigraph/engine/pkg/ctxutil"
)

// RequestIDHeader carries the correlation id between client and server.
const RequestIDHeader = "X-Request-Id"

// RequestID propagates an X-Request-Id header through the context and the
// response, minting a fresh UUID when the client did not send one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx := ctxutil.WithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
