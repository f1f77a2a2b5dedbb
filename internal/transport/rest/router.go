package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lexigraph/engine/internal/config"
	"github.com/lexigraph/engine/internal/transport/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Sessions  *SessionHandler
	Health    *HealthHandler
	Validator middleware.TokenValidator
	Limiter   *middleware.RateLimiter
	Logger    *slog.Logger
	CORS      config.CORSConfig
	RateLimit int
}

// NewRouter assembles the HTTP routing table. Health probes are open; the
// v1 API requires a learner bearer token.
func NewRouter(d RouterDeps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/live", d.Health.Live).Methods(http.MethodGet)
	r.HandleFunc("/ready", d.Health.Ready).Methods(http.MethodGet)
	r.HandleFunc("/health", d.Health.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/v1").Subrouter()
	api.Use(mux.MiddlewareFunc(middleware.Auth(d.Validator)))
	api.HandleFunc("/sessions", d.Sessions.Start).Methods(http.MethodPost)
	api.HandleFunc("/attempts", d.Sessions.Submit).Methods(http.MethodPost)

	outer := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.CORS(d.CORS),
		d.Limiter.Limit(d.RateLimit),
	)
	return outer(r)
}
