package rest

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/bibbank/safepay/pkg/auth"
)

// RouterConfig assembles the HTTP surface.
type RouterConfig struct {
	Predictions *PredictionHandler
	Health      *HealthHandler
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	// Limiter throttles every route except probes and metrics when non-nil.
	Limiter *rate.Limiter
	// JWT protects the /v1 API when non-nil.
	JWT    *auth.JWTService
	Logger *slog.Logger
}

// NewRouter builds the service's http.Handler.
func NewRouter(cfg RouterConfig) http.Handler {
	api := http.NewServeMux()
	cfg.Predictions.RegisterRoutes(api)

	var apiHandler http.Handler = api
	if cfg.JWT != nil {
		apiHandler = auth.HTTPMiddleware(cfg.JWT, nil, auth.RoleAdmin, auth.RoleAnalyst, auth.RoleService)(apiHandler)
	}
	if cfg.Limiter != nil {
		apiHandler = RateLimitMiddleware(cfg.Limiter)(apiHandler)
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/", apiHandler)
	cfg.Health.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return Chain(mux, RecoveryMiddleware(cfg.Logger), LoggingMiddleware(cfg.Logger))
}
