package app

import (
	"log/slog"
	"time"

	"github.com/attaboy/shadowbook/internal/arbitrage"
	"github.com/attaboy/shadowbook/internal/guard"
	"github.com/attaboy/shadowbook/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool               *pgxpool.Pool
	Broker             Broker
	Scanner            *arbitrage.Scanner
	Metrics            *telemetry.Metrics
	Logger             *slog.Logger
	CORSAllowedOrigins string
}

// NewRouter assembles the chi.Router with every route and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	riskHandler := NewRiskHandler(deps.Broker, deps.Scanner, deps.Metrics, logger)

	r := chi.NewRouter()

	r.Use(Recovery(logger))
	r.Use(RequestID)
	r.Use(RequestLogger(logger))
	r.Use(CORSWithOrigins(deps.CORSAllowedOrigins))
	r.Use(JSONContentType)

	// Evaluate is the hot path a bettor-facing caller hits per ticket
	// submission; rate-limit it per client IP to bound engine load.
	evaluateLimiter := guard.NewRateLimiter(120, time.Minute)

	r.Get("/health", HealthHandler(deps.Pool))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/tickets", func(r chi.Router) {
		r.With(RateLimitMiddleware(evaluateLimiter, ClientIP)).Post("/evaluate", riskHandler.Evaluate)
		r.Post("/commit", riskHandler.Commit)
	})

	r.Get("/exposures", riskHandler.Exposures)
	r.Get("/orders", riskHandler.Orders)
	r.Get("/arbitrage", riskHandler.Arbitrage)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/wipe", riskHandler.Wipe)
	})

	return r
}
