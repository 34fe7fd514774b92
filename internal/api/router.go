// Package api provides the HTTP API for Routecast.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/api/handler"
	"github.com/routecast/routecast/internal/api/middleware"
	"github.com/routecast/routecast/internal/events"
	"github.com/routecast/routecast/internal/provider/resilience"
	"github.com/routecast/routecast/internal/simulation"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version           string
	BuildTime         string
	Logger            zerolog.Logger
	ServiceName       string
	Metrics           *middleware.Metrics
	SimulationService *simulation.Service
	EventService      *events.Service
	Pool              *pgxpool.Pool
	Providers         *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "routecast-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequireJSON)
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Pool, cfg.Providers)
	simulationHandler := handler.NewSimulationHandler(cfg.SimulationService, cfg.EventService, cfg.Logger)
	eventsHandler := handler.NewEventsHandler(cfg.EventService, cfg.Logger)

	simulationRateLimit := middleware.RateLimitByIP(middleware.SimulationRateLimit) // 30 req/min
	ingestRateLimit := middleware.RateLimitByIP(middleware.IngestRateLimit)         // 100 req/min

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Simulations fan out to external providers - strict rate limiting
		r.With(simulationRateLimit).Post("/simulations", simulationHandler.CreateSimulation)

		// Telemetry ingest
		r.Route("/events", func(r chi.Router) {
			r.Use(ingestRateLimit)
			r.Post("/braking", eventsHandler.CreateBrakingEvent)
		})
	})

	return r
}
