// Package main provides the entrypoint for the Routecast API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/api"
	"github.com/routecast/routecast/internal/api/middleware"
	"github.com/routecast/routecast/internal/database"
	"github.com/routecast/routecast/internal/events"
	"github.com/routecast/routecast/internal/provider/resilience"
	"github.com/routecast/routecast/internal/simulation"
	"github.com/routecast/routecast/internal/telemetry"
	"github.com/routecast/routecast/internal/weather/openmeteo"
	"github.com/routecast/routecast/internal/weather/yahoo"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "routecast-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Routecast API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize weather provider clients with circuit breakers
	registry := resilience.NewRegistry()

	yahooHTTP := resilience.NewClient(resilience.DefaultClientConfig(yahoo.ProviderName))
	registry.Register(yahoo.ProviderName, yahooHTTP)

	yahooAppID := os.Getenv("YAHOO_APP_ID")
	if yahooAppID == "" {
		log.Warn().Msg("YAHOO_APP_ID not set - precipitation lookups will fail")
	}

	precipProvider := yahoo.NewClient(yahoo.ClientConfig{
		AppID:      yahooAppID,
		HTTPClient: yahooHTTP,
		Logger:     log,
	})

	openMeteoCfg := resilience.DefaultClientConfig(openmeteo.ProviderName)
	openMeteoCfg.MaxRetries = 2
	openMeteoCfg.FixedInterval = time.Second
	openMeteoHTTP := resilience.NewClient(openMeteoCfg)
	registry.Register(openmeteo.ProviderName, openMeteoHTTP)

	conditionProvider := openmeteo.NewClient(openmeteo.ClientConfig{
		HTTPClient: openMeteoHTTP,
		Logger:     log,
	})
	log.Info().Msg("weather providers initialized")

	// Initialize simulation service
	simulationService := simulation.NewService(simulation.ServiceConfig{
		Precipitation: precipProvider,
		Conditions:    conditionProvider,
		Logger:        log,
	})

	// Initialize event repository and service
	eventRepo := events.NewPostgresRepository(pool)
	eventService := events.NewService(events.ServiceConfig{
		Repository: eventRepo,
		Logger:     log,
	})
	log.Info().Msg("event service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:           Version,
		BuildTime:         BuildTime,
		Logger:            log,
		ServiceName:       serviceName,
		Metrics:           metrics,
		SimulationService: simulationService,
		EventService:      eventService,
		Pool:              pool,
		Providers:         registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
