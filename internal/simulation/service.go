package simulation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/journey"
	"github.com/routecast/routecast/internal/weather"
)

// DefaultSpeedKMH is the assumed average travel speed when the caller gives
// none and the route carries no timing of its own.
const DefaultSpeedKMH = 40.0

// ServiceConfig holds configuration for the simulation service.
type ServiceConfig struct {
	// Precipitation is the coarse, batch-capable provider (required).
	Precipitation weather.PrecipProvider

	// Conditions is the detailed, per-point provider (required).
	Conditions weather.ConditionProvider

	// Sampler resamples the route; nil uses default bounds.
	Sampler *journey.Sampler

	// DefaultSpeedKMH replaces a non-positive caller speed. Default: 40.
	DefaultSpeedKMH float64

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service produces annotated weather reports for travel routes.
type Service struct {
	precipitation weather.PrecipProvider
	conditions    weather.ConditionProvider
	sampler       *journey.Sampler
	defaultSpeed  float64
	logger        zerolog.Logger
}

// NewService creates a simulation service, filling zero config fields with
// defaults.
func NewService(cfg ServiceConfig) *Service {
	sampler := cfg.Sampler
	if sampler == nil {
		sampler = journey.NewSampler(journey.DefaultSamplerConfig())
	}

	defaultSpeed := cfg.DefaultSpeedKMH
	if defaultSpeed <= 0 {
		defaultSpeed = DefaultSpeedKMH
	}

	return &Service{
		precipitation: cfg.Precipitation,
		conditions:    cfg.Conditions,
		sampler:       sampler,
		defaultSpeed:  defaultSpeed,
		logger:        cfg.Logger,
	}
}

// Simulate reports the weather along a route travelled at a constant average
// speed starting at the given time. A non-positive speed falls back to the
// configured default. An empty route yields nil; provider failures degrade
// individual points instead of failing the report.
func (s *Service) Simulate(ctx context.Context, points []journey.RoutePoint, avgSpeedKMH float64, start time.Time) []AnnotatedSamplePoint {
	if len(points) == 0 {
		s.logger.Error().Msg("simulation requested for empty route")
		return nil
	}

	if avgSpeedKMH <= 0 {
		avgSpeedKMH = s.defaultSpeed
	}

	return s.run(ctx, journey.Project(points, avgSpeedKMH, start))
}

// SimulateTimed reports the weather along a route whose vertices carry their
// own elapsed travel times.
func (s *Service) SimulateTimed(ctx context.Context, points []journey.TimedRoutePoint, start time.Time) []AnnotatedSamplePoint {
	if len(points) == 0 {
		s.logger.Error().Msg("simulation requested for empty route")
		return nil
	}

	return s.run(ctx, journey.ProjectTimed(points, start))
}

func (s *Service) run(ctx context.Context, projected []journey.ProjectedPoint) []AnnotatedSamplePoint {
	samples := s.sampler.Sample(projected, 0)

	precip := s.precipitation.GetPrecipitation(ctx, samples)

	annotated := make([]AnnotatedSamplePoint, 0, len(samples))
	for i, sample := range samples {
		detail, err := s.conditions.GetConditions(ctx, sample)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("provider", s.conditions.Name()).
				Float64("lat", sample.Lat).
				Float64("lon", sample.Lon).
				Time("timestamp", sample.Timestamp).
				Msg("detailed conditions unavailable for sample point")
			detail = nil
		}

		annotated = append(annotated, AnnotatedSamplePoint{
			SamplePoint: sample,
			Weather:     Reconcile(precip[i], detail),
		})
	}

	s.logger.Debug().
		Int("route_points", len(projected)).
		Int("sample_points", len(samples)).
		Msg("simulation complete")

	return annotated
}
