package events

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/geo"
)

// Default proximity query parameters.
const (
	// DefaultRadiusKM is how close to the route an accident cluster must be
	// to count as nearby.
	DefaultRadiusKM = 0.5

	// DefaultNearestLimit caps proximity query results.
	DefaultNearestLimit = 20
)

// ServiceConfig holds configuration for the event service.
type ServiceConfig struct {
	// Repository is the event store (required).
	Repository Repository

	// RadiusKM overrides the route proximity radius. Default: 0.5.
	RadiusKM float64

	// NearestLimit overrides the result cap. Default: 20.
	NearestLimit int

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service answers proximity queries against the event store and records new
// braking telemetry.
type Service struct {
	repo         Repository
	radiusKM     float64
	nearestLimit int
	logger       zerolog.Logger
}

// NewService creates an event service, filling zero config fields with
// defaults.
func NewService(cfg ServiceConfig) *Service {
	radius := cfg.RadiusKM
	if radius <= 0 {
		radius = DefaultRadiusKM
	}

	limit := cfg.NearestLimit
	if limit <= 0 {
		limit = DefaultNearestLimit
	}

	return &Service{
		repo:         cfg.Repository,
		radiusKM:     radius,
		nearestLimit: limit,
		logger:       cfg.Logger,
	}
}

// AccidentsNearRoute returns accident clusters within the radius of any route
// point, nearest first by distance to the closest route point. When nothing
// lies inside the radius, it falls back to the clusters nearest the route
// start so the report is never silently empty. An empty route yields nil.
func (s *Service) AccidentsNearRoute(ctx context.Context, route []geo.Point) ([]AccidentCluster, error) {
	if len(route) == 0 {
		return nil, nil
	}

	box := geo.RouteBoundingBox(route, s.radiusKM)
	candidates, err := s.repo.AccidentsInBox(ctx, box)
	if err != nil {
		return nil, err
	}

	var nearby []AccidentCluster
	for _, cluster := range candidates {
		if dist, ok := s.nearRoute(route, geo.Point{Lat: cluster.Lat, Lon: cluster.Lon}); ok {
			cluster.DistanceKM = dist
			nearby = append(nearby, cluster)
		}
	}

	if len(nearby) == 0 {
		s.logger.Debug().
			Float64("radius_km", s.radiusKM).
			Msg("no accident clusters near route, falling back to nearest")
		return s.repo.NearestAccidents(ctx, route[0], s.nearestLimit)
	}

	sortByDistance(nearby)
	if len(nearby) > s.nearestLimit {
		nearby = nearby[:s.nearestLimit]
	}
	return nearby, nil
}

// nearRoute returns the distance from the point to the closest route vertex
// and whether that distance is within the radius.
func (s *Service) nearRoute(route []geo.Point, p geo.Point) (float64, bool) {
	best := -1.0
	for _, vertex := range route {
		dist := geo.DistanceKM(vertex, p)
		if best < 0 || dist < best {
			best = dist
		}
	}
	return best, best >= 0 && best <= s.radiusKM
}

func sortByDistance(clusters []AccidentCluster) {
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].DistanceKM < clusters[j].DistanceKM
	})
}

// NearestBrakingEvents returns the braking events closest to the given point.
func (s *Service) NearestBrakingEvents(ctx context.Context, from geo.Point) ([]BrakingEvent, error) {
	return s.repo.NearestBraking(ctx, from, s.nearestLimit)
}

// RecordBraking stores a new braking event at the given location and returns
// it with its generated ID.
func (s *Service) RecordBraking(ctx context.Context, lat, lon float64) (*BrakingEvent, error) {
	event := &BrakingEvent{
		ID:         uuid.New().String(),
		Lat:        lat,
		Lon:        lon,
		RecordedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateBraking(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("event_id", event.ID).
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("braking event recorded")

	return event, nil
}
