package events

import (
	"context"
	"sort"
	"sync"

	"github.com/routecast/routecast/internal/geo"
)

// MemoryRepository is an in-memory implementation of Repository for tests and
// local development.
type MemoryRepository struct {
	mu       sync.RWMutex
	braking  []BrakingEvent
	clusters []AccidentCluster
}

// NewMemoryRepository creates an empty in-memory event repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// SeedAccidents loads accident clusters, replacing any existing ones.
func (r *MemoryRepository) SeedAccidents(clusters []AccidentCluster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clusters = append([]AccidentCluster(nil), clusters...)
}

// CreateBraking stores a new braking event.
func (r *MemoryRepository) CreateBraking(_ context.Context, event *BrakingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.braking = append(r.braking, *event)
	return nil
}

// NearestBraking returns up to limit braking events ordered by distance from
// the given point.
func (r *MemoryRepository) NearestBraking(_ context.Context, from geo.Point, limit int) ([]BrakingEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]BrakingEvent, len(r.braking))
	copy(events, r.braking)
	for i := range events {
		events[i].DistanceKM = geo.DistanceKM(from, geo.Point{Lat: events[i].Lat, Lon: events[i].Lon})
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].DistanceKM < events[j].DistanceKM
	})

	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// AccidentsInBox returns every accident cluster inside the bounding box.
func (r *MemoryRepository) AccidentsInBox(_ context.Context, box geo.BoundingBox) ([]AccidentCluster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var inside []AccidentCluster
	for _, cluster := range r.clusters {
		if box.Contains(geo.Point{Lat: cluster.Lat, Lon: cluster.Lon}) {
			inside = append(inside, cluster)
		}
	}
	return inside, nil
}

// NearestAccidents returns up to limit accident clusters ordered by distance
// from the given point.
func (r *MemoryRepository) NearestAccidents(_ context.Context, from geo.Point, limit int) ([]AccidentCluster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clusters := make([]AccidentCluster, len(r.clusters))
	copy(clusters, r.clusters)
	for i := range clusters {
		clusters[i].DistanceKM = geo.DistanceKM(from, geo.Point{Lat: clusters[i].Lat, Lon: clusters[i].Lon})
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].DistanceKM < clusters[j].DistanceKM
	})

	if len(clusters) > limit {
		clusters = clusters[:limit]
	}
	return clusters, nil
}

// Ensure MemoryRepository implements Repository interface.
var _ Repository = (*MemoryRepository)(nil)
