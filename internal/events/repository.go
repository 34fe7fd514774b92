package events

import (
	"context"

	"github.com/routecast/routecast/internal/geo"
)

// Repository provides access to stored braking events and accident clusters.
type Repository interface {
	// CreateBraking stores a new braking event.
	CreateBraking(ctx context.Context, event *BrakingEvent) error

	// NearestBraking returns up to limit braking events ordered by distance
	// from the given point, with DistanceKM filled.
	NearestBraking(ctx context.Context, from geo.Point, limit int) ([]BrakingEvent, error)

	// AccidentsInBox returns every accident cluster inside the bounding box.
	// DistanceKM is left zero; callers refine against their own reference.
	AccidentsInBox(ctx context.Context, box geo.BoundingBox) ([]AccidentCluster, error)

	// NearestAccidents returns up to limit accident clusters ordered by
	// distance from the given point, with DistanceKM filled.
	NearestAccidents(ctx context.Context, from geo.Point, limit int) ([]AccidentCluster, error)
}
