// Package events stores and queries road incident data shown alongside the
// weather report: hard-braking telemetry and accident clusters.
package events

import (
	"errors"
	"time"
)

// Predefined errors for event operations.
var (
	// ErrEventNotFound is returned when an event does not exist.
	ErrEventNotFound = errors.New("event not found")
)

// BrakingEvent is one hard-braking report from vehicle telemetry. DistanceKM
// is filled by proximity queries and is relative to the query's reference
// point.
type BrakingEvent struct {
	ID         string    `json:"id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	RecordedAt time.Time `json:"recordedAt"`
	DistanceKM float64   `json:"distanceKm"`
}

// AccidentCluster is an aggregated accident location. Count is the number of
// accidents recorded at the cluster; DistanceKM is relative to a proximity
// query's reference point.
type AccidentCluster struct {
	ID         string  `json:"id"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Count      int     `json:"count"`
	DistanceKM float64 `json:"distanceKm"`
}
