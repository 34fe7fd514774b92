// Package journey turns an ordered travel route into time-stamped sample
// points suitable for per-point weather lookups.
package journey

import "time"

// RoutePoint is a route vertex without timing information. Timestamps are
// derived from an assumed average speed.
type RoutePoint struct {
	Lat float64
	Lon float64
}

// TimedRoutePoint is a route vertex carrying the seconds elapsed since the
// journey start. Elapsed values must be non-decreasing; the engine does not
// reorder.
type TimedRoutePoint struct {
	Lat            float64
	Lon            float64
	ElapsedSeconds float64
}

// ProjectedPoint is a route vertex with an absolute passage time.
type ProjectedPoint struct {
	Lat       float64
	Lon       float64
	Timestamp time.Time
}

// SamplePoint is a resampled route position. DistanceKM is the cumulative
// distance from the journey start; the first sample is always at 0.
type SamplePoint struct {
	Lat        float64
	Lon        float64
	Timestamp  time.Time
	DistanceKM float64
}
