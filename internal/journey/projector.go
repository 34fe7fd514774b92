package journey

import (
	"time"

	"github.com/routecast/routecast/internal/geo"
)

// Project assigns an absolute timestamp to every route vertex assuming a
// constant average speed. The first point gets the start time; each
// subsequent point advances by the segment's travel time. An empty route
// yields an empty result.
func Project(points []RoutePoint, avgSpeedKMH float64, start time.Time) []ProjectedPoint {
	if len(points) == 0 {
		return nil
	}

	projected := make([]ProjectedPoint, 0, len(points))
	projected = append(projected, ProjectedPoint{
		Lat:       points[0].Lat,
		Lon:       points[0].Lon,
		Timestamp: start,
	})

	current := start
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		distKM := geo.DistanceKM(
			geo.Point{Lat: prev.Lat, Lon: prev.Lon},
			geo.Point{Lat: curr.Lat, Lon: curr.Lon},
		)
		travelSeconds := distKM / avgSpeedKMH * 3600
		current = current.Add(time.Duration(travelSeconds * float64(time.Second)))

		projected = append(projected, ProjectedPoint{
			Lat:       curr.Lat,
			Lon:       curr.Lon,
			Timestamp: current,
		})
	}

	return projected
}

// ProjectTimed assigns timestamps from explicit per-point elapsed seconds
// added to the start time. Length and order match the input.
func ProjectTimed(points []TimedRoutePoint, start time.Time) []ProjectedPoint {
	if len(points) == 0 {
		return nil
	}

	projected := make([]ProjectedPoint, 0, len(points))
	for _, p := range points {
		projected = append(projected, ProjectedPoint{
			Lat:       p.Lat,
			Lon:       p.Lon,
			Timestamp: start.Add(time.Duration(p.ElapsedSeconds * float64(time.Second))),
		})
	}

	return projected
}

// TotalDistanceKM sums the segment lengths of a projected route.
func TotalDistanceKM(points []ProjectedPoint) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += geo.DistanceKM(
			geo.Point{Lat: points[i-1].Lat, Lon: points[i-1].Lon},
			geo.Point{Lat: points[i].Lat, Lon: points[i].Lon},
		)
	}
	return total
}
