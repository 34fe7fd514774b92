// Package geo provides the geodesic primitives shared by the journey engine
// and the event store proximity queries.
package geo

import "math"

// EarthRadiusKM is the mean Earth radius used for all distance math.
// Every distance in the engine comes from this one constant so the sampler's
// interval arithmetic stays consistent with the projector's.
const EarthRadiusKM = 6371.0

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// DistanceKM returns the great-circle distance between two points in
// kilometers using the Haversine formula. Coordinates are not validated;
// out-of-range values propagate as numeric garbage, not an error.
func DistanceKM(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKM * c
}

// BoundingBox is an axis-aligned lat/lon box.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// RouteBoundingBox returns the bounding box of the given points expanded by
// marginKM on every side. The longitude margin scales with the cosine of the
// mean latitude. An empty route yields the zero box.
func RouteBoundingBox(points []Point, marginKM float64) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}

	box := BoundingBox{
		MinLat: points[0].Lat,
		MaxLat: points[0].Lat,
		MinLon: points[0].Lon,
		MaxLon: points[0].Lon,
	}

	var latSum float64
	for _, p := range points {
		box.MinLat = math.Min(box.MinLat, p.Lat)
		box.MaxLat = math.Max(box.MaxLat, p.Lat)
		box.MinLon = math.Min(box.MinLon, p.Lon)
		box.MaxLon = math.Max(box.MaxLon, p.Lon)
		latSum += p.Lat
	}

	// ~111 km per degree of latitude; longitude degrees shrink with latitude.
	meanLat := latSum / float64(len(points))
	marginLat := marginKM / 111.0
	marginLon := marginKM / (111.0 * math.Cos(meanLat*math.Pi/180))

	box.MinLat -= marginLat
	box.MaxLat += marginLat
	box.MinLon -= marginLon
	box.MaxLon += marginLon

	return box
}
