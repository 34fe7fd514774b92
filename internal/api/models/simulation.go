package models

import (
	"time"

	"github.com/routecast/routecast/internal/events"
	"github.com/routecast/routecast/internal/simulation"
)

// SimulationRequest is the body of POST /v1/simulations. Each point is
// [lat, lon] or [lat, lon, elapsedSeconds]; the two forms must not be mixed.
// When elapsed seconds are present they define the timing and
// averageSpeedKmh is ignored.
type SimulationRequest struct {
	Points          [][]float64 `json:"points"`
	AverageSpeedKMH float64     `json:"averageSpeedKmh,omitempty"`
	StartTime       *time.Time  `json:"startTime,omitempty"`
}

// Validate checks the request shape and coordinate ranges. It returns field
// errors suitable for a 400 problem response, or nil when valid.
func (r *SimulationRequest) Validate() []FieldError {
	var errs []FieldError

	if len(r.Points) == 0 {
		return append(errs, FieldError{
			Field:   "points",
			Message: "at least one point is required",
			Code:    "required",
		})
	}

	timed := len(r.Points[0]) == 3
	for i, p := range r.Points {
		switch len(p) {
		case 2:
			if timed {
				errs = append(errs, FieldError{
					Field:   "points",
					Message: "points must all have the same number of elements",
					Code:    "mixed_widths",
				})
				return errs
			}
		case 3:
			if !timed {
				errs = append(errs, FieldError{
					Field:   "points",
					Message: "points must all have the same number of elements",
					Code:    "mixed_widths",
				})
				return errs
			}
		default:
			errs = append(errs, FieldError{
				Field:   "points",
				Message: "each point must be [lat, lon] or [lat, lon, elapsedSeconds]",
				Code:    "invalid_shape",
			})
			return errs
		}

		if p[0] < -90 || p[0] > 90 {
			errs = append(errs, FieldError{
				Field:   "points",
				Message: "latitude must be between -90 and 90",
				Code:    "out_of_range",
			})
			return errs
		}
		if p[1] < -180 || p[1] > 180 {
			errs = append(errs, FieldError{
				Field:   "points",
				Message: "longitude must be between -180 and 180",
				Code:    "out_of_range",
			})
			return errs
		}

		if timed && i > 0 && p[2] < r.Points[i-1][2] {
			errs = append(errs, FieldError{
				Field:   "points",
				Message: "elapsed seconds must be non-decreasing",
				Code:    "out_of_order",
			})
			return errs
		}
	}

	if r.AverageSpeedKMH < 0 {
		errs = append(errs, FieldError{
			Field:   "averageSpeedKmh",
			Message: "average speed must not be negative",
			Code:    "out_of_range",
		})
	}

	return errs
}

// Timed reports whether the points carry their own elapsed seconds.
func (r *SimulationRequest) Timed() bool {
	return len(r.Points) > 0 && len(r.Points[0]) == 3
}

// SimulationPoint is one annotated sample point in the report.
type SimulationPoint struct {
	Lat        float64                      `json:"lat"`
	Lon        float64                      `json:"lon"`
	Timestamp  time.Time                    `json:"timestamp"`
	DistanceKM float64                      `json:"distanceKm"`
	Weather    simulation.WeatherAnnotation `json:"weather"`
}

// SimulationResponse is the body of a successful simulation.
type SimulationResponse struct {
	Report              []SimulationPoint        `json:"report"`
	NearbyAccidents     []events.AccidentCluster `json:"nearbyAccidents"`
	NearbyBrakingEvents []events.BrakingEvent    `json:"nearbyBrakingEvents"`
}

// NewSimulationPoints converts annotated sample points to their API shape.
func NewSimulationPoints(report []simulation.AnnotatedSamplePoint) []SimulationPoint {
	points := make([]SimulationPoint, 0, len(report))
	for _, p := range report {
		points = append(points, SimulationPoint{
			Lat:        p.Lat,
			Lon:        p.Lon,
			Timestamp:  p.Timestamp,
			DistanceKM: p.DistanceKM,
			Weather:    p.Weather,
		})
	}
	return points
}

// BrakingEventCreateRequest is the body of POST /v1/events/braking.
type BrakingEventCreateRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Validate checks for presence and coordinate ranges.
func (r *BrakingEventCreateRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Latitude == nil {
		errs = append(errs, FieldError{Field: "latitude", Message: "latitude is required", Code: "required"})
	} else if *r.Latitude < -90 || *r.Latitude > 90 {
		errs = append(errs, FieldError{Field: "latitude", Message: "latitude must be between -90 and 90", Code: "out_of_range"})
	}

	if r.Longitude == nil {
		errs = append(errs, FieldError{Field: "longitude", Message: "longitude is required", Code: "required"})
	} else if *r.Longitude < -180 || *r.Longitude > 180 {
		errs = append(errs, FieldError{Field: "longitude", Message: "longitude must be between -180 and 180", Code: "out_of_range"})
	}

	return errs
}

// Health is the body of the operational health endpoints.
type Health struct {
	Status  string                 `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Health status values.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// ProviderStatus reports one weather provider's circuit state.
type ProviderStatus struct {
	Provider string `json:"provider"`
	Status   string `json:"status"`
}
