// Package weather defines the domain model shared by the weather providers
// and the simulation engine.
package weather

import (
	"context"

	"github.com/routecast/routecast/internal/journey"
)

// Condition is the reconciled weather category for a sample point.
type Condition string

const (
	ConditionSunny   Condition = "SUNNY"
	ConditionCloudy  Condition = "CLOUDY"
	ConditionRain    Condition = "RAIN"
	ConditionUnknown Condition = "UNKNOWN"
)

// PrecipSignal is the coarse provider's per-point verdict. NoForecast means
// the provider could not answer for the point, which is distinct from NoRain.
type PrecipSignal string

const (
	PrecipRain       PrecipSignal = "RAIN"
	PrecipNoRain     PrecipSignal = "NO_RAIN"
	PrecipNoForecast PrecipSignal = "NO_FORECAST"
)

// PrecipObservation is one sample point's answer from the coarse provider.
// RainfallMMH is the raw rainfall figure in mm/h; nil when the provider had
// no forecast, never when it measured zero.
type PrecipObservation struct {
	Signal      PrecipSignal
	RainfallMMH *float64
}

// PointObservation is one sample point's answer from the detailed provider.
type PointObservation struct {
	Condition   Condition
	Temperature float64
}

// PrecipProvider answers precipitation for a whole sample sequence in one
// pass. Implementations isolate failures internally: the returned slice has
// one observation per input point, with failed points marked NoForecast.
type PrecipProvider interface {
	GetPrecipitation(ctx context.Context, points []journey.SamplePoint) []PrecipObservation

	// Name returns the provider name for logging.
	Name() string
}

// ConditionProvider answers temperature and a condition category for a single
// sample point. An error means the point's data is unavailable; callers
// degrade, they do not fail the report.
type ConditionProvider interface {
	GetConditions(ctx context.Context, point journey.SamplePoint) (*PointObservation, error)

	// Name returns the provider name for logging.
	Name() string
}
