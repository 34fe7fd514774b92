// Package simulation runs the route weather report: resample the route,
// query both providers, and reconcile their answers per sample point.
package simulation

import (
	"github.com/routecast/routecast/internal/journey"
	"github.com/routecast/routecast/internal/weather"
)

// WeatherAnnotation is the reconciled weather at one sample point.
// RainfallMMH comes from the coarse provider and Temperature from the
// detailed one; either is nil when its provider had no answer.
type WeatherAnnotation struct {
	Description weather.Condition `json:"description"`
	RainfallMMH *float64          `json:"rainfallMmh,omitempty"`
	Temperature *float64          `json:"temperature,omitempty"`
}

// AnnotatedSamplePoint is a sample point with its reconciled weather.
type AnnotatedSamplePoint struct {
	journey.SamplePoint
	Weather WeatherAnnotation
}
