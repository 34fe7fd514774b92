package simulation

import "github.com/routecast/routecast/internal/weather"

// Reconcile merges the coarse precipitation verdict with the detailed
// observation for one sample point. detail is nil when the detailed provider
// had no answer.
//
// Precedence: an active rain signal from the coarse provider wins outright.
// Otherwise the detailed category stands. With no detailed answer either, a
// missing coarse forecast yields Unknown and a confirmed dry reading yields
// Cloudy. Temperature is always the detailed provider's; rainfall is always
// the coarse provider's.
func Reconcile(precip weather.PrecipObservation, detail *weather.PointObservation) WeatherAnnotation {
	annotation := WeatherAnnotation{
		RainfallMMH: precip.RainfallMMH,
	}

	if detail != nil {
		temp := detail.Temperature
		annotation.Temperature = &temp
	}

	switch {
	case precip.Signal == weather.PrecipRain:
		annotation.Description = weather.ConditionRain
	case detail != nil:
		annotation.Description = detail.Condition
	case precip.Signal == weather.PrecipNoForecast:
		annotation.Description = weather.ConditionUnknown
	default:
		annotation.Description = weather.ConditionCloudy
	}

	return annotation
}
