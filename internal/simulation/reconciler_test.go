package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routecast/routecast/internal/simulation"
	"github.com/routecast/routecast/internal/weather"
)

func floatPtr(v float64) *float64 { return &v }

func TestReconcile(t *testing.T) {
	detail := func(c weather.Condition, temp float64) *weather.PointObservation {
		return &weather.PointObservation{Condition: c, Temperature: temp}
	}

	tests := []struct {
		name   string
		precip weather.PrecipObservation
		detail *weather.PointObservation
		want   weather.Condition
	}{
		{
			name:   "rain signal overrides sunny detail",
			precip: weather.PrecipObservation{Signal: weather.PrecipRain, RainfallMMH: floatPtr(3.5)},
			detail: detail(weather.ConditionSunny, 22),
			want:   weather.ConditionRain,
		},
		{
			name:   "rain signal stands without detail",
			precip: weather.PrecipObservation{Signal: weather.PrecipRain, RainfallMMH: floatPtr(1.0)},
			detail: nil,
			want:   weather.ConditionRain,
		},
		{
			name:   "no rain defers to detail category",
			precip: weather.PrecipObservation{Signal: weather.PrecipNoRain, RainfallMMH: floatPtr(0)},
			detail: detail(weather.ConditionSunny, 25),
			want:   weather.ConditionSunny,
		},
		{
			name:   "no forecast defers to detail category",
			precip: weather.PrecipObservation{Signal: weather.PrecipNoForecast},
			detail: detail(weather.ConditionCloudy, 15),
			want:   weather.ConditionCloudy,
		},
		{
			name:   "no forecast and no detail is unknown",
			precip: weather.PrecipObservation{Signal: weather.PrecipNoForecast},
			detail: nil,
			want:   weather.ConditionUnknown,
		},
		{
			name:   "confirmed dry without detail is cloudy",
			precip: weather.PrecipObservation{Signal: weather.PrecipNoRain, RainfallMMH: floatPtr(0)},
			detail: nil,
			want:   weather.ConditionCloudy,
		},
		{
			name:   "detail rain stands without coarse rain",
			precip: weather.PrecipObservation{Signal: weather.PrecipNoRain, RainfallMMH: floatPtr(0)},
			detail: detail(weather.ConditionRain, 12),
			want:   weather.ConditionRain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := simulation.Reconcile(tt.precip, tt.detail)
			assert.Equal(t, tt.want, got.Description)
		})
	}
}

func TestReconcile_CarriesFigures(t *testing.T) {
	got := simulation.Reconcile(
		weather.PrecipObservation{Signal: weather.PrecipRain, RainfallMMH: floatPtr(4.5)},
		&weather.PointObservation{Condition: weather.ConditionCloudy, Temperature: 17.5},
	)

	require.NotNil(t, got.RainfallMMH)
	assert.InDelta(t, 4.5, *got.RainfallMMH, 1e-9)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 17.5, *got.Temperature, 1e-9)
}

func TestReconcile_NilFiguresWhenProvidersSilent(t *testing.T) {
	got := simulation.Reconcile(
		weather.PrecipObservation{Signal: weather.PrecipNoForecast},
		nil,
	)

	assert.Nil(t, got.RainfallMMH)
	assert.Nil(t, got.Temperature)
	assert.Equal(t, weather.ConditionUnknown, got.Description)
}
