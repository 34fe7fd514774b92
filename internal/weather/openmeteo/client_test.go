package openmeteo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routecast/routecast/internal/journey"
	"github.com/routecast/routecast/internal/provider/resilience"
	"github.com/routecast/routecast/internal/weather"
	"github.com/routecast/routecast/internal/weather/openmeteo"
)

func hourlyBody(offsetSeconds int, hours []time.Time, temps []float64, codes []int) map[string]any {
	location := time.FixedZone("local", offsetSeconds)
	times := make([]string, len(hours))
	for i, h := range hours {
		times[i] = h.In(location).Format("2006-01-02T15:04")
	}
	return map[string]any{
		"utc_offset_seconds": offsetSeconds,
		"hourly": map[string]any{
			"time":           times,
			"temperature_2m": temps,
			"weather_code":   codes,
		},
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, body map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func fastHTTPClient() *resilience.Client {
	return resilience.NewClient(resilience.ClientConfig{
		Name:          "open-meteo-test",
		MaxRetries:    2,
		FixedInterval: time.Millisecond,
	})
}

func TestClient_GetConditions_NearestHour(t *testing.T) {
	// Passage at 10:40 UTC; the 11:00 entry is nearer than 10:00.
	passage := time.Date(2026, 8, 25, 10, 40, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "temperature_2m,weather_code", r.URL.Query().Get("hourly"))
		assert.Equal(t, "auto", r.URL.Query().Get("timezone"))

		writeJSON(t, w, hourlyBody(0, []time.Time{
			passage.Truncate(time.Hour),
			passage.Truncate(time.Hour).Add(time.Hour),
		}, []float64{18.0, 21.5}, []int{3, 0}))
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		ForecastURL: server.URL,
		HTTPClient:  fastHTTPClient(),
		Now:         func() time.Time { return passage },
	})

	obs, err := client.GetConditions(context.Background(), journey.SamplePoint{
		Lat: 35.68, Lon: 139.76, Timestamp: passage,
	})
	require.NoError(t, err)

	assert.Equal(t, weather.ConditionSunny, obs.Condition)
	assert.InDelta(t, 21.5, obs.Temperature, 1e-9)
}

func TestClient_GetConditions_UsesUTCOffset(t *testing.T) {
	// Local timestamps are UTC+9; the nearest entry must be found against
	// the point's UTC passage time, not the raw local strings.
	passage := time.Date(2026, 8, 25, 1, 10, 0, 0, time.UTC) // 10:10 JST

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, hourlyBody(9*3600, []time.Time{
			passage.Truncate(time.Hour),            // 10:00 JST
			passage.Truncate(time.Hour).Add(time.Hour), // 11:00 JST
		}, []float64{24.0, 27.0}, []int{61, 0}))
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		ForecastURL: server.URL,
		HTTPClient:  fastHTTPClient(),
		Now:         func() time.Time { return passage },
	})

	obs, err := client.GetConditions(context.Background(), journey.SamplePoint{
		Lat: 35.68, Lon: 139.76, Timestamp: passage,
	})
	require.NoError(t, err)

	assert.Equal(t, weather.ConditionRain, obs.Condition)
	assert.InDelta(t, 24.0, obs.Temperature, 1e-9)
}

func TestClient_GetConditions_ArchiveForPastDates(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	past := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	var forecastCalls, archiveCalls atomic.Int64

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forecastCalls.Add(1)
		writeJSON(t, w, hourlyBody(0, []time.Time{now.Truncate(time.Hour)}, []float64{20}, []int{0}))
	}))
	defer forecast.Close()

	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		archiveCalls.Add(1)
		assert.Equal(t, "2026-08-20", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-08-20", r.URL.Query().Get("end_date"))
		writeJSON(t, w, hourlyBody(0, []time.Time{past.Truncate(time.Hour)}, []float64{17.5}, []int{2}))
	}))
	defer archive.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		ForecastURL: forecast.URL,
		ArchiveURL:  archive.URL,
		HTTPClient:  fastHTTPClient(),
		Now:         func() time.Time { return now },
	})

	obs, err := client.GetConditions(context.Background(), journey.SamplePoint{
		Lat: 35.68, Lon: 139.76, Timestamp: past,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), archiveCalls.Load())
	assert.Equal(t, int64(0), forecastCalls.Load())
	assert.Equal(t, weather.ConditionCloudy, obs.Condition)
	assert.InDelta(t, 17.5, obs.Temperature, 1e-9)
}

func TestClient_GetConditions_TodayUsesForecast(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	earlierToday := time.Date(2026, 8, 25, 2, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("start_date"))
		writeJSON(t, w, hourlyBody(0, []time.Time{earlierToday}, []float64{19}, []int{1}))
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		ForecastURL: server.URL,
		ArchiveURL:  "http://archive.invalid",
		HTTPClient:  fastHTTPClient(),
		Now:         func() time.Time { return now },
	})

	obs, err := client.GetConditions(context.Background(), journey.SamplePoint{
		Lat: 35.68, Lon: 139.76, Timestamp: earlierToday,
	})
	require.NoError(t, err)
	assert.Equal(t, weather.ConditionSunny, obs.Condition)
}

func TestClient_GetConditions_EmptyHourlySeries(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"utc_offset_seconds": 0,
			"hourly": map[string]any{
				"time":           []string{},
				"temperature_2m": []float64{},
				"weather_code":   []int{},
			},
		})
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		ForecastURL: server.URL,
		HTTPClient:  fastHTTPClient(),
		Now:         func() time.Time { return now },
	})

	_, err := client.GetConditions(context.Background(), journey.SamplePoint{
		Lat: 35.68, Lon: 139.76, Timestamp: now,
	})
	assert.ErrorIs(t, err, openmeteo.ErrNoHourlyData)
}

func TestClient_GetConditions_RetriesThenFails(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		ForecastURL: server.URL,
		HTTPClient:  fastHTTPClient(),
		Now:         func() time.Time { return now },
	})

	_, err := client.GetConditions(context.Background(), journey.SamplePoint{
		Lat: 35.68, Lon: 139.76, Timestamp: now,
	})
	require.Error(t, err)
	assert.Equal(t, int64(3), calls.Load()) // 1 attempt + 2 retries
}

func TestConditionMapping(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		code int
		want weather.Condition
	}{
		{0, weather.ConditionSunny},
		{1, weather.ConditionSunny},
		{2, weather.ConditionCloudy},
		{45, weather.ConditionCloudy},
		{51, weather.ConditionRain},
		{65, weather.ConditionRain},
		{95, weather.ConditionRain},
		{77, weather.ConditionCloudy}, // unknown code defaults to cloudy
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, hourlyBody(0, []time.Time{now}, []float64{10}, []int{tc.code}))
		}))

		client := openmeteo.NewClient(openmeteo.ClientConfig{
			ForecastURL: server.URL,
			HTTPClient:  fastHTTPClient(),
			Now:         func() time.Time { return now },
		})

		obs, err := client.GetConditions(context.Background(), journey.SamplePoint{
			Lat: 35.68, Lon: 139.76, Timestamp: now,
		})
		require.NoError(t, err, "code %d", tc.code)
		assert.Equal(t, tc.want, obs.Condition, "code %d", tc.code)

		server.Close()
	}
}
