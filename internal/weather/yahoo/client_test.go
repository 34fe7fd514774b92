package yahoo_test

import (
	"context"
	"encoding/json"
	"fmt"
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
	"github.com/routecast/routecast/internal/weather/yahoo"
)

var jst = time.FixedZone("JST", 9*60*60)

type fakeForecast struct {
	date     time.Time
	rainfall float64
}

func featureJSON(forecasts []fakeForecast) map[string]any {
	entries := make([]map[string]any, 0, len(forecasts))
	for i, f := range forecasts {
		entryType := "observation"
		if i > 0 {
			entryType = "forecast"
		}
		entries = append(entries, map[string]any{
			"Type":     entryType,
			"Date":     f.date.In(jst).Format("200601021504"),
			"Rainfall": f.rainfall,
		})
	}
	return map[string]any{
		"Property": map[string]any{
			"WeatherList": map[string]any{
				"Weather": entries,
			},
		},
	}
}

func writeFeatures(t *testing.T, w http.ResponseWriter, features []map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"Feature": features}))
}

func testClient(serverURL string, batchSize int) *yahoo.Client {
	return yahoo.NewClient(yahoo.ClientConfig{
		AppID:     "test-app-id",
		BaseURL:   serverURL,
		BatchSize: batchSize,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:          "yahoo-test",
			MaxRetries:    1,
			FixedInterval: time.Millisecond,
		}),
	})
}

func samplePoints(n int, start time.Time) []journey.SamplePoint {
	points := make([]journey.SamplePoint, n)
	for i := range points {
		points[i] = journey.SamplePoint{
			Lat:        35.0 + float64(i)*0.01,
			Lon:        139.0 + float64(i)*0.01,
			Timestamp:  start.Add(time.Duration(i) * 10 * time.Minute),
			DistanceKM: float64(i) * 15,
		}
	}
	return points
}

func TestClient_GetPrecipitation_MapsRainfall(t *testing.T) {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-app-id", r.URL.Query().Get("appid"))
		assert.Equal(t, "10", r.URL.Query().Get("interval"))
		assert.Contains(t, r.URL.Query().Get("coordinates"), " ")

		writeFeatures(t, w, []map[string]any{
			featureJSON([]fakeForecast{{date: start, rainfall: 0}}),
			featureJSON([]fakeForecast{{date: start.Add(10 * time.Minute), rainfall: 2.5}}),
		})
	}))
	defer server.Close()

	client := testClient(server.URL, 10)
	observations := client.GetPrecipitation(context.Background(), samplePoints(2, start))

	require.Len(t, observations, 2)

	assert.Equal(t, weather.PrecipNoRain, observations[0].Signal)
	require.NotNil(t, observations[0].RainfallMMH)
	assert.Zero(t, *observations[0].RainfallMMH)

	assert.Equal(t, weather.PrecipRain, observations[1].Signal)
	require.NotNil(t, observations[1].RainfallMMH)
	assert.InDelta(t, 2.5, *observations[1].RainfallMMH, 1e-9)
}

func TestClient_GetPrecipitation_PicksNearestForecast(t *testing.T) {
	// The point passes at 10:25; the 10:30 entry is nearer than 10:00 or 11:00.
	passage := time.Date(2026, 8, 25, 10, 25, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFeatures(t, w, []map[string]any{
			featureJSON([]fakeForecast{
				{date: passage.Add(-25 * time.Minute), rainfall: 9.0},
				{date: passage.Add(5 * time.Minute), rainfall: 0},
				{date: passage.Add(35 * time.Minute), rainfall: 4.0},
			}),
		})
	}))
	defer server.Close()

	client := testClient(server.URL, 10)
	points := samplePoints(1, passage)
	observations := client.GetPrecipitation(context.Background(), points)

	require.Len(t, observations, 1)
	assert.Equal(t, weather.PrecipNoRain, observations[0].Signal)
	require.NotNil(t, observations[0].RainfallMMH)
	assert.Zero(t, *observations[0].RainfallMMH)
}

func TestClient_GetPrecipitation_BatchesRequests(t *testing.T) {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		coords := r.URL.Query().Get("coordinates")
		count := 1
		for _, c := range coords {
			if c == ' ' {
				count++
			}
		}
		assert.LessOrEqual(t, count, 10)

		features := make([]map[string]any, count)
		for i := range features {
			features[i] = featureJSON([]fakeForecast{{date: start, rainfall: 1.0}})
		}
		writeFeatures(t, w, features)
	}))
	defer server.Close()

	client := testClient(server.URL, 10)
	observations := client.GetPrecipitation(context.Background(), samplePoints(23, start))

	require.Len(t, observations, 23)
	assert.Equal(t, int64(3), requests.Load()) // 10 + 10 + 3
	for _, obs := range observations {
		assert.Equal(t, weather.PrecipRain, obs.Signal)
	}
}

func TestClient_GetPrecipitation_FailedBatchIsolated(t *testing.T) {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Second batch fails; the others answer normally.
		if requests.Add(1) == 2 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		coords := r.URL.Query().Get("coordinates")
		count := 1
		for _, c := range coords {
			if c == ' ' {
				count++
			}
		}
		features := make([]map[string]any, count)
		for i := range features {
			features[i] = featureJSON([]fakeForecast{{date: start, rainfall: 3.0}})
		}
		writeFeatures(t, w, features)
	}))
	defer server.Close()

	client := testClient(server.URL, 5)
	observations := client.GetPrecipitation(context.Background(), samplePoints(15, start))

	require.Len(t, observations, 15)
	for i, obs := range observations {
		if i >= 5 && i < 10 {
			assert.Equal(t, weather.PrecipNoForecast, obs.Signal, "point %d", i)
			assert.Nil(t, obs.RainfallMMH, "point %d", i)
		} else {
			assert.Equal(t, weather.PrecipRain, obs.Signal, "point %d", i)
		}
	}
}

func TestClient_GetPrecipitation_FeatureCountMismatchFailsBatch(t *testing.T) {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Always one feature regardless of how many points were asked for.
		writeFeatures(t, w, []map[string]any{
			featureJSON([]fakeForecast{{date: start, rainfall: 1.0}}),
		})
	}))
	defer server.Close()

	client := testClient(server.URL, 10)
	observations := client.GetPrecipitation(context.Background(), samplePoints(3, start))

	require.Len(t, observations, 3)
	for _, obs := range observations {
		assert.Equal(t, weather.PrecipNoForecast, obs.Signal)
	}
}

func TestClient_GetPrecipitation_EmptyForecastList(t *testing.T) {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFeatures(t, w, []map[string]any{
			featureJSON(nil),
		})
	}))
	defer server.Close()

	client := testClient(server.URL, 10)
	observations := client.GetPrecipitation(context.Background(), samplePoints(1, start))

	require.Len(t, observations, 1)
	assert.Equal(t, weather.PrecipNoForecast, observations[0].Signal)
	assert.Nil(t, observations[0].RainfallMMH)
}

func TestClient_Name(t *testing.T) {
	client := yahoo.NewClient(yahoo.ClientConfig{AppID: "x"})
	assert.Equal(t, "yahoo-weather", client.Name())
}

func TestClient_CoordinateOrderIsLonLat(t *testing.T) {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	var gotCoords string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCoords = r.URL.Query().Get("coordinates")
		writeFeatures(t, w, []map[string]any{
			featureJSON([]fakeForecast{{date: start, rainfall: 0}}),
		})
	}))
	defer server.Close()

	client := testClient(server.URL, 10)
	client.GetPrecipitation(context.Background(), []journey.SamplePoint{
		{Lat: 35.68, Lon: 139.76, Timestamp: start},
	})

	assert.Equal(t, fmt.Sprintf("%.6f,%.6f", 139.76, 35.68), gotCoords)
}
