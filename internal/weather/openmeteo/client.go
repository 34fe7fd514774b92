// Package openmeteo implements the detailed weather provider on the
// Open-Meteo forecast and archive APIs.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/journey"
	"github.com/routecast/routecast/internal/provider/resilience"
	"github.com/routecast/routecast/internal/weather"
)

const (
	// ProviderName identifies this condition provider.
	ProviderName = "open-meteo"

	// DefaultForecastURL serves current and future dates.
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultArchiveURL serves past dates.
	DefaultArchiveURL = "https://archive-api.open-meteo.com/v1/archive"

	// hourLayout is the format of hourly timestamps in responses, which are
	// local to the queried location.
	hourLayout = "2006-01-02T15:04"
)

// ErrNoHourlyData is returned when a response carries no usable hourly series.
var ErrNoHourlyData = errors.New("no hourly data in response")

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// ForecastURL overrides the forecast endpoint.
	ForecastURL string

	// ArchiveURL overrides the archive endpoint.
	ArchiveURL string

	// HTTPClient is the resilient HTTP client; nil uses 3 attempts with a
	// fixed one-second pause.
	HTTPClient *resilience.Client

	// Now supplies the current time for the archive/forecast split; nil uses
	// time.Now. Tests inject a fixed clock here.
	Now func() time.Time

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo API client.
type Client struct {
	forecastURL string
	archiveURL  string
	httpClient  *resilience.Client
	now         func() time.Time
	logger      zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	forecastURL := cfg.ForecastURL
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}

	archiveURL := cfg.ArchiveURL
	if archiveURL == "" {
		archiveURL = DefaultArchiveURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.MaxRetries = 2
		clientCfg.FixedInterval = time.Second
		httpClient = resilience.NewClient(clientCfg)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		forecastURL: forecastURL,
		archiveURL:  archiveURL,
		httpClient:  httpClient,
		now:         now,
		logger:      cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetConditions returns the sky condition and temperature at the point's
// location for the hour nearest its passage time. Past dates are served by
// the archive endpoint, today and future dates by the forecast endpoint.
func (c *Client) GetConditions(ctx context.Context, point journey.SamplePoint) (*weather.PointObservation, error) {
	pointDate := point.Timestamp.UTC().Truncate(24 * time.Hour)
	today := c.now().UTC().Truncate(24 * time.Hour)

	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.6f", point.Lat))
	query.Set("longitude", fmt.Sprintf("%.6f", point.Lon))
	query.Set("hourly", "temperature_2m,weather_code")
	query.Set("timezone", "auto")

	endpoint := c.forecastURL
	if pointDate.Before(today) {
		endpoint = c.archiveURL
		day := pointDate.Format("2006-01-02")
		query.Set("start_date", day)
		query.Set("end_date", day)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toObservation(point, body)
}

// toObservation selects the hourly entry nearest the point's passage time.
// Hourly timestamps are location-local; utc_offset_seconds converts them
// back to instants for the comparison.
func (c *Client) toObservation(point journey.SamplePoint, body forecastResponse) (*weather.PointObservation, error) {
	hourly := body.Hourly
	if len(hourly.Time) == 0 ||
		len(hourly.Temperature2M) != len(hourly.Time) ||
		len(hourly.WeatherCode) != len(hourly.Time) {
		return nil, ErrNoHourlyData
	}

	location := time.FixedZone("local", body.UTCOffsetSeconds)

	bestIdx := -1
	bestDiff := math.MaxFloat64

	for i, raw := range hourly.Time {
		ts, err := time.ParseInLocation(hourLayout, raw, location)
		if err != nil {
			continue
		}
		diff := math.Abs(point.Timestamp.Sub(ts).Seconds())
		if diff < bestDiff {
			bestIdx = i
			bestDiff = diff
		}
	}

	if bestIdx < 0 {
		return nil, ErrNoHourlyData
	}

	return &weather.PointObservation{
		Condition:   conditionFromWMOCode(hourly.WeatherCode[bestIdx]),
		Temperature: hourly.Temperature2M[bestIdx],
	}, nil
}

// conditionFromWMOCode maps a WMO weather code to a sky condition. Codes
// outside the known sets count as Cloudy.
func conditionFromWMOCode(code int) weather.Condition {
	switch code {
	case 0, 1:
		return weather.ConditionSunny
	case 2, 3, 45, 48:
		return weather.ConditionCloudy
	case 51, 53, 55, 61, 63, 65, 71, 73, 75, 80, 81, 82, 95, 96, 99:
		return weather.ConditionRain
	default:
		return weather.ConditionCloudy
	}
}

// Open-Meteo API response structures.

type forecastResponse struct {
	UTCOffsetSeconds int          `json:"utc_offset_seconds"`
	Hourly           hourlySeries `json:"hourly"`
}

type hourlySeries struct {
	Time          []string  `json:"time"`
	Temperature2M []float64 `json:"temperature_2m"`
	WeatherCode   []int     `json:"weather_code"`
}
