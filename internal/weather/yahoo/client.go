// Package yahoo implements the coarse precipitation provider on the
// Yahoo! Weather place API, which answers many points in one batched call.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/journey"
	"github.com/routecast/routecast/internal/provider/resilience"
	"github.com/routecast/routecast/internal/weather"
)

const (
	// ProviderName identifies this precipitation provider.
	ProviderName = "yahoo-weather"

	// DefaultBaseURL is the Yahoo! Weather place API base URL.
	DefaultBaseURL = "https://map.yahooapis.jp/weather/V1/place"

	// DefaultBatchSize is the number of points per request; the API accepts
	// at most 10 coordinates per call.
	DefaultBatchSize = 10

	// DefaultIntervalMinutes is the forecast granularity requested from the
	// provider.
	DefaultIntervalMinutes = 10

	// dateLayout is the minute-precision date format used by forecast
	// entries, e.g. "202608251030".
	dateLayout = "200601021504"
)

// Forecast dates are local to the provider's region.
var jst = time.FixedZone("JST", 9*60*60)

// ClientConfig holds configuration for the Yahoo! Weather client.
type ClientConfig struct {
	// AppID is the Yahoo! application ID (required).
	AppID string

	// BaseURL overrides the API base URL.
	BaseURL string

	// BatchSize overrides the points-per-request batch size.
	BatchSize int

	// IntervalMinutes overrides the requested forecast granularity.
	IntervalMinutes int

	// HTTPClient is the resilient HTTP client; nil uses defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Yahoo! Weather place API client.
type Client struct {
	appID           string
	baseURL         string
	batchSize       int
	intervalMinutes int
	httpClient      *resilience.Client
	logger          zerolog.Logger
}

// NewClient creates a new Yahoo! Weather client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	intervalMinutes := cfg.IntervalMinutes
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultIntervalMinutes
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		appID:           cfg.AppID,
		baseURL:         baseURL,
		batchSize:       batchSize,
		intervalMinutes: intervalMinutes,
		httpClient:      httpClient,
		logger:          cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetPrecipitation queries the provider in fixed-size batches. A failed batch
// marks only its own points as NoForecast; other batches are unaffected.
// The returned slice always has one observation per input point.
func (c *Client) GetPrecipitation(ctx context.Context, points []journey.SamplePoint) []weather.PrecipObservation {
	observations := make([]weather.PrecipObservation, len(points))
	for i := range observations {
		observations[i] = weather.PrecipObservation{Signal: weather.PrecipNoForecast}
	}

	for start := 0; start < len(points); start += c.batchSize {
		end := start + c.batchSize
		if end > len(points) {
			end = len(points)
		}
		batch := points[start:end]

		results, err := c.fetchBatch(ctx, batch)
		if err != nil {
			c.logger.Warn().Err(err).
				Int("batch_start", start).
				Int("batch_size", len(batch)).
				Msg("precipitation batch failed")
			continue
		}

		copy(observations[start:end], results)
	}

	return observations
}

// fetchBatch issues one request for a batch of points and maps the response
// back to per-point observations.
func (c *Client) fetchBatch(ctx context.Context, batch []journey.SamplePoint) ([]weather.PrecipObservation, error) {
	coords := make([]string, 0, len(batch))
	for _, p := range batch {
		coords = append(coords, fmt.Sprintf("%.6f,%.6f", p.Lon, p.Lat))
	}

	query := url.Values{}
	query.Set("coordinates", strings.Join(coords, " "))
	query.Set("output", "json")
	query.Set("appid", c.appID)
	query.Set("interval", fmt.Sprintf("%d", c.intervalMinutes))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), http.NoBody)
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

	var body placeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	// One feature per requested point, same order; anything else voids the
	// whole batch.
	if len(body.Feature) != len(batch) {
		return nil, fmt.Errorf("response has %d features for %d requested points", len(body.Feature), len(batch))
	}

	results := make([]weather.PrecipObservation, len(batch))
	for i, feature := range body.Feature {
		results[i] = c.toObservation(batch[i], feature)
	}

	return results, nil
}

// toObservation picks the forecast entry closest in time to the point's
// passage and derives the binary rain signal from its rainfall figure.
func (c *Client) toObservation(point journey.SamplePoint, feature placeFeature) weather.PrecipObservation {
	forecasts := feature.Property.WeatherList.Weather
	if len(forecasts) == 0 {
		return weather.PrecipObservation{Signal: weather.PrecipNoForecast}
	}

	var best *forecastEntry
	bestDiff := math.MaxFloat64

	for i := range forecasts {
		ts, err := time.ParseInLocation(dateLayout, forecasts[i].Date, jst)
		if err != nil {
			continue
		}
		diff := math.Abs(point.Timestamp.Sub(ts).Seconds())
		if diff < bestDiff {
			best = &forecasts[i]
			bestDiff = diff
		}
	}

	if best == nil {
		return weather.PrecipObservation{Signal: weather.PrecipNoForecast}
	}

	rainfall := best.Rainfall
	signal := weather.PrecipNoRain
	if rainfall > 0 {
		signal = weather.PrecipRain
	}

	return weather.PrecipObservation{
		Signal:      signal,
		RainfallMMH: &rainfall,
	}
}

// Yahoo! Weather place API response structures.

type placeResponse struct {
	Feature []placeFeature `json:"Feature"`
}

type placeFeature struct {
	Property struct {
		WeatherList struct {
			Weather []forecastEntry `json:"Weather"`
		} `json:"WeatherList"`
	} `json:"Property"`
}

type forecastEntry struct {
	Type     string  `json:"Type"`
	Date     string  `json:"Date"`
	Rainfall float64 `json:"Rainfall"`
}
