// Package openweather implements domain.WeatherProvider using the
// OpenWeatherMap geocoding and current-weather APIs.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/krishimitra/crop-advisor/internal/domain"
	"github.com/krishimitra/crop-advisor/internal/observability"
)

// Client resolves a state/district pair to coordinates, then fetches
// current conditions for them.
type Client struct {
	apiKey         string
	country        string // ISO country hint appended to geocoding queries
	httpClient     *http.Client
	geoBaseURL     string
	weatherBaseURL string
	geoCache       *lruCache
	metrics        *observability.Metrics
	logger         *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey, country string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:         apiKey,
		country:        country,
		httpClient:     &http.Client{Timeout: timeout},
		geoBaseURL:     "https://api.openweathermap.org/geo/1.0",
		weatherBaseURL: "https://api.openweathermap.org/data/2.5",
		geoCache:       newLRUCache(512),
		metrics:        metrics,
		logger:         logger,
	}
}

// CurrentWeather implements domain.WeatherProvider.
func (c *Client) CurrentWeather(ctx context.Context, state, district string) (domain.WeatherSnapshot, error) {
	start := time.Now()
	snapshot, err := c.currentWeather(ctx, state, district)
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.WeatherSnapshot{}, err
	}
	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return snapshot, nil
}

func (c *Client) currentWeather(ctx context.Context, state, district string) (domain.WeatherSnapshot, error) {
	coords, err := c.geocode(ctx, state, district)
	if err != nil {
		return domain.WeatherSnapshot{}, err
	}

	params := url.Values{
		"lat":   {fmt.Sprintf("%.6f", coords.Lat)},
		"lon":   {fmt.Sprintf("%.6f", coords.Lon)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	var resp weatherResponse
	if err := c.getJSON(ctx, c.weatherBaseURL+"/weather?"+params.Encode(), &resp); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("current weather: %w", err)
	}

	snapshot := domain.WeatherSnapshot{
		Temperature: roundToInt(resp.Main.Temp),
		Humidity:    roundToInt(resp.Main.Humidity),
		Rainfall:    roundToInt(resp.Rain.OneHour),
		Description: "current weather",
	}
	if snapshot.Rainfall == 0 {
		snapshot.Rainfall = roundToInt(resp.Rain.ThreeHours)
	}
	if len(resp.Weather) > 0 && resp.Weather[0].Description != "" {
		snapshot.Description = resp.Weather[0].Description
	}
	return snapshot, nil
}

// geocode resolves coordinates, trying district+state, then district,
// then state, always with the configured country hint. Results are
// cached because district coordinates never change.
func (c *Client) geocode(ctx context.Context, state, district string) (coordinates, error) {
	cacheKey := district + "|" + state
	if coords, ok := c.geoCache.get(cacheKey); ok {
		return coords, nil
	}

	queries := []string{
		fmt.Sprintf("%s, %s, %s", district, state, c.country),
		fmt.Sprintf("%s, %s", district, c.country),
		fmt.Sprintf("%s, %s", state, c.country),
	}

	for _, query := range queries {
		params := url.Values{
			"q":     {query},
			"limit": {"1"},
			"appid": {c.apiKey},
		}

		var results []geocodeResult
		if err := c.getJSON(ctx, c.geoBaseURL+"/direct?"+params.Encode(), &results); err != nil {
			c.logger.Warn("geocode query failed", "query", query, "error", err)
			continue
		}
		if len(results) > 0 {
			coords := coordinates{Lat: results[0].Lat, Lon: results[0].Lon}
			c.geoCache.put(cacheKey, coords)
			return coords, nil
		}
	}
	return coordinates{}, fmt.Errorf("could not geocode location: %s, %s", district, state)
}

func (c *Client) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func roundToInt(v float64) int {
	return int(math.Round(v))
}

// coordinates is a WGS-84 latitude/longitude pair.
type coordinates struct {
	Lat float64
	Lon float64
}

// OpenWeatherMap API response types.

type geocodeResult struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type weatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Rain struct {
		OneHour    float64 `json:"1h"`
		ThreeHours float64 `json:"3h"`
	} `json:"rain"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}
