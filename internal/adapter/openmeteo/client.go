package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/observability"
)

// Endpoint labels used in logs and metrics.
const (
	endpointGeocoding = "geocoding"
	endpointForecast  = "forecast"
	endpointFlood     = "flood"
)

const (
	searchCount  = 5
	geocodeCount = 10
	minQueryLen  = 2

	hourlyFields = "precipitation,precipitation_probability,soil_moisture_0_to_1cm,soil_moisture_1_to_3cm"
	dailyFields  = "river_discharge,river_discharge_median"
)

// Endpoints are the base URLs of the three Open-Meteo APIs.
type Endpoints struct {
	Geocoding string
	Forecast  string
	Flood     string
}

// Client talks to the Open-Meteo geocoding, forecast, and flood APIs. It
// implements domain.Geocoder, domain.LocationSearcher, domain.WeatherProvider,
// and domain.FloodProvider.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Open-Meteo client. metrics may be nil.
func NewClient(endpoints Endpoints, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		endpoints: endpoints,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Search lists up to five places matching query. Queries shorter than two
// characters return no results without a request.
func (c *Client) Search(ctx context.Context, query, lang string) ([]domain.Location, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLen {
		return []domain.Location{}, nil
	}

	results, err := c.geocode(ctx, query, lang, searchCount)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Geocode resolves a city to a single location. A "city, country" string is
// split when country is empty. Among the candidates, the first whose country
// contains the requested country (case-insensitive) wins; otherwise the
// first candidate.
func (c *Client) Geocode(ctx context.Context, city, country, lang string) (domain.Location, error) {
	city, country = splitCityCountry(city, country)

	results, err := c.geocode(ctx, city, lang, geocodeCount)
	if err != nil {
		return domain.Location{}, err
	}
	if len(results) == 0 {
		return domain.Location{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, city)
	}

	if country != "" {
		want := strings.ToLower(country)
		for _, r := range results {
			if r.Country != "" && strings.Contains(strings.ToLower(r.Country), want) {
				return r, nil
			}
		}
	}
	return results[0], nil
}

// FetchWeather returns seven days of hourly history and seven days of
// forecast around the current hour.
func (c *Client) FetchWeather(ctx context.Context, lat, lon float64) (domain.WeatherSeries, error) {
	params := coordinates(lat, lon)
	params.Set("hourly", hourlyFields)
	params.Set("past_days", "7")
	params.Set("forecast_days", "7")
	params.Set("timezone", "auto")

	var raw domain.RawWeather
	if err := c.getJSON(ctx, endpointForecast, c.endpoints.Forecast, params, &raw); err != nil {
		return domain.WeatherSeries{}, err
	}
	c.observe(endpointForecast, "success")
	return domain.NewWeatherSeries(raw), nil
}

// FetchFlood returns the nearest gauge's daily discharge, or nil when no
// gauge covers the location.
func (c *Client) FetchFlood(ctx context.Context, lat, lon float64) (*domain.FloodSeries, error) {
	params := coordinates(lat, lon)
	params.Set("daily", dailyFields)
	params.Set("past_days", "3")
	params.Set("forecast_days", "7")

	var raw domain.RawFlood
	if err := c.getJSON(ctx, endpointFlood, c.endpoints.Flood, params, &raw); err != nil {
		return nil, err
	}

	series := domain.NewFloodSeries(raw)
	if series == nil {
		c.observe(endpointFlood, "empty")
		c.logger.Debug("no river gauge near location", "latitude", lat, "longitude", lon)
		return nil, nil
	}
	c.observe(endpointFlood, "success")
	return series, nil
}

func (c *Client) geocode(ctx context.Context, name, lang string, count int) ([]domain.Location, error) {
	params := url.Values{
		"name":     {name},
		"count":    {strconv.Itoa(count)},
		"language": {lang},
		"format":   {"json"},
	}

	var resp geocodingResponse
	if err := c.getJSON(ctx, endpointGeocoding, c.endpoints.Geocoding, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		c.observe(endpointGeocoding, "empty")
		return []domain.Location{}, nil
	}
	c.observe(endpointGeocoding, "success")

	out := make([]domain.Location, len(resp.Results))
	for i, r := range resp.Results {
		out[i] = r.location()
	}
	return out, nil
}

// getJSON issues a GET and decodes a 200 response into v. Any other status
// is an error carrying the response body.
func (c *Client) getJSON(ctx context.Context, endpoint, base string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		c.observe(endpoint, "error")
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.observe(endpoint, "error")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("open-meteo %s API error: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		c.observe(endpoint, "error")
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) observe(endpoint, outcome string) {
	if c.metrics != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	}
}

func coordinates(lat, lon float64) url.Values {
	return url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
}

// splitCityCountry separates "Porto Alegre, Brazil" into its parts when no
// country was given. The last comma-separated part is the country.
func splitCityCountry(city, country string) (string, string) {
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)
	if country != "" || !strings.Contains(city, ",") {
		return city, country
	}
	parts := strings.Split(city, ",")
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[len(parts)-1])
}

// Open-Meteo geocoding response types.

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
	Timezone  string  `json:"timezone"`
}

func (r geocodingResult) location() domain.Location {
	return domain.Location{
		ID:        r.ID,
		Name:      r.Name,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Country:   r.Country,
		Admin1:    r.Admin1,
		Timezone:  r.Timezone,
	}
}
