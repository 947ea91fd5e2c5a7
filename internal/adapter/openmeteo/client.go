// Package openmeteo fetches hourly precipitation forecasts from the
// Open-Meteo API as typed domain records.
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
	"time"

	"github.com/polodad/clima-tracker-service/internal/domain"
)

// forecastHours is the horizon requested from the API. The evaluator only
// inspects the first few samples but the full horizon is cheap to carry.
const forecastHours = 12

// hourLayout is Open-Meteo's ISO 8601 time format (no zone suffix; the
// request pins timezone=UTC).
const hourLayout = "2006-01-02T15:04"

// Client implements the evaluator's forecast source against Open-Meteo.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client. baseURL is the forecast endpoint,
// e.g. "https://api.open-meteo.com/v1/forecast".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Forecast returns the hourly forecast at (lat, lng), soonest hour first.
func (c *Client) Forecast(ctx context.Context, lat, lng float64) ([]domain.ForecastSample, error) {
	params := url.Values{
		"latitude":       {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":      {strconv.FormatFloat(lng, 'f', -1, 64)},
		"hourly":         {"precipitation,precipitation_probability"},
		"forecast_hours": {strconv.Itoa(forecastHours)},
		"timezone":       {"UTC"},
	}

	var payload forecastResponse
	if err := c.get(ctx, c.baseURL+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}
	return payload.Hourly.toSamples()
}

// Current returns the current-conditions sample at (lat, lng).
func (c *Client) Current(ctx context.Context, lat, lng float64) (domain.ForecastSample, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lng, 'f', -1, 64)},
		"current":   {"precipitation,precipitation_probability"},
		"timezone":  {"UTC"},
	}

	var payload currentResponse
	if err := c.get(ctx, c.baseURL+"?"+params.Encode(), &payload); err != nil {
		return domain.ForecastSample{}, err
	}

	t, err := time.Parse(hourLayout, payload.Current.Time)
	if err != nil {
		return domain.ForecastSample{}, fmt.Errorf("open-meteo current time %q: %w", payload.Current.Time, err)
	}
	return domain.ForecastSample{
		Time:          t,
		Precipitation: payload.Current.Precipitation,
		Probability:   payload.Current.Probability,
	}, nil
}

func (c *Client) get(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("open-meteo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode open-meteo response: %w", err)
	}
	return nil
}

// Open-Meteo API response types. Hourly data arrives as parallel column
// arrays; a length mismatch means a schema change upstream and is rejected.

type forecastResponse struct {
	Hourly hourlyColumns `json:"hourly"`
}

type hourlyColumns struct {
	Time          []string  `json:"time"`
	Precipitation []float64 `json:"precipitation"`
	Probability   []float64 `json:"precipitation_probability"`
}

type currentResponse struct {
	Current struct {
		Time          string  `json:"time"`
		Precipitation float64 `json:"precipitation"`
		Probability   float64 `json:"precipitation_probability"`
	} `json:"current"`
}

func (h hourlyColumns) toSamples() ([]domain.ForecastSample, error) {
	n := len(h.Time)
	if n == 0 {
		return nil, fmt.Errorf("open-meteo response has no hourly samples")
	}
	if len(h.Precipitation) != n || len(h.Probability) != n {
		return nil, fmt.Errorf("open-meteo column length mismatch: time=%d precipitation=%d probability=%d",
			n, len(h.Precipitation), len(h.Probability))
	}

	samples := make([]domain.ForecastSample, n)
	for i := 0; i < n; i++ {
		t, err := time.Parse(hourLayout, h.Time[i])
		if err != nil {
			return nil, fmt.Errorf("open-meteo hourly time %q: %w", h.Time[i], err)
		}
		samples[i] = domain.ForecastSample{
			Time:          t,
			Precipitation: h.Precipitation[i],
			Probability:   h.Probability[i],
		}
	}
	return samples, nil
}
