// Package staticdata fetches the monitoring definitions (geofences, vehicles,
// and the risk configuration) from a static data directory served over HTTP,
// in production the tracker repo's data/ directory.
package staticdata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/polodad/clima-tracker-service/internal/domain"
)

// Client implements the evaluator's data source.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a data client. baseURL points at the directory holding
// config.json, geofences.geojson, and vehicles.json.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// RiskConfig fetches the global alerting thresholds.
func (c *Client) RiskConfig(ctx context.Context) (domain.RiskConfig, error) {
	body, err := c.fetch(ctx, "config.json")
	if err != nil {
		return domain.RiskConfig{}, err
	}
	defer body.Close()
	return DecodeRiskConfig(body)
}

// Geofences fetches the monitored zone set.
func (c *Client) Geofences(ctx context.Context) ([]domain.Geofence, error) {
	body, err := c.fetch(ctx, "geofences.geojson")
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return DecodeGeofences(body)
}

// Vehicles fetches the current fleet snapshot.
func (c *Client) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	body, err := c.fetch(ctx, "vehicles.json")
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return DecodeVehicles(body)
}

func (c *Client) fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+name, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d: %s", name, resp.StatusCode, body)
	}
	return resp.Body, nil
}
