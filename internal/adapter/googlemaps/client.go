// Package googlemaps implements domain.Geocoder using the Google Geocoding
// API.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/surf-session-etl/internal/domain"
	"github.com/couchcryptid/surf-session-etl/internal/observability"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Client implements domain.Geocoder against the Google Geocoding API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Google geocoding client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		logger:     logger,
		metrics:    metrics,
	}
}

// response is the subset of the geocoding payload we read. Only the first
// result's address components matter; the rest are coarser containers of the
// same place.
type response struct {
	Status  string `json:"status"`
	Results []struct {
		AddressComponents []domain.AddressComponent `json:"address_components"`
	} `json:"results"`
}

// ReverseGeocode converts coordinates to the address components of the
// nearest place. An empty slice with a nil error means the service knows
// nothing about the location.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) ([]domain.AddressComponent, error) {
	params := url.Values{
		"latlng": {fmt.Sprintf("%f,%f", lat, lon)},
		"key":    {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ExternalRequests.WithLabelValues("geocode", "error").Inc()
		return nil, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ExternalRequests.WithLabelValues("geocode", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("geocoding API error: status %d: %s", resp.StatusCode, body)
	}

	var geoResp response
	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		c.metrics.ExternalRequests.WithLabelValues("geocode", "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	switch geoResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		c.metrics.ExternalRequests.WithLabelValues("geocode", "success").Inc()
		c.logger.Debug("no geocoding result", "lat", lat, "lon", lon)
		return nil, nil
	default:
		c.metrics.ExternalRequests.WithLabelValues("geocode", "error").Inc()
		return nil, fmt.Errorf("geocoding API error: status %s", geoResp.Status)
	}

	c.metrics.ExternalRequests.WithLabelValues("geocode", "success").Inc()
	if len(geoResp.Results) == 0 {
		return nil, nil
	}
	return geoResp.Results[0].AddressComponents, nil
}
