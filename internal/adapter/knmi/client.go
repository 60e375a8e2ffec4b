// Package knmi implements domain.WeatherSource against the KNMI hourly
// observation service (uurgegevens). The service takes a form-encoded POST
// and answers with a plain-text feed of '#'-commented header lines followed
// by comma-separated hourly records.
package knmi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/surf-session-etl/internal/domain"
	"github.com/couchcryptid/surf-session-etl/internal/observability"
)

const defaultBaseURL = "https://www.daggegevens.knmi.nl/klimatologie/uurgegevens"

// Client fetches raw hourly observation feeds. It implements
// domain.WeatherSource.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a KNMI observation client.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		logger:     logger,
		metrics:    metrics,
	}
}

// HourlyObservations fetches the raw feed for one station and window. All
// variables are requested; the caller decides which columns to aggregate.
func (c *Client) HourlyObservations(ctx context.Context, w domain.Window, station int) (string, error) {
	form := url.Values{
		"start": {w.Start},
		"end":   {w.End},
		"vars":  {"ALL"},
		"stns":  {strconv.Itoa(station)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ExternalRequests.WithLabelValues("knmi", "error").Inc()
		return "", fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ExternalRequests.WithLabelValues("knmi", "error").Inc()
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.metrics.ExternalRequests.WithLabelValues("knmi", "error").Inc()
		return "", fmt.Errorf("KNMI API error: status %d: %s", resp.StatusCode, body)
	}

	c.metrics.ExternalRequests.WithLabelValues("knmi", "success").Inc()
	c.logger.Debug("fetched observations", "station", station, "start", w.Start, "end", w.End, "bytes", len(body))
	return string(body), nil
}
