// Package strava implements domain.ActivitySource against the Strava v3 API
// using the standard OAuth2 refresh-token flow.
package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/couchcryptid/surf-session-etl/internal/config"
	"github.com/couchcryptid/surf-session-etl/internal/domain"
	"github.com/couchcryptid/surf-session-etl/internal/observability"
)

const (
	defaultBaseURL = "https://www.strava.com/api/v3"
	authorizeURL   = "https://www.strava.com/oauth/authorize"
	tokenURL       = "https://www.strava.com/oauth/token"
)

// Client fetches activities from the Strava API. It implements
// domain.ActivitySource.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authURL    string
	perPage    int
	authorized bool
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient builds a Strava client from config. A missing refresh token does
// not fail construction; the first call returns an AuthorizationError
// carrying the manual authorization URL instead, so the failure lands in the
// run log with its recovery step.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.StravaClientID,
		ClientSecret: cfg.StravaClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authorizeURL,
			TokenURL: tokenURL,
		},
		Scopes: []string{"activity:read_all"},
	}

	c := &Client{
		baseURL: defaultBaseURL,
		authURL: oauthCfg.AuthCodeURL("", oauth2.AccessTypeOffline),
		perPage: cfg.PerPage,
		logger:  logger,
		metrics: metrics,
	}

	if cfg.StravaRefreshToken == "" {
		c.httpClient = &http.Client{Timeout: cfg.StravaTimeout}
		return c
	}

	base := &http.Client{Timeout: cfg.StravaTimeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	source := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.StravaRefreshToken})

	c.httpClient = oauth2.NewClient(ctx, source)
	c.authorized = true
	return c
}

// ListActivities pages through athlete/activities until a short page,
// returning every activity after the given unix timestamp.
func (c *Client) ListActivities(ctx context.Context, afterUnix int64) ([]domain.Activity, error) {
	if !c.authorized {
		return nil, &domain.AuthorizationError{AuthURL: c.authURL}
	}

	var items []domain.Activity
	for page := 1; ; page++ {
		params := url.Values{
			"after":    {fmt.Sprintf("%d", afterUnix)},
			"per_page": {fmt.Sprintf("%d", c.perPage)},
			"page":     {fmt.Sprintf("%d", page)},
		}

		var result []domain.Activity
		if err := c.getJSON(ctx, "/athlete/activities?"+params.Encode(), &result); err != nil {
			return nil, err
		}

		items = append(items, result...)
		c.logger.Debug("fetched activity page", "page", page, "count", len(result))

		if len(result) < c.perPage {
			return items, nil
		}
	}
}

// ActivityDetail fetches the single-record detail for one activity.
func (c *Client) ActivityDetail(ctx context.Context, id int64) (domain.ActivityDetail, error) {
	if !c.authorized {
		return domain.ActivityDetail{}, &domain.AuthorizationError{AuthURL: c.authURL}
	}

	var detail domain.ActivityDetail
	path := fmt.Sprintf("/activities/%d?include_all_efforts=true", id)
	if err := c.getJSON(ctx, path, &detail); err != nil {
		return domain.ActivityDetail{}, err
	}
	return detail, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ExternalRequests.WithLabelValues("strava", "error").Inc()
		// A refresh failure surfaces as an oauth2 retrieve error wrapped in
		// the transport error; that is an authorization problem, not a
		// transient network one.
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return &domain.AuthorizationError{AuthURL: c.authURL}
		}
		return fmt.Errorf("strava request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.metrics.ExternalRequests.WithLabelValues("strava", "error").Inc()
		return &domain.AuthorizationError{AuthURL: c.authURL}
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.ExternalRequests.WithLabelValues("strava", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("strava API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.ExternalRequests.WithLabelValues("strava", "error").Inc()
		return fmt.Errorf("decode response: %w", err)
	}

	c.metrics.ExternalRequests.WithLabelValues("strava", "success").Inc()
	return nil
}
