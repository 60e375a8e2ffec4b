package knmi

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/surf-session-etl/internal/domain"
	"github.com/couchcryptid/surf-session-etl/internal/observability"
)

// CachedSource wraps a WeatherSource with a TTL cache keyed on the full
// request payload. Historical observations never change, but the feed for a
// recent window can still be incomplete, so entries expire instead of
// living forever.
type CachedSource struct {
	inner   domain.WeatherSource
	cache   domain.Cache
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a weather source.
func NewCachedSource(inner domain.WeatherSource, cache domain.Cache, ttl time.Duration, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{inner: inner, cache: cache, ttl: ttl, metrics: metrics}
}

func (c *CachedSource) HourlyObservations(ctx context.Context, w domain.Window, station int) (string, error) {
	key := fmt.Sprintf("start=%s&end=%s&vars=ALL&stns=%d", w.Start, w.End, station)
	if raw, ok := c.cache.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("weather", "hit").Inc()
		return string(raw), nil
	}
	c.metrics.CacheLookups.WithLabelValues("weather", "miss").Inc()

	feed, err := c.inner.HourlyObservations(ctx, w, station)
	if err != nil {
		return "", err
	}
	if feed != "" {
		c.cache.Put(key, []byte(feed), c.ttl)
	}
	return feed, nil
}
