package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/couchcryptid/surf-session-etl/internal/domain"
	"github.com/couchcryptid/surf-session-etl/internal/observability"
)

// CachedSource wraps an ActivitySource with a short-lived response cache for
// detail fetches. The content stage re-fetches every session on every run;
// the cache keeps back-to-back runs (or a run restarted after a partial
// failure) from hammering the detail endpoint. List calls are never cached —
// ingestion must always see fresh data.
type CachedSource struct {
	inner   domain.ActivitySource
	cache   domain.Cache
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around an activity source.
func NewCachedSource(inner domain.ActivitySource, cache domain.Cache, ttl time.Duration, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{inner: inner, cache: cache, ttl: ttl, metrics: metrics}
}

func (c *CachedSource) ListActivities(ctx context.Context, afterUnix int64) ([]domain.Activity, error) {
	return c.inner.ListActivities(ctx, afterUnix)
}

func (c *CachedSource) ActivityDetail(ctx context.Context, id int64) (domain.ActivityDetail, error) {
	key := fmt.Sprintf("activities/%d?include_all_efforts", id)
	if raw, ok := c.cache.Get(key); ok {
		var detail domain.ActivityDetail
		if err := json.Unmarshal(raw, &detail); err == nil {
			c.metrics.CacheLookups.WithLabelValues("content", "hit").Inc()
			return detail, nil
		}
	}
	c.metrics.CacheLookups.WithLabelValues("content", "miss").Inc()

	detail, err := c.inner.ActivityDetail(ctx, id)
	if err != nil {
		return detail, err
	}
	if raw, err := json.Marshal(detail); err == nil {
		c.cache.Put(key, raw, c.ttl)
	}
	return detail, nil
}
