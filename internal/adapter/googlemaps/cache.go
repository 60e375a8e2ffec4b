package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/couchcryptid/surf-session-etl/internal/domain"
	"github.com/couchcryptid/surf-session-etl/internal/observability"
)

// CachedGeocoder wraps a Geocoder with a TTL cache. Sessions at the same
// launch spot share coordinates down to the GPS jitter, so a run that
// enriches a backlog usually resolves only a handful of distinct points.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   domain.Cache
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, cache domain.Cache, ttl time.Duration, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, cache: cache, ttl: ttl, metrics: metrics}
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) ([]domain.AddressComponent, error) {
	key := fmt.Sprintf("location-for-lat-%f-lng-%f", lat, lon)
	if raw, ok := c.cache.Get(key); ok {
		var components []domain.AddressComponent
		if err := json.Unmarshal(raw, &components); err == nil {
			c.metrics.CacheLookups.WithLabelValues("geocode", "hit").Inc()
			return components, nil
		}
	}
	c.metrics.CacheLookups.WithLabelValues("geocode", "miss").Inc()

	components, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if len(components) > 0 {
		if raw, err := json.Marshal(components); err == nil {
			c.cache.Put(key, raw, c.ttl)
		}
	}
	return components, nil
}
