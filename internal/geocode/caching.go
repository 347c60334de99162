package geocode

import (
	"context"

	"health-tracker/internal/metrics"
)

// CachingGeocoder consults a Cache before delegating to another Geocoder.
// Only successful lookups are cached, so failures are retried next time.
type CachingGeocoder struct {
	inner Geocoder
	cache *Cache
}

// NewCachingGeocoder wraps inner with cache.
func NewCachingGeocoder(inner Geocoder, cache *Cache) *CachingGeocoder {
	return &CachingGeocoder{inner: inner, cache: cache}
}

// Lookup implements Geocoder.
func (g *CachingGeocoder) Lookup(ctx context.Context, lat, lng float64) (string, bool) {
	if name, ok := g.cache.Get(lat, lng); ok {
		metrics.GeocodeCacheTotal.WithLabelValues(metrics.CacheHit).Inc()
		return name, true
	}
	metrics.GeocodeCacheTotal.WithLabelValues(metrics.CacheMiss).Inc()

	name, ok := g.inner.Lookup(ctx, lat, lng)
	if !ok {
		return "", false
	}
	g.cache.Put(lat, lng, name)
	metrics.GeocodeCacheEntries.Set(float64(g.cache.Len()))
	return name, true
}
