package openmeteo

import (
	"context"
	"strings"

	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lru.Cache[string, domain.Location]
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder. metrics may be nil.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	cache, err := lru.New[string, domain.Location](max(maxEntries, 1))
	if err != nil {
		// Only returned for a non-positive size, which max rules out.
		panic(err)
	}
	return &CachedGeocoder{inner: inner, cache: cache, metrics: metrics}
}

// Geocode returns a cached location or delegates to the wrapped geocoder.
// Errors, including not-found, are never cached.
func (c *CachedGeocoder) Geocode(ctx context.Context, city, country, lang string) (domain.Location, error) {
	key := cacheKey(city, country, lang)
	if loc, ok := c.cache.Get(key); ok {
		c.observe("hit")
		return loc, nil
	}
	c.observe("miss")

	loc, err := c.inner.Geocode(ctx, city, country, lang)
	if err != nil {
		return loc, err
	}
	c.cache.Add(key, loc)
	return loc, nil
}

// Len reports the number of cached locations.
func (c *CachedGeocoder) Len() int {
	return c.cache.Len()
}

func (c *CachedGeocoder) observe(result string) {
	if c.metrics != nil {
		c.metrics.GeocodeCache.WithLabelValues(result).Inc()
	}
}

func cacheKey(city, country, lang string) string {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return norm(city) + "|" + norm(country) + "|" + norm(lang)
}
