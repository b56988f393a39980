package openmeteo

import (
	"context"
	"testing"

	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGeocoder struct {
	calls  int
	result domain.Location
	err    error
}

func (m *countingGeocoder) Geocode(_ context.Context, _, _, _ string) (domain.Location, error) {
	m.calls++
	return m.result, m.err
}

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{result: domain.Location{Name: "Recife", Latitude: -8.05, Longitude: -34.9}}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedGeocoder(inner, 10, metrics)

	r1, err := cached.Geocode(context.Background(), "Recife", "Brazil", "pt")
	require.NoError(t, err)
	r2, err := cached.Geocode(context.Background(), " recife", "BRAZIL ", "pt")
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("hit")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("miss")), 1e-9)
}

func TestCachedGeocoder_LanguageIsPartOfKey(t *testing.T) {
	inner := &countingGeocoder{result: domain.Location{Name: "Lisboa"}}
	cached := NewCachedGeocoder(inner, 10, nil)

	_, _ = cached.Geocode(context.Background(), "Lisbon", "", "en")
	_, _ = cached.Geocode(context.Background(), "Lisbon", "", "pt")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_ErrorsNotCached(t *testing.T) {
	inner := &countingGeocoder{err: domain.ErrLocationNotFound}
	cached := NewCachedGeocoder(inner, 10, nil)

	_, err := cached.Geocode(context.Background(), "Atlantis", "", "en")
	require.ErrorIs(t, err, domain.ErrLocationNotFound)
	_, err = cached.Geocode(context.Background(), "Atlantis", "", "en")
	require.ErrorIs(t, err, domain.ErrLocationNotFound)

	assert.Equal(t, 2, inner.calls)
	assert.Zero(t, cached.Len())
}

func TestCachedGeocoder_Eviction(t *testing.T) {
	inner := &countingGeocoder{result: domain.Location{Name: "Place"}}
	cached := NewCachedGeocoder(inner, 2, nil)

	for _, city := range []string{"a-town", "b-town", "c-town"} {
		_, err := cached.Geocode(context.Background(), city, "", "en")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cached.Len())

	_, _ = cached.Geocode(context.Background(), "a-town", "", "en")
	assert.Equal(t, 4, inner.calls, "least recently used entry was evicted")
}

func TestNewCachedGeocoder_NonPositiveSize(t *testing.T) {
	cached := NewCachedGeocoder(&countingGeocoder{}, 0, nil)
	_, err := cached.Geocode(context.Background(), "x", "", "en")
	require.NoError(t, err)
	assert.Equal(t, 1, cached.Len())
}
