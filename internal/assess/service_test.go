package assess_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/floodwatch/internal/assess"
	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/locale"
	"github.com/couchcryptid/floodwatch/internal/observability"
	"github.com/couchcryptid/floodwatch/internal/scenario"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

// --- mocks ---

type stubGeocoder struct {
	loc   domain.Location
	err   error
	calls atomic.Int32
	lang  string
}

func (s *stubGeocoder) Geocode(_ context.Context, _, _, lang string) (domain.Location, error) {
	s.calls.Add(1)
	s.lang = lang
	return s.loc, s.err
}

type failingWeather struct{}

func (failingWeather) FetchWeather(context.Context, float64, float64) (domain.WeatherSeries, error) {
	return domain.WeatherSeries{}, errors.New("forecast API down")
}

type failingFlood struct{}

func (failingFlood) FetchFlood(context.Context, float64, float64) (*domain.FloodSeries, error) {
	return nil, errors.New("flood API down")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(testNow))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func provider(name string) scenario.Provider {
	return scenario.Provider{Name: name, Now: func() time.Time { return testNow }}
}

func coords(lat, lon float64) (*float64, *float64) { return &lat, &lon }

// --- tests ---

func TestService_Assess_Coordinates(t *testing.T) {
	freezeClock(t)
	geo := &stubGeocoder{}
	metrics := observability.NewMetricsForTesting()
	p := provider(scenario.DryWeatherFlood)
	svc := assess.New(geo, p, p, assess.Settings{}, discardLogger(), metrics)

	lat, lon := coords(-30.03, -51.23)
	a, err := svc.Assess(context.Background(), domain.AssessmentRequest{ID: "r1", Latitude: lat, Longitude: lon}, assess.SourceHTTP)
	require.NoError(t, err)

	assert.Equal(t, "r1", a.ID)
	assert.Zero(t, geo.calls.Load())
	assert.True(t, a.HasRiverGauge)
	assert.Equal(t, testNow, a.AssessedAt)
	assert.Equal(t, domain.LevelHigh, a.Analysis.Level)
	assert.Equal(t, locale.English, a.Analysis.Language)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.Assessments.WithLabelValues(assess.SourceHTTP, "High")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.RiverGauge.WithLabelValues("present")), 1e-9)
}

func TestService_Assess_GeocodesCity(t *testing.T) {
	freezeClock(t)
	geo := &stubGeocoder{loc: domain.Location{Name: "Porto Alegre", Latitude: -30.03, Longitude: -51.23, Country: "Brasil"}}
	p := provider(scenario.Storm)
	svc := assess.New(geo, p, p, assess.Settings{DefaultLanguage: locale.Portuguese}, discardLogger(), nil)

	a, err := svc.Assess(context.Background(), domain.AssessmentRequest{ID: "r2", City: "Porto Alegre"}, assess.SourceKafka)
	require.NoError(t, err)

	assert.Equal(t, "Porto Alegre", a.Location.Name)
	assert.Equal(t, int32(1), geo.calls.Load())
	assert.Equal(t, domain.LevelCritical, a.Analysis.Level)
	assert.Equal(t, locale.Portuguese, a.Analysis.Language, "default language applies when the request has none")
	assert.False(t, a.HasRiverGauge)
}

func TestService_Assess_GeocoderGetsNormalizedLanguage(t *testing.T) {
	freezeClock(t)
	p := provider(scenario.Stable)

	tests := []struct {
		name     string
		request  string
		fallback locale.Language
		expected string
	}{
		{"regional tag", "pt-BR", locale.English, "pt"},
		{"unknown tag", "de", locale.Spanish, "en"},
		{"no tag uses default", "", locale.Spanish, "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := &stubGeocoder{loc: domain.Location{Name: "Recife"}}
			svc := assess.New(geo, p, p, assess.Settings{DefaultLanguage: tt.fallback}, discardLogger(), nil)

			a, err := svc.Assess(context.Background(), domain.AssessmentRequest{City: "Recife", Language: tt.request}, assess.SourceHTTP)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, geo.lang)
			assert.Equal(t, tt.expected, string(a.Analysis.Language))
		})
	}
}

func TestService_Assess_RequestLanguageWins(t *testing.T) {
	freezeClock(t)
	p := provider(scenario.Stable)
	svc := assess.New(nil, p, p, assess.Settings{DefaultLanguage: locale.Portuguese}, discardLogger(), nil)

	lat, lon := coords(0, 0)
	a, err := svc.Assess(context.Background(), domain.AssessmentRequest{Latitude: lat, Longitude: lon, Language: "es"}, assess.SourceHTTP)
	require.NoError(t, err)

	assert.Equal(t, locale.Spanish, a.Analysis.Language)
	assert.Equal(t, []string{"Las condiciones parecen estables."}, a.Analysis.Factors)
}

func TestService_Assess_GeocodeFailure(t *testing.T) {
	geo := &stubGeocoder{err: domain.ErrLocationNotFound}
	p := provider(scenario.Stable)
	svc := assess.New(geo, p, p, assess.Settings{}, discardLogger(), nil)

	_, err := svc.Assess(context.Background(), domain.AssessmentRequest{City: "Atlantis"}, assess.SourceHTTP)
	require.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestService_Assess_WeatherFailureFails(t *testing.T) {
	svc := assess.New(nil, failingWeather{}, provider(scenario.DryWeatherFlood), assess.Settings{}, discardLogger(), nil)

	lat, lon := coords(0, 0)
	_, err := svc.Assess(context.Background(), domain.AssessmentRequest{Latitude: lat, Longitude: lon}, assess.SourceHTTP)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch weather")
}

func TestService_Assess_FloodFailureDegrades(t *testing.T) {
	freezeClock(t)
	svc := assess.New(nil, provider(scenario.DryWeatherFlood), failingFlood{}, assess.Settings{}, discardLogger(), nil)

	lat, lon := coords(0, 0)
	a, err := svc.Assess(context.Background(), domain.AssessmentRequest{Latitude: lat, Longitude: lon}, assess.SourceHTTP)
	require.NoError(t, err)

	assert.False(t, a.HasRiverGauge)
	assert.Nil(t, a.Analysis.RiverDischargeCurrent)
	assert.Equal(t, domain.LevelLow, a.Analysis.Level, "without the river the dry scenario is low risk")
}

func TestService_Assess_NilFloodProvider(t *testing.T) {
	freezeClock(t)
	svc := assess.New(nil, provider(scenario.Stable), nil, assess.Settings{}, discardLogger(), nil)

	lat, lon := coords(0, 0)
	a, err := svc.Assess(context.Background(), domain.AssessmentRequest{Latitude: lat, Longitude: lon}, assess.SourceCLI)
	require.NoError(t, err)
	assert.False(t, a.HasRiverGauge)
}

func TestService_Assess_InvalidRequest(t *testing.T) {
	p := provider(scenario.Stable)
	svc := assess.New(nil, p, p, assess.Settings{}, discardLogger(), nil)

	_, err := svc.Assess(context.Background(), domain.AssessmentRequest{}, assess.SourceHTTP)
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestService_Assess_StrictRiverDate(t *testing.T) {
	freezeClock(t)
	// Scenario data is built for a different day than the clock.
	stale := scenario.Provider{Name: scenario.DryWeatherFlood, Now: func() time.Time { return testNow.AddDate(0, -1, 0) }}
	lat, lon := coords(0, 0)
	req := domain.AssessmentRequest{Latitude: lat, Longitude: lon}

	lenient := assess.New(nil, provider(scenario.Stable), stale, assess.Settings{}, discardLogger(), nil)
	strict := assess.New(nil, provider(scenario.Stable), stale, assess.Settings{StrictRiverDate: true}, discardLogger(), nil)

	a, err := lenient.Assess(context.Background(), req, assess.SourceHTTP)
	require.NoError(t, err)
	assert.NotNil(t, a.Analysis.RiverDischargeCurrent)

	b, err := strict.Assess(context.Background(), req, assess.SourceHTTP)
	require.NoError(t, err)
	assert.Nil(t, b.Analysis.RiverDischargeCurrent)
}
