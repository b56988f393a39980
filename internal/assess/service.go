// Package assess scores the flood risk of a requested place: it resolves the
// location, fetches weather and river data, and runs the scorer.
package assess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/locale"
	"github.com/couchcryptid/floodwatch/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Sources label where an assessment request came from.
const (
	SourceKafka = "kafka"
	SourceHTTP  = "http"
	SourceWatch = "watch"
	SourceCLI   = "cli"
)

// Settings are the scoring defaults applied to every request.
type Settings struct {
	DefaultLanguage locale.Language
	StrictRiverDate bool
}

// Service produces assessments from requests.
type Service struct {
	geocoder domain.Geocoder
	weather  domain.WeatherProvider
	flood    domain.FloodProvider
	settings Settings
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Service. geocoder may be nil, in which case only requests
// with coordinates can be assessed. metrics may be nil.
func New(geocoder domain.Geocoder, weather domain.WeatherProvider, flood domain.FloodProvider, settings Settings, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if settings.DefaultLanguage == "" {
		settings.DefaultLanguage = locale.Default
	}
	return &Service{
		geocoder: geocoder,
		weather:  weather,
		flood:    flood,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
	}
}

// Assess resolves req to a location and scores it. A failed weather fetch
// fails the assessment; a failed flood fetch is scored as "no gauge".
func (s *Service) Assess(ctx context.Context, req domain.AssessmentRequest, source string) (domain.Assessment, error) {
	lang := s.settings.DefaultLanguage
	if req.Language != "" {
		lang = locale.Parse(req.Language)
	}
	req.Language = string(lang)

	loc, err := domain.ResolveLocation(ctx, req, s.geocoder, s.logger)
	if err != nil {
		return domain.Assessment{}, err
	}

	weather, flood, err := s.fetch(ctx, req.ID, loc)
	if err != nil {
		return domain.Assessment{}, err
	}

	a := domain.NewAssessment(domain.AssessmentInput{
		ID:       req.ID,
		Location: loc,
		Weather:  weather,
		Flood:    flood,
		Language: req.Language,
		Options:  domain.Options{StrictRiverDate: s.settings.StrictRiverDate},
	})
	s.record(source, a)

	s.logger.Info("assessment complete",
		"request_id", a.ID,
		"source", source,
		"location", loc.Name,
		"latitude", loc.Latitude,
		"longitude", loc.Longitude,
		"score", a.Analysis.Score,
		"level", a.Analysis.Level,
		"river_gauge", a.HasRiverGauge,
	)
	return a, nil
}

// fetch loads weather and flood data concurrently.
func (s *Service) fetch(ctx context.Context, id string, loc domain.Location) (domain.WeatherSeries, *domain.FloodSeries, error) {
	var (
		weather domain.WeatherSeries
		flood   *domain.FloodSeries
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := s.weather.FetchWeather(gctx, loc.Latitude, loc.Longitude)
		if err != nil {
			return fmt.Errorf("fetch weather: %w", err)
		}
		weather = w
		return nil
	})
	g.Go(func() error {
		if s.flood == nil {
			return nil
		}
		f, err := s.flood.FetchFlood(gctx, loc.Latitude, loc.Longitude)
		if err != nil {
			if gctx.Err() == nil {
				s.logger.Warn("flood data unavailable, scoring without river gauge",
					"request_id", id,
					"location", loc.Name,
					"error", err,
				)
			}
			return nil
		}
		flood = f
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.WeatherSeries{}, nil, err
	}
	return weather, flood, nil
}

func (s *Service) record(source string, a domain.Assessment) {
	if s.metrics == nil {
		return
	}
	s.metrics.Assessments.WithLabelValues(source, string(a.Analysis.Level)).Inc()
	s.metrics.RiskScore.Observe(float64(a.Analysis.Score))
	if a.HasRiverGauge {
		s.metrics.RiverGauge.WithLabelValues("present").Inc()
	} else {
		s.metrics.RiverGauge.WithLabelValues("absent").Inc()
	}
}
