package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/floodwatch/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/floodwatch/internal/adapter/kafka"
	"github.com/couchcryptid/floodwatch/internal/adapter/openmeteo"
	"github.com/couchcryptid/floodwatch/internal/assess"
	"github.com/couchcryptid/floodwatch/internal/config"
	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/observability"
	"github.com/couchcryptid/floodwatch/internal/pipeline"
	"github.com/couchcryptid/floodwatch/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := openmeteo.NewClient(openmeteo.Endpoints{
		Geocoding: cfg.OpenMeteoGeocodingURL,
		Forecast:  cfg.OpenMeteoForecastURL,
		Flood:     cfg.OpenMeteoFloodURL,
	}, cfg.OpenMeteoTimeout, logger, metrics)
	geocoder := openmeteo.NewCachedGeocoder(client, cfg.OpenMeteoCacheSize, metrics)
	logger.Info("open-meteo client configured",
		"timeout", cfg.OpenMeteoTimeout,
		"cache_size", cfg.OpenMeteoCacheSize,
		"default_language", cfg.DefaultLanguage,
		"strict_river_date", cfg.StrictRiverDate,
	)

	service := assess.New(geocoder, client, client, assess.Settings{
		DefaultLanguage: cfg.DefaultLanguage,
		StrictRiverDate: cfg.StrictRiverDate,
	}, logger, metrics)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(service)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	api := httpadapter.NewAPI(service, client, cfg.DefaultLanguage, domain.Options{StrictRiverDate: cfg.StrictRiverDate}, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, api, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start assessment pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	var watcher *watch.Watcher
	if len(cfg.WatchLocations) > 0 {
		watcher = watch.New(cfg.WatchLocations, service, writer, logger, metrics)
		if err := watcher.Start(ctx, cfg.WatchSchedule); err != nil {
			logger.Error("watchlist disabled", "error", err)
			watcher = nil
		}
	} else {
		logger.Info("watchlist disabled")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if watcher != nil {
		watcher.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
