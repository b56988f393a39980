package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/floodwatch/internal/locale"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/robfig/cron/v3"
)

// Open-Meteo public endpoints.
const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
	DefaultFloodURL     = "https://flood-api.open-meteo.com/v1/flood"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Open-Meteo client configuration.
	OpenMeteoTimeout      time.Duration
	OpenMeteoCacheSize    int
	OpenMeteoGeocodingURL string
	OpenMeteoForecastURL  string
	OpenMeteoFloodURL     string

	// Scoring.
	DefaultLanguage locale.Language
	StrictRiverDate bool

	// Scheduled watchlist; empty disables it.
	WatchLocations []WatchLocation
	WatchSchedule  string
}

// WatchLocation is one city scored on the watch schedule.
type WatchLocation struct {
	City    string
	Country string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("OPENMETEO_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid OPENMETEO_TIMEOUT")
	}

	cacheSize, err := parseCacheSize()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	lang := sharedcfg.EnvOrDefault("DEFAULT_LANGUAGE", string(locale.Default))
	if !locale.IsSupported(lang) {
		return nil, fmt.Errorf("invalid DEFAULT_LANGUAGE %q: supported are %v", lang, locale.Supported())
	}

	strict, err := parseBool("RIVER_STRICT_DATE", false)
	if err != nil {
		return nil, err
	}

	watch, err := ParseWatchLocations(os.Getenv("WATCH_LOCATIONS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "flood-assessment-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "flood-risk-assessments"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "floodwatch"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		OpenMeteoTimeout:      timeout,
		OpenMeteoCacheSize:    cacheSize,
		OpenMeteoGeocodingURL: sharedcfg.EnvOrDefault("OPENMETEO_GEOCODING_URL", DefaultGeocodingURL),
		OpenMeteoForecastURL:  sharedcfg.EnvOrDefault("OPENMETEO_FORECAST_URL", DefaultForecastURL),
		OpenMeteoFloodURL:     sharedcfg.EnvOrDefault("OPENMETEO_FLOOD_URL", DefaultFloodURL),

		DefaultLanguage: locale.Parse(lang),
		StrictRiverDate: strict,

		WatchLocations: watch,
		WatchSchedule:  sharedcfg.EnvOrDefault("WATCH_SCHEDULE", "@every 30m"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	for env, raw := range map[string]string{
		"OPENMETEO_GEOCODING_URL": cfg.OpenMeteoGeocodingURL,
		"OPENMETEO_FORECAST_URL":  cfg.OpenMeteoForecastURL,
		"OPENMETEO_FLOOD_URL":     cfg.OpenMeteoFloodURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid %s: %q", env, raw)
		}
	}
	if len(cfg.WatchLocations) > 0 {
		if _, err := cron.ParseStandard(cfg.WatchSchedule); err != nil {
			return nil, fmt.Errorf("invalid WATCH_SCHEDULE: %w", err)
		}
	}

	return cfg, nil
}

// ParseWatchLocations parses "city,country" entries separated by semicolons.
// The country part is optional.
func ParseWatchLocations(s string) ([]WatchLocation, error) {
	var out []WatchLocation
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		city, country, _ := strings.Cut(entry, ",")
		city = strings.TrimSpace(city)
		if city == "" {
			return nil, fmt.Errorf("invalid WATCH_LOCATIONS entry %q: city is required", entry)
		}
		out = append(out, WatchLocation{City: city, Country: strings.TrimSpace(country)})
	}
	return out, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return b, nil
}

func parseCacheSize() (int, error) {
	s := os.Getenv("OPENMETEO_CACHE_SIZE")
	if s == "" {
		return 1000, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid OPENMETEO_CACHE_SIZE: %q", s)
	}
	return n, nil
}
