package main

import (
	"fmt"
	"time"

	"github.com/couchcryptid/floodwatch/internal/adapter/openmeteo"
	"github.com/couchcryptid/floodwatch/internal/assess"
	"github.com/couchcryptid/floodwatch/internal/config"
	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/locale"
	"github.com/couchcryptid/floodwatch/internal/scenario"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type assessOptions struct {
	city     string
	country  string
	lat      float64
	lon      float64
	lang     string
	timeout  time.Duration
	scenario string
	strict   bool
}

func newAssessCmd(root *rootOptions) *cobra.Command {
	opts := &assessOptions{}

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess a city or coordinates against Open-Meteo",
		Long: `Assess a city or coordinates against Open-Meteo.

With --scenario, forecasts and river data come from the named synthetic
scenario instead of the network; a city still needs geocoding unless
--lat and --lon are given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			req := domain.AssessmentRequest{
				ID:       uuid.NewString(),
				City:     opts.city,
				Country:  opts.country,
				Language: opts.lang,
			}
			if cmd.Flags().Changed("lat") {
				req.Latitude = &opts.lat
			}
			if cmd.Flags().Changed("lon") {
				req.Longitude = &opts.lon
			}

			client := openmeteo.NewClient(openmeteo.Endpoints{
				Geocoding: config.DefaultGeocodingURL,
				Forecast:  config.DefaultForecastURL,
				Flood:     config.DefaultFloodURL,
			}, opts.timeout, logger, nil)

			var (
				weather domain.WeatherProvider = client
				flood   domain.FloodProvider   = client
			)
			if opts.scenario != "" {
				if _, _, err := scenario.Raw(opts.scenario, domain.Now()); err != nil {
					return err
				}
				p := scenario.Provider{Name: opts.scenario}
				weather, flood = p, p
			}

			service := assess.New(client, weather, flood, assess.Settings{
				DefaultLanguage: locale.Default,
				StrictRiverDate: opts.strict,
			}, logger, nil)

			a, err := service.Assess(cmd.Context(), req, assess.SourceCLI)
			if err != nil {
				return fmt.Errorf("assess: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), a)
		},
	}

	cmd.Flags().StringVar(&opts.city, "city", "", "city name, optionally \"city, country\"")
	cmd.Flags().StringVar(&opts.country, "country", "", "country used to disambiguate the city")
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "longitude in decimal degrees")
	cmd.Flags().StringVar(&opts.lang, "lang", string(locale.Default), "language for factors and recommendations (en, pt, es)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request Open-Meteo timeout")
	cmd.Flags().StringVar(&opts.scenario, "scenario", "", fmt.Sprintf("use a synthetic scenario instead of live forecasts %v", scenario.Names()))
	cmd.Flags().BoolVar(&opts.strict, "strict-river-date", false, "ignore river data when no row matches today")
	cmd.MarkFlagsRequiredTogether("lat", "lon")

	return cmd
}
