package main

import (
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/locale"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	weatherFile string
	floodFile   string
	lang        string
	now         string
	strict      bool
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score saved Open-Meteo forecast and flood responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			now := domain.Now()
			if opts.now != "" {
				if now, err = time.Parse(time.RFC3339, opts.now); err != nil {
					return fmt.Errorf("invalid --now %q: want RFC3339", opts.now)
				}
			}

			data, err := os.ReadFile(opts.weatherFile)
			if err != nil {
				return fmt.Errorf("read weather file: %w", err)
			}
			weather, err := domain.ParseWeather(data)
			if err != nil {
				return err
			}

			var flood *domain.FloodSeries
			if opts.floodFile != "" {
				data, err := os.ReadFile(opts.floodFile)
				if err != nil {
					return fmt.Errorf("read flood file: %w", err)
				}
				if flood, err = domain.ParseFlood(data); err != nil {
					return err
				}
			}

			options := domain.Options{StrictRiverDate: opts.strict}
			analysis := options.Analyze(weather, flood, locale.Parse(opts.lang), now)
			logger.Debug("analysis complete",
				"hours", weather.Len(),
				"river_gauge", flood != nil,
				"score", analysis.Score,
				"level", analysis.Level,
			)
			return writeJSON(cmd.OutOrStdout(), analysis)
		},
	}

	cmd.Flags().StringVar(&opts.weatherFile, "weather", "", "Open-Meteo forecast response (JSON file)")
	cmd.Flags().StringVar(&opts.floodFile, "flood", "", "Open-Meteo flood response (JSON file, optional)")
	cmd.Flags().StringVar(&opts.lang, "lang", string(locale.Default), "language for factors and recommendations (en, pt, es)")
	cmd.Flags().StringVar(&opts.now, "now", "", "evaluation instant, RFC3339 (default: current time)")
	cmd.Flags().BoolVar(&opts.strict, "strict-river-date", false, "ignore river data when no row matches today")
	_ = cmd.MarkFlagRequired("weather")

	return cmd
}
