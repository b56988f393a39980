// Command floodrisk scores flood risk from the command line: offline from
// saved Open-Meteo responses, live against the Open-Meteo APIs, or from
// synthetic scenarios.
//
// Usage:
//
//	floodrisk analyze --weather forecast.json --flood flood.json --lang pt
//	floodrisk assess --city "Porto Alegre" --country Brazil
//	floodrisk assess --lat -30.03 --lon -51.23 --scenario storm
//	floodrisk scenario storm --dir testdata
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "floodrisk",
		Short: "Flood risk scoring tool",
		Long: `Flood risk scoring from weather and river discharge data.

Examples:
  # Score saved Open-Meteo responses
  floodrisk analyze --weather forecast.json --flood flood.json

  # Assess a city against the live Open-Meteo APIs
  floodrisk assess --city Valencia --country Spain --lang es

  # Write synthetic fixtures for a named scenario
  floodrisk scenario dry-weather-flood --dir fixtures
`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newAssessCmd(opts))
	rootCmd.AddCommand(newScenarioCmd())

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd
}

// logger writes to w, normally stderr, so stdout stays parseable JSON.
func (o *rootOptions) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", o.logLevel)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(o.logFormat, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler).With("service", "floodrisk"), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
