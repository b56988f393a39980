package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/scenario"
	"github.com/spf13/cobra"
)

func newScenarioCmd() *cobra.Command {
	var (
		dir string
		now string
	)

	cmd := &cobra.Command{
		Use:   "scenario [name]",
		Short: "List scenarios or write Open-Meteo fixtures for one",
		Long: `Without a name, list the available scenarios.

With a name, write <name>-weather.json and <name>-flood.json in the shape of
the Open-Meteo forecast and flood APIs, centered on --now. The files can be
fed back to "floodrisk analyze".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range scenario.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			at := domain.Now()
			if now != "" {
				var err error
				if at, err = time.Parse(time.RFC3339, now); err != nil {
					return fmt.Errorf("invalid --now %q: want RFC3339", now)
				}
			}

			name := args[0]
			weather, flood, err := scenario.Raw(name, at)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			files := []fixture{{filepath.Join(dir, name+"-weather.json"), weather}}
			if flood != nil {
				files = append(files, fixture{filepath.Join(dir, name+"-flood.json"), flood})
			}

			for _, f := range files {
				if err := writeJSONFile(f.path, f.v); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), f.path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().StringVar(&now, "now", "", "instant the fixtures are centered on, RFC3339 (default: current time)")

	return cmd
}

type fixture struct {
	path string
	v    any
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeJSON(f, v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
