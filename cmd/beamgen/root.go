package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chazu/precast/internal/app"
	"github.com/chazu/precast/pkg/config"
)

var (
	logLevel string
	envFile  string

	// cfg is loaded before any subcommand runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "beamgen",
	Short: "Parametric precast bridge beam generator",
	Long: `beamgen - parametric precast bridge beam generator

Reads a flat set of section dimensions, material grades and reinforcement
parameters and produces the concrete solid, two rows of hooked projecting
bars and the dimension handles of a precast bridge beam.

Parameter files are YAML, or Lisp scripts (.lisp, .zy) built around a
(beam :length ... ) form.

Configuration is read from .env and the environment:
  BEAMGEN_LOG_LEVEL   log level (default info)
  BEAMGEN_MESH_CELLS  marching-cubes resolution (default 200)
  BEAMGEN_COLOR, BEAMGEN_LAYER, BEAMGEN_PEN
                      display attributes of the beam solid`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		c, err := config.Load(files...)
		if err != nil {
			return err
		}
		if logLevel != "" {
			lvl, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			c.LogLevel = lvl
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(c.LogLevel)
		cfg = c
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides BEAMGEN_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Read configuration from this file instead of .env")
}

// newApp builds the pipeline from the loaded configuration.
func newApp() *app.App {
	return app.New(cfg, log.Logger)
}

// output opens path for writing, or returns stdout for "" and "-".
func output(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
