// Package config loads process configuration from an optional .env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/chazu/precast/pkg/beam"
)

// Environment variable names.
const (
	EnvLogLevel  = "BEAMGEN_LOG_LEVEL"
	EnvMeshCells = "BEAMGEN_MESH_CELLS"
	EnvColor     = "BEAMGEN_COLOR"
	EnvLayer     = "BEAMGEN_LAYER"
	EnvPen       = "BEAMGEN_PEN"
)

// DefaultMeshCells is the marching-cubes resolution along the longest side.
const DefaultMeshCells = 200

// Config is the process configuration.
type Config struct {
	LogLevel   zerolog.Level
	MeshCells  int
	Properties beam.CommonProperties
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel:   zerolog.InfoLevel,
		MeshCells:  DefaultMeshCells,
		Properties: beam.DefaultProperties,
	}
}

// Load reads the given .env files (".env" when none are named) into the
// environment, then builds the configuration from it. Missing files are
// ignored; variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from the environment.
func FromEnv() (Config, error) {
	c := Default()
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		lvl, err := zerolog.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvLogLevel, err)
		}
		c.LogLevel = lvl
	}
	if err := positiveInt(EnvMeshCells, &c.MeshCells); err != nil {
		return Config{}, err
	}
	if err := positiveInt(EnvColor, &c.Properties.Color); err != nil {
		return Config{}, err
	}
	if err := positiveInt(EnvPen, &c.Properties.Pen); err != nil {
		return Config{}, err
	}
	if v, ok := os.LookupEnv(EnvLayer); ok && v != "" {
		c.Properties.Layer = v
	}
	return c, nil
}

func positiveInt(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", name, err)
	}
	if n <= 0 {
		return fmt.Errorf("config: %s must be positive, got %d", name, n)
	}
	*dst = n
	return nil
}
