// Package config loads the YAML configuration shared by the CLI and the
// planning service.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"rrtstar-planner/internal/rrtstar"
)

// Config is the application configuration
type Config struct {
	Server  ServerConfig   `json:"server" yaml:"server"`
	Log     LogConfig      `json:"log" yaml:"log"`
	Map     MapConfig      `json:"map" yaml:"map"`
	Planner rrtstar.Config `json:"planner" yaml:"planner"`
}

// ServerConfig controls the HTTP planning service
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gte=0"`

	// Upper bound on live planning sessions; zero means unlimited
	MaxSessions int `json:"max_sessions" yaml:"max_sessions" validate:"gte=0"`

	// Largest iteration count a single step request may ask for
	MaxStepIterations int `json:"max_step_iterations" yaml:"max_step_iterations" validate:"gt=0"`

	// Largest planner iteration budget a request may set
	MaxPlanIterations int `json:"max_plan_iterations" yaml:"max_plan_iterations" validate:"gt=0"`

	CORS bool `json:"cors" yaml:"cors"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level       string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `json:"development" yaml:"development"`
}

// MapConfig names the obstacle map. At most one of Image and GeoJSONDir may
// be set; with neither the plane is free.
type MapConfig struct {
	// Raster map; obstacle pixels are cyan unless Color is set
	Image string `json:"image" yaml:"image" validate:"excluded_with=GeoJSONDir"`

	// Obstacle colour as "#rrggbb"
	Color string `json:"color" yaml:"color" validate:"omitempty,hexcolor"`

	// Directory of GeoJSON polygon files
	GeoJSONDir string `json:"geojson_dir" yaml:"geojson_dir"`

	// Douglas-Peucker tolerance applied to GeoJSON polygons; zero disables
	SimplifyEpsilon float64 `json:"simplify_epsilon" yaml:"simplify_epsilon" validate:"gte=0"`

	// Drop polygons entirely inside another one
	RemoveContained bool `json:"remove_contained" yaml:"remove_contained"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ShutdownTimeout:   10 * time.Second,
			MaxSessions:       64,
			MaxStepIterations: 10000,
			MaxPlanIterations: 100000,
			CORS:              true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Map: MapConfig{
			RemoveContained: true,
		},
		Planner: rrtstar.DefaultConfig(),
	}
}

var validate = validator.New()

// Validate checks every section
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Planner.MaxIterations > c.Server.MaxPlanIterations {
		return fmt.Errorf("invalid config: planner.max_iterations %d exceeds server.max_plan_iterations %d",
			c.Planner.MaxIterations, c.Server.MaxPlanIterations)
	}
	return nil
}

// Load reads a YAML file over the defaults. An empty path yields the
// defaults. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RRTSTAR_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("RRTSTAR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RRTSTAR_MAP_IMAGE"); v != "" {
		cfg.Map.Image = v
	}
	if v := os.Getenv("RRTSTAR_MAP_GEOJSON_DIR"); v != "" {
		cfg.Map.GeoJSONDir = v
	}
}
