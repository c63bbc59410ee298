// Package config provides configuration loading and access for the
// simulator's ambient knobs — everything that isn't part of the field
// file itself (engine tunables and tick cap, render cadence, telemetry
// export, particle tracking).
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulator configuration parameters.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Render    RenderConfig    `yaml:"render"`
	Tracker   TrackerConfig   `yaml:"tracker"`
}

// EngineConfig holds tick-engine parameters not supplied by the field
// file or the CLI numeric-type flags.
type EngineConfig struct {
	Gravity           float64 `yaml:"gravity"`
	SaturationEpsilon float64 `yaml:"saturation_epsilon"`
	Seed              int64   `yaml:"seed"`
	MaxTicks          int     `yaml:"max_ticks"`
}

// TelemetryConfig holds per-tick stats collection parameters.
type TelemetryConfig struct {
	Enabled       bool `yaml:"enabled"`
	WindowSize    int  `yaml:"window_size"`
	FlushInterval int  `yaml:"flush_interval"`
}

// RenderConfig holds output-rendering parameters.
type RenderConfig struct {
	GUI       bool `yaml:"gui"`
	CellSize  int  `yaml:"cell_size"`
	TargetFPS int  `yaml:"target_fps"`
}

// TrackerConfig holds the particle-inspection feature's parameters.
type TrackerConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxTracked int  `yaml:"max_tracked"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing config file: %w", err)
		}
	}

	if cfg.Engine.MaxTicks <= 0 {
		return nil, fmt.Errorf("config: engine.max_ticks must be positive, got %d", cfg.Engine.MaxTicks)
	}

	return cfg, nil
}
