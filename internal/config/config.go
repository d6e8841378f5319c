// Package config handles configuration loading for platenav.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the command looks for its configuration. The plate
// document lives in a separate file (Store.Path).
const DefaultPath = "platenav.yaml"

// Config represents the navigator configuration.
type Config struct {
	Navigator  NavigatorConfig  `yaml:"navigator"`
	Microscope MicroscopeConfig `yaml:"microscope"`
	Store      StoreConfig      `yaml:"store"`
	Plates     PlatesConfig     `yaml:"plates"`
	Grid       GridConfig       `yaml:"grid"`
	Render     RenderConfig     `yaml:"render"`
}

// NavigatorConfig contains camera and objective settings.
type NavigatorConfig struct {
	MinZoom     float64 `yaml:"min_zoom"`
	MaxZoom     float64 `yaml:"max_zoom"`
	ScrollSpeed float64 `yaml:"scroll_speed"`
	FOVXMM      float64 `yaml:"fov_x_mm"`
	FOVYMM      float64 `yaml:"fov_y_mm"`
	CacheSize   int     `yaml:"cache_size"`
}

// MicroscopeConfig contains the control server endpoint.
type MicroscopeConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ForbiddenAreas string `yaml:"forbidden_areas"` // optional GeoJSON fallback
}

// Timeout returns the request timeout as a duration.
func (m MicroscopeConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// StoreConfig points at the persisted plate document.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// PlatesConfig selects the plate library and the startup plate.
type PlatesConfig struct {
	Library string `yaml:"library"`
	Default string `yaml:"default"`
}

// GridConfig is the site grid used when the document has none.
type GridConfig struct {
	NumX     int     `yaml:"num_x"`
	NumY     int     `yaml:"num_y"`
	DeltaXMM float64 `yaml:"delta_x_mm"`
	DeltaYMM float64 `yaml:"delta_y_mm"`
}

// RenderConfig contains PNG snapshot settings.
type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		return DefaultConfig(), nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Navigator: NavigatorConfig{
			MinZoom:     0.05,
			MaxZoom:     1.2,
			ScrollSpeed: 0.001,
			FOVXMM:      0.7,
			FOVYMM:      0.7,
			CacheSize:   8,
		},
		Microscope: MicroscopeConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 10,
		},
		Store: StoreConfig{
			Path: "./platenav-document.yaml",
		},
		Plates: PlatesConfig{
			Default: "sbs-96",
		},
		Grid: GridConfig{
			NumX:     3,
			NumY:     3,
			DeltaXMM: 1.5,
			DeltaYMM: 1.5,
		},
		Render: RenderConfig{
			Width:  1280,
			Height: 860,
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Navigator.MinZoom == 0 {
		cfg.Navigator.MinZoom = defaults.Navigator.MinZoom
	}
	if cfg.Navigator.MaxZoom == 0 {
		cfg.Navigator.MaxZoom = defaults.Navigator.MaxZoom
	}
	if cfg.Navigator.ScrollSpeed == 0 {
		cfg.Navigator.ScrollSpeed = defaults.Navigator.ScrollSpeed
	}
	if cfg.Navigator.FOVXMM == 0 {
		cfg.Navigator.FOVXMM = defaults.Navigator.FOVXMM
	}
	if cfg.Navigator.FOVYMM == 0 {
		cfg.Navigator.FOVYMM = defaults.Navigator.FOVYMM
	}
	if cfg.Navigator.CacheSize == 0 {
		cfg.Navigator.CacheSize = defaults.Navigator.CacheSize
	}
	if cfg.Microscope.BaseURL == "" {
		cfg.Microscope.BaseURL = defaults.Microscope.BaseURL
	}
	if cfg.Microscope.TimeoutSeconds == 0 {
		cfg.Microscope.TimeoutSeconds = defaults.Microscope.TimeoutSeconds
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaults.Store.Path
	}
	if cfg.Plates.Default == "" {
		cfg.Plates.Default = defaults.Plates.Default
	}
	if cfg.Grid.NumX == 0 || cfg.Grid.NumY == 0 {
		cfg.Grid = defaults.Grid
	}
	if cfg.Render.Width == 0 {
		cfg.Render.Width = defaults.Render.Width
	}
	if cfg.Render.Height == 0 {
		cfg.Render.Height = defaults.Render.Height
	}
}
