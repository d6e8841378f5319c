package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Partial(t *testing.T) {
	content := `
navigator:
  max_zoom: 2.5
  fov_x_mm: 0.35
microscope:
  base_url: "http://scope.local:9000"
plates:
  library: "/etc/platenav/plates.yaml"
  default: sbs-384
`
	cfg := loadFromString(t, content)

	if cfg.Navigator.MaxZoom != 2.5 {
		t.Errorf("expected max zoom 2.5, got %v", cfg.Navigator.MaxZoom)
	}
	if cfg.Navigator.MinZoom != 0.05 {
		t.Errorf("expected default min zoom, got %v", cfg.Navigator.MinZoom)
	}
	if cfg.Navigator.FOVXMM != 0.35 || cfg.Navigator.FOVYMM != 0.7 {
		t.Errorf("unexpected fov %vx%v", cfg.Navigator.FOVXMM, cfg.Navigator.FOVYMM)
	}
	if cfg.Microscope.BaseURL != "http://scope.local:9000" {
		t.Errorf("unexpected base url: %s", cfg.Microscope.BaseURL)
	}
	if cfg.Microscope.Timeout() != 10*time.Second {
		t.Errorf("unexpected timeout: %v", cfg.Microscope.Timeout())
	}
	if cfg.Plates.Default != "sbs-384" {
		t.Errorf("unexpected default plate: %s", cfg.Plates.Default)
	}
	if cfg.Grid.NumX != 3 || cfg.Grid.DeltaXMM != 1.5 {
		t.Errorf("expected default grid, got %+v", cfg.Grid)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("navigator: [1, 2"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStoreDefaultIsNotConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultPath)
	if err := os.WriteFile(path, []byte("navigator:\n  cache_size: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Clean(cfg.Store.Path) == filepath.Clean(DefaultPath) {
		t.Errorf("store path %q collides with the config file", cfg.Store.Path)
	}
	if filepath.Base(DefaultConfig().Store.Path) == DefaultPath {
		t.Errorf("default store file %q is the config file", DefaultConfig().Store.Path)
	}
}

func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return cfg
}
