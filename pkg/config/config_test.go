package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsFromEnv(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CellPX != 8 || cfg.Static || cfg.Theme != "dark" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.Thumbs.Concurrency != 4 || cfg.Thumbs.Timeout != 15*time.Second {
		t.Errorf("Unexpected thumb defaults %+v", cfg.Thumbs)
	}
	if cfg.Fetch.MaxRetries != 3 || cfg.Fetch.InitialInterval != 500*time.Millisecond {
		t.Errorf("Unexpected fetch defaults %+v", cfg.Fetch)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GV_SOURCE", "https://api.example/gallery")
	t.Setenv("GV_CELL_PX", "10")
	t.Setenv("GV_STATIC", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != "https://api.example/gallery" || cfg.CellPX != 10 || !cfg.Static {
		t.Errorf("Env overrides not applied: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `source: gallery.yaml
cell_px: 6
theme: light
thumbs:
  concurrency: 2
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GV_CELL_PX", "12")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != "gallery.yaml" || cfg.Theme != "light" || cfg.Thumbs.Concurrency != 2 || cfg.Log.Level != "debug" {
		t.Errorf("File values not applied: %+v", cfg)
	}
	if cfg.CellPX != 12 {
		t.Errorf("Expected env to override file, got cell_px=%d", cfg.CellPX)
	}
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("theme: sepia\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "theme") {
		t.Errorf("Expected theme validation error, got %v", err)
	}
}
