package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds gv's settings. Values come from an optional YAML file and
// are then overridden by environment variables.
type Config struct {
	Source string `yaml:"source" env:"GV_SOURCE" env-description:"gallery source: file path or http(s) URL"`
	Static bool   `yaml:"static" env:"GV_STATIC" env-description:"do not reload when the source file changes"`
	CellPX int    `yaml:"cell_px" env:"GV_CELL_PX" env-default:"8" env-description:"pixel width of one terminal cell, used for swipe distance"`
	Theme  string `yaml:"theme" env:"GV_THEME" env-default:"dark" env-description:"dark or light"`

	Thumbs struct {
		Concurrency int           `yaml:"concurrency" env:"GV_THUMB_CONCURRENCY" env-default:"4"`
		Timeout     time.Duration `yaml:"timeout" env:"GV_THUMB_TIMEOUT" env-default:"15s"`
	} `yaml:"thumbs"`

	Fetch struct {
		MaxRetries      uint64        `yaml:"max_retries" env:"GV_FETCH_RETRIES" env-default:"3"`
		InitialInterval time.Duration `yaml:"initial_interval" env:"GV_FETCH_INTERVAL" env-default:"500ms"`
	} `yaml:"fetch"`

	Log struct {
		File  string `yaml:"file" env:"GV_LOG_FILE" env-description:"log file path; empty uses the state directory"`
		Level string `yaml:"level" env:"GV_LOG_LEVEL" env-default:"info"`
	} `yaml:"log"`
}

// DefaultPath returns ~/.config/gv/config.yaml (or the platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gv", "config.yaml")
}

// Load reads path if it exists and applies environment overrides. An empty
// path means DefaultPath. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return cfg, cfg.Validate()
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the viewer cannot work with.
func (c *Config) Validate() error {
	if c.CellPX <= 0 {
		return fmt.Errorf("cell_px must be positive, got %d", c.CellPX)
	}
	if c.Thumbs.Concurrency <= 0 {
		return fmt.Errorf("thumbs.concurrency must be positive, got %d", c.Thumbs.Concurrency)
	}
	if c.Theme != "dark" && c.Theme != "light" {
		return fmt.Errorf("theme must be dark or light, got %q", c.Theme)
	}
	return nil
}

// Usage describes the environment variables, for --help output.
func Usage() string {
	help, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return help
}
