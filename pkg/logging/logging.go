// Package logging sets up gv's file logger. The terminal belongs to the UI,
// so log output never goes to stdout or stderr while the viewer runs.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPath returns $XDG_STATE_HOME/gv/gv.log, falling back to
// ~/.local/state/gv/gv.log.
func DefaultPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "gv", "gv.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gv.log")
	}
	return filepath.Join(home, ".local", "state", "gv", "gv.log")
}

// Opts configures New.
type Opts struct {
	Path  string
	Level string
	// Writer bypasses Path when set (tests, the "list" command).
	Writer io.Writer
}

// New returns a logger and a function that closes its file. "off" as the
// level discards everything.
func New(opts Opts) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	level, err := parseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), noop, err
	}
	if level == zerolog.Disabled {
		return zerolog.Nop(), noop, nil
	}

	if opts.Writer != nil {
		return newLogger(opts.Writer, level), noop, nil
	}

	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, level), f.Close, nil
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("app", "gv").
		Logger()
}

func parseLevel(raw string) (zerolog.Level, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return zerolog.InfoLevel, nil
	case "off", "none", "disabled":
		return zerolog.Disabled, nil
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
