package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := New(Opts{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	log.Info().Msg("hidden")
	log.Warn().Str("post", "a").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Info should be filtered at warn level")
	}
	if !strings.Contains(out, `"post":"a"`) || !strings.Contains(out, `"app":"gv"`) {
		t.Errorf("Unexpected log output %q", out)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "gv.log")
	log, closeFn, err := New(Opts{Path: path, Level: "debug"})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug().Msg("hello")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("Expected log line in file, got %q", data)
	}
}

func TestLevels(t *testing.T) {
	if _, _, err := New(Opts{Level: "chatty"}); err == nil {
		t.Error("Expected invalid level error")
	}
	var buf bytes.Buffer
	log, _, err := New(Opts{Level: "off", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	log.Error().Msg("nothing")
	if buf.Len() != 0 {
		t.Error("Expected no output when logging is off")
	}
}
