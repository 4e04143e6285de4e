package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/export"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

const sampleJSONL = `{"id":"a","title":"Harbour","category":"travel","imageUrls":["https://img.test/1.jpg","https://img.test/2.jpg"]}
{"id":"b","title":"Desk","category":"work","imageUrls":["https://img.test/3.jpg"]}
not json
`

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posts.jsonl")
	if err := os.WriteFile(path, []byte(sampleJSONL), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes gv with args against an empty config file path.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GV_LOG_LEVEL", "off")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config=" + filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestListText(t *testing.T) {
	out, err := run(t, "list", writeSource(t))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "a ") || !strings.Contains(lines[0], "Harbour") || !strings.HasSuffix(lines[0], "travel") {
		t.Errorf("Unexpected first line %q", lines[0])
	}
}

func TestListJSON(t *testing.T) {
	out, err := run(t, "list", "--json", writeSource(t))
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var posts []model.Post
	if err := json.Unmarshal([]byte(out), &posts); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if len(posts) != 2 || posts[0].ID != "a" || len(posts[0].ImageURLs) != 2 {
		t.Errorf("Unexpected posts %+v", posts)
	}
}

func TestListMissingSource(t *testing.T) {
	if _, err := run(t, "list", filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Error("Expected error for missing source")
	}
}

func TestListUsesConfiguredSource(t *testing.T) {
	t.Setenv("GV_SOURCE", writeSource(t))
	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Desk") {
		t.Errorf("Expected posts from GV_SOURCE, got %q", out)
	}
}

func TestExportRequiresTarget(t *testing.T) {
	if _, err := run(t, "export", writeSource(t)); err == nil {
		t.Error("Expected error without --svg, --png or --dir")
	}
	if _, err := run(t, "export", writeSource(t), "--svg", filepath.Join(t.TempDir(), "s.svg"), "--serve"); err == nil {
		t.Error("Expected --serve without --dir to fail")
	}
}

func TestExportSVGAndBundle(t *testing.T) {
	dir := t.TempDir()
	svgPath := filepath.Join(dir, "sheet.svg")
	bundle := filepath.Join(dir, "site")

	out, err := run(t, "export", writeSource(t), "--svg", svgPath, "--dir", bundle, "--title", "Trips")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Wrote "+svgPath+" (2 posts)") {
		t.Errorf("Unexpected output %q", out)
	}
	raw, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "<title>Trips</title>") {
		t.Error("SVG should carry the title")
	}
	for _, name := range []string{export.BundleIndex, export.BundleSheet, export.BundlePosts} {
		if _, err := os.Stat(filepath.Join(bundle, name)); err != nil {
			t.Errorf("bundle missing %s: %v", name, err)
		}
	}
}

func TestExportSQLiteLoadsBack(t *testing.T) {
	db := filepath.Join(t.TempDir(), "out", "gallery.db")
	out, err := run(t, "export", writeSource(t), "--sqlite", db)
	if err != nil {
		t.Fatalf("export --sqlite: %v", err)
	}
	if !strings.Contains(out, "Wrote "+db+" (2 posts)") {
		t.Errorf("Unexpected output %q", out)
	}

	out, err = run(t, "list", "--json", db)
	if err != nil {
		t.Fatalf("list from sqlite: %v", err)
	}
	var posts []model.Post
	if err := json.Unmarshal([]byte(out), &posts); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if len(posts) != 2 || posts[0].ID != "a" || len(posts[0].ImageURLs) != 2 {
		t.Errorf("Unexpected posts from sqlite %+v", posts)
	}
}

func TestExportOverwrite(t *testing.T) {
	origTTY, origConfirm := stdinIsTerminal, confirmOverwrite
	defer func() { stdinIsTerminal, confirmOverwrite = origTTY, origConfirm }()

	src := writeSource(t)
	svgPath := filepath.Join(t.TempDir(), "sheet.svg")
	if err := os.WriteFile(svgPath, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	stdinIsTerminal = func() bool { return false }
	if _, err := run(t, "export", src, "--svg", svgPath); !errors.Is(err, errExists) {
		t.Errorf("Expected errExists without a terminal, got %v", err)
	}

	var asked []string
	stdinIsTerminal = func() bool { return true }
	confirmOverwrite = func(paths []string) (bool, error) {
		asked = paths
		return false, nil
	}
	if _, err := run(t, "export", src, "--svg", svgPath); !errors.Is(err, errExists) {
		t.Errorf("Expected errExists after declining, got %v", err)
	}
	if len(asked) != 1 || asked[0] != svgPath {
		t.Errorf("Expected confirmation for %s, got %v", svgPath, asked)
	}

	confirmOverwrite = func([]string) (bool, error) { return true, nil }
	if _, err := run(t, "export", src, "--svg", svgPath); err != nil {
		t.Errorf("Expected overwrite after confirming, got %v", err)
	}

	stdinIsTerminal = func() bool { return false }
	if _, err := run(t, "export", src, "--svg", svgPath, "--force"); err != nil {
		t.Errorf("--force should overwrite, got %v", err)
	}
	raw, _ := os.ReadFile(svgPath)
	if string(raw) == "old" {
		t.Error("File was not overwritten")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "gv version v") {
		t.Errorf("Unexpected version output %q", out)
	}
}

func TestVersionCheck(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"v99.0.0","html_url":"https://example.test/release"}`))
	}))
	defer ts.Close()
	orig := releasesURL
	releasesURL = ts.URL
	defer func() { releasesURL = orig }()

	out, err := run(t, "version", "--check")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "v99.0.0") {
		t.Errorf("Expected newer release in output, got %q", out)
	}
}

func TestRootRejectsBadTheme(t *testing.T) {
	if _, err := run(t, "--theme", "sepia", writeSource(t)); err == nil {
		t.Error("Expected invalid theme to fail before the viewer starts")
	}
}
