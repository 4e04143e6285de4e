package export

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

func TestNewPreviewServer(t *testing.T) {
	server := NewPreviewServer("/tmp/test", 8080, zerolog.Nop())

	if server.bundlePath != "/tmp/test" {
		t.Errorf("Expected bundlePath '/tmp/test', got %s", server.bundlePath)
	}
	if server.Port() != 8080 {
		t.Errorf("Expected port 8080, got %d", server.Port())
	}
	if server.URL() != "http://localhost:8080" {
		t.Errorf("Unexpected URL %s", server.URL())
	}
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(19000, 19100)
	if err != nil {
		t.Errorf("FindAvailablePort failed: %v", err)
	}
	if port < 19000 || port > 19100 {
		t.Errorf("Port %d is outside expected range 19000-19100", port)
	}
}

func TestResolvePort(t *testing.T) {
	if port, err := ResolvePort(8123); err != nil || port != 8123 {
		t.Errorf("Explicit port should pass through, got %d, %v", port, err)
	}
	port, err := ResolvePort(0)
	if err != nil {
		t.Fatalf("ResolvePort(0): %v", err)
	}
	if port < PreviewPortRangeStart || port > PreviewPortRangeEnd {
		t.Errorf("Auto port %d outside preview range", port)
	}
}

func TestPreviewServer_MissingBundle(t *testing.T) {
	server := NewPreviewServer("/nonexistent/path/12345", 19050, zerolog.Nop())
	if _, err := server.Handler(); err == nil {
		t.Error("Expected error for missing bundle path")
	}
	if err := server.Serve(context.Background()); err == nil {
		t.Error("Serve should fail for missing bundle path")
	}
}

func TestPreviewServer_MissingIndex(t *testing.T) {
	server := NewPreviewServer(t.TempDir(), 19051, zerolog.Nop())
	if _, err := server.Handler(); err == nil {
		t.Error("Expected error for missing index.html")
	}
}

func TestPreviewServer_ServesBundle(t *testing.T) {
	dir := t.TempDir()
	posts := []model.Post{
		{ID: "a", Title: "One", ImageURLs: []string{"https://img.test/1.jpg"}},
		{ID: "b", Title: "Two", ImageURLs: []string{"https://img.test/2.jpg"}},
	}
	if err := WriteBundle(BundleOptions{Dir: dir, Posts: posts}); err != nil {
		t.Fatal(err)
	}

	server := NewPreviewServer(dir, 0, zerolog.Nop())
	handler, err := server.Handler()
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("Failed to GET index: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Pragma") != "no-cache" {
		t.Errorf("Expected Pragma: no-cache, got %s", resp.Header.Get("Pragma"))
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 {
		t.Error("Expected index body")
	}

	statusResp, err := http.Get(ts.URL + "/__preview__/status")
	if err != nil {
		t.Fatalf("Failed to GET status: %v", err)
	}
	defer statusResp.Body.Close()
	var status previewStatus
	if err := json.NewDecoder(statusResp.Body).Decode(&status); err != nil {
		t.Fatalf("Decode status: %v", err)
	}
	if !status.HasIndex || status.FileCount != 3 || status.PostCount != 2 {
		t.Errorf("Unexpected status %+v", status)
	}
}

func TestPreviewServer_ServeStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	if err := WriteBundle(BundleOptions{Dir: dir}); err != nil {
		t.Fatal(err)
	}
	port, err := FindAvailablePort(19060, 19080)
	if err != nil {
		t.Fatalf("Failed to find available port: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	server := NewPreviewServer(dir, port, zerolog.Nop())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get(server.URL())
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestNoCacheMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("test"))
	})
	handler := noCacheMiddleware(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("Cache-Control") == "" {
		t.Error("Expected Cache-Control header")
	}
	if rec.Header().Get("Pragma") != "no-cache" {
		t.Errorf("Expected Pragma: no-cache, got %s", rec.Header().Get("Pragma"))
	}
	if rec.Header().Get("Expires") != "0" {
		t.Errorf("Expected Expires: 0, got %s", rec.Header().Get("Expires"))
	}
}

func TestNoCacheMiddleware_OPTIONS(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Inner handler should not be called for OPTIONS")
	})
	rec := httptest.NewRecorder()
	noCacheMiddleware(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 for OPTIONS, got %d", rec.Code)
	}
}
