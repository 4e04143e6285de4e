package export

// This file implements a local preview server for exported gallery bundles.
// It serves files with no-cache headers so a re-export shows up on reload.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// DefaultPreviewPort is the default port for the preview server.
const DefaultPreviewPort = 9000

// PreviewPortRange defines the range of ports to try if default is unavailable.
const (
	PreviewPortRangeStart = 9000
	PreviewPortRangeEnd   = 9100
)

// PreviewServer serves a gallery bundle locally for previewing.
type PreviewServer struct {
	bundlePath string
	port       int
	server     *http.Server
	log        zerolog.Logger
}

// NewPreviewServer creates a new preview server for the given bundle.
func NewPreviewServer(bundlePath string, port int, log zerolog.Logger) *PreviewServer {
	return &PreviewServer{
		bundlePath: bundlePath,
		port:       port,
		log:        log,
	}
}

// Handler checks the bundle and returns the handler that serves it.
func (p *PreviewServer) Handler() (http.Handler, error) {
	if _, err := os.Stat(p.bundlePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("bundle path does not exist: %s", p.bundlePath)
	}
	indexPath := filepath.Join(p.bundlePath, BundleIndex)
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no %s found in bundle: %s", BundleIndex, p.bundlePath)
	}

	mux := http.NewServeMux()
	mux.Handle("/", noCacheMiddleware(http.FileServer(http.Dir(p.bundlePath))))
	mux.HandleFunc("/__preview__/status", p.statusHandler)
	return mux, nil
}

// Serve runs the server until ctx is cancelled, then shuts it down.
func (p *PreviewServer) Serve(ctx context.Context) error {
	handler, err := p.Handler()
	if err != nil {
		return err
	}
	p.server = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", p.port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		p.log.Info().Str("url", p.URL()).Str("bundle", p.bundlePath).Msg("preview server started")
		if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		p.log.Info().Msg("preview server shutting down")
		return p.Stop()
	case err := <-errChan:
		return err
	}
}

// Stop gracefully stops the preview server.
func (p *PreviewServer) Stop() error {
	if p.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}

// Port returns the port the server is running on.
func (p *PreviewServer) Port() int {
	return p.port
}

// URL returns the full URL of the preview server.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

type previewStatus struct {
	Status     string `json:"status"`
	Port       int    `json:"port"`
	BundlePath string `json:"bundle_path"`
	HasIndex   bool   `json:"has_index"`
	FileCount  int    `json:"file_count"`
	PostCount  int    `json:"post_count"`
}

// statusHandler returns the preview server status as JSON.
func (p *PreviewServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	status := previewStatus{Status: "running", Port: p.port, BundlePath: p.bundlePath, PostCount: -1}
	if _, err := os.Stat(filepath.Join(p.bundlePath, BundleIndex)); err == nil {
		status.HasIndex = true
	}
	_ = filepath.WalkDir(p.bundlePath, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			status.FileCount++
		}
		return nil
	})
	if raw, err := os.ReadFile(filepath.Join(p.bundlePath, BundlePosts)); err == nil {
		var posts []model.Post
		if json.Unmarshal(raw, &posts) == nil {
			status.PostCount = len(posts)
		}
	}

	if err := json.NewEncoder(w).Encode(status); err != nil {
		p.log.Warn().Err(err).Msg("write preview status")
	}
}

// noCacheMiddleware adds headers to prevent browser caching.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.Header().Set("Allow", "GET, HEAD, OPTIONS")
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}

// ResolvePort returns port, or the first free port in the preview range
// when port is 0.
func ResolvePort(port int) (int, error) {
	if port != 0 {
		return port, nil
	}
	port, err := FindAvailablePort(PreviewPortRangeStart, PreviewPortRangeEnd)
	if err != nil {
		return 0, fmt.Errorf("could not find available port: %w", err)
	}
	return port, nil
}
