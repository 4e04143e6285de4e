// Package thumbs fetches gallery images and renders them as terminal
// half-block art.
package thumbs

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MaxImageSize caps downloads so one huge original cannot stall the grid.
const MaxImageSize = 20 * 1024 * 1024

type entry struct {
	img image.Image
	err error
}

// Cache holds decoded images by URL. Failed loads are remembered too so a
// broken link is not refetched on every frame.
type Cache struct {
	mu     sync.Mutex
	images map[string]entry
	client *http.Client
	log    zerolog.Logger

	// fetch is swapped out in tests.
	fetch func(ctx context.Context, url string) ([]byte, error)
}

// NewCache creates a cache whose HTTP requests time out after timeout.
func NewCache(timeout time.Duration, log zerolog.Logger) *Cache {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Cache{
		images: make(map[string]entry),
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
	c.fetch = c.fetchURL
	return c
}

// Get returns a cached image without loading it. ok is false when the URL
// has not been loaded yet.
func (c *Cache) Get(url string) (img image.Image, err error, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.images[url]
	return e.img, e.err, ok
}

// Forget drops url so the next Load fetches it again.
func (c *Cache) Forget(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.images, url)
}

// Load returns the decoded image for url, fetching it on first use.
func (c *Cache) Load(ctx context.Context, url string) (image.Image, error) {
	if img, err, ok := c.Get(url); ok {
		return img, err
	}

	data, err := c.fetch(ctx, url)
	var img image.Image
	if err == nil {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			err = fmt.Errorf("decode %s: %w", url, err)
		}
	}
	if err != nil && ctx.Err() != nil {
		// Cancelled loads are not cached; the image may be wanted later.
		return nil, err
	}

	c.mu.Lock()
	c.images[url] = entry{img: img, err: err}
	c.mu.Unlock()

	if err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("image load failed")
	}
	return img, err
}

// Prefetch loads urls with at most concurrency requests in flight. Load
// failures are cached and logged; only cancellation is returned.
func (c *Cache) Prefetch(ctx context.Context, urls []string, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, url := range urls {
		url := url
		if _, _, ok := c.Get(url); ok {
			continue
		}
		g.Go(func() error {
			_, _ = c.Load(ctx, url)
			return ctx.Err()
		})
	}
	return g.Wait()
}

func (c *Cache) fetchURL(ctx context.Context, url string) ([]byte, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		path := strings.TrimPrefix(url, "file://")
		return os.ReadFile(path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "gv")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxImageSize))
}
