package thumbs

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadCachesHTTPImages(t *testing.T) {
	data := solidPNG(t, 4, 4, color.RGBA{R: 255, A: 255})
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	c := NewCache(time.Second, zerolog.Nop())
	for i := 0; i < 3; i++ {
		img, err := c.Load(context.Background(), srv.URL+"/a.png")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if img.Bounds().Dx() != 4 {
			t.Errorf("Unexpected bounds %v", img.Bounds())
		}
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("Expected one request, got %d", hits)
	}
}

func TestLoadLocalFileAndFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(good, solidPNG(t, 2, 2, color.White), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache(0, zerolog.Nop())
	if _, err := c.Load(context.Background(), "file://"+good); err != nil {
		t.Errorf("Expected local file to load, got %v", err)
	}
	if _, err := c.Load(context.Background(), bad); err == nil {
		t.Error("Expected decode error")
	}
	if _, err, ok := c.Get(bad); !ok || err == nil {
		t.Error("Expected the failure to be cached")
	}
	c.Forget(bad)
	if _, _, ok := c.Get(bad); ok {
		t.Error("Expected Forget to drop the entry")
	}
}

func TestPrefetchRespectsConcurrency(t *testing.T) {
	var inFlight, peak int32
	c := NewCache(time.Second, zerolog.Nop())
	data := solidPNG(t, 1, 1, color.Black)
	c.fetch = func(ctx context.Context, url string) ([]byte, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		if strings.HasSuffix(url, "broken") {
			return nil, errors.New("boom")
		}
		return data, nil
	}

	urls := []string{"1", "2", "3", "4", "5", "6", "broken"}
	if err := c.Prefetch(context.Background(), urls, 2); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	if atomic.LoadInt32(&peak) > 2 {
		t.Errorf("Expected at most 2 concurrent fetches, saw %d", peak)
	}
	for _, u := range urls {
		if _, _, ok := c.Get(u); !ok {
			t.Errorf("Expected %s to be cached", u)
		}
	}
}

func TestFit(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 200, 100))
	cols, rows := Fit(wide, 40, 40)
	if cols != 40 || rows != 10 {
		t.Errorf("wide: expected 40x10, got %dx%d", cols, rows)
	}
	tall := image.NewRGBA(image.Rect(0, 0, 100, 400))
	cols, rows = Fit(tall, 40, 20)
	if rows != 20 || cols != 10 {
		t.Errorf("tall: expected 10x20, got %dx%d", cols, rows)
	}
	if c, r := Fit(nil, 5, 3); c != 5 || r != 3 {
		t.Errorf("nil image should fill the box, got %dx%d", c, r)
	}
}

func TestRenderDimensions(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(solidPNG(t, 8, 8, color.RGBA{G: 200, A: 255})))
	if err != nil {
		t.Fatal(err)
	}
	out := Render(img, 6, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if got := strings.Count(lines[0], "▀"); got != 6 {
		t.Errorf("Expected 6 cells per line, got %d", got)
	}
	if !strings.Contains(out, "38;2;0;200;0") {
		t.Error("Expected green foreground")
	}
}

func TestPlaceholder(t *testing.T) {
	out := Placeholder("loading", 11, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 || lines[1] != "  loading  " {
		t.Errorf("Unexpected placeholder %q", out)
	}
}
