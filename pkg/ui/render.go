package ui

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/thumbs"
)

// artCache keeps rendered half-block art so redraws do not rescale images.
type artCache struct {
	entries map[string]string
}

func newArtCache() *artCache {
	return &artCache{entries: make(map[string]string)}
}

func (c *artCache) get(url string, cols, rows int, render func() string) string {
	k := fmt.Sprintf("%s|%d|%d", url, cols, rows)
	if s, ok := c.entries[k]; ok {
		return s
	}
	s := render()
	c.entries[k] = s
	return s
}

func (c *artCache) reset() {
	c.entries = make(map[string]string)
}

// imageBlock renders url into exactly rows lines of cols cells, padding the
// fitted image according to the slide animation.
func (m Model) imageBlock(url string, cols, rows int, anim slideAnim) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	if url == "" {
		return thumbs.Placeholder("no image", cols, rows)
	}
	if m.thumbs == nil {
		return thumbs.Placeholder("loading...", cols, rows)
	}
	img, err, ok := m.thumbs.Get(url)
	switch {
	case !ok:
		return thumbs.Placeholder("loading...", cols, rows)
	case err != nil:
		return thumbs.Placeholder("image unavailable", cols, rows)
	}

	w, h := thumbs.Fit(img, cols, rows)
	art := m.art.get(url, w, h, func() string { return thumbs.Render(img, w, h) })

	left := slidePad(cols-w, anim)
	right := cols - w - left
	top := (rows - h) / 2
	blank := strings.Repeat(" ", cols)

	lines := make([]string, 0, rows)
	for i := 0; i < top; i++ {
		lines = append(lines, blank)
	}
	for _, line := range strings.Split(art, "\n") {
		lines = append(lines, strings.Repeat(" ", left)+line+strings.Repeat(" ", right))
	}
	for len(lines) < rows {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}
