package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

var (
	// ErrNoPosts is returned when a source holds no usable posts.
	ErrNoPosts = errors.New("no gallery posts found")
	// ErrUnsupportedSource is returned for sources with an unknown format.
	ErrUnsupportedSource = errors.New("unsupported gallery source")
)

// DefaultSource is where LoadPosts looks when no source is given.
var DefaultSource = filepath.Join(".gallery", "posts.jsonl")

// LoadReport counts what a load kept and what it skipped.
type LoadReport struct {
	Loaded    int
	Malformed int
	Invalid   int
}

// Source produces a list of posts.
type Source interface {
	Load(ctx context.Context) ([]model.Post, LoadReport, error)
	// Path is the local file backing the source, or "" if there is none
	// (for example an HTTP endpoint).
	Path() string
	String() string
}

// Open picks a Source for location by its scheme or file extension.
func Open(location string) (Source, error) {
	if location == "" {
		location = DefaultSource
	}
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, nil), nil
	}
	switch filepath.Ext(lower) {
	case ".jsonl", ".ndjson":
		return JSONLSource{path: location}, nil
	case ".json":
		return JSONSource{path: location}, nil
	case ".yaml", ".yml":
		return YAMLSource{path: location}, nil
	case ".db", ".sqlite", ".sqlite3":
		return SQLiteSource{path: location}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, location)
}

// LoadPosts loads posts from location, the way the CLI does.
func LoadPosts(ctx context.Context, location string) ([]model.Post, error) {
	src, err := Open(location)
	if err != nil {
		return nil, err
	}
	posts, _, err := src.Load(ctx)
	return posts, err
}

// keepValid drops invalid and duplicate posts and orders the rest newest
// first. Posts without a date follow the dated ones in source order.
func keepValid(posts []model.Post, report *LoadReport) []model.Post {
	seen := make(map[string]bool, len(posts))
	kept := posts[:0]
	for _, p := range posts {
		if err := p.Validate(); err != nil || seen[p.ID] {
			report.Invalid++
			continue
		}
		seen[p.ID] = true
		kept = append(kept, p)
	}
	report.Loaded = len(kept)
	sortNewestFirst(kept)
	return kept
}

func sortNewestFirst(posts []model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].CreatedAt, posts[j].CreatedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
}

func checkFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w at %s", ErrNoPosts, path)
	}
	return nil
}
