package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidPost is returned by Validate for posts that cannot be shown.
var ErrInvalidPost = errors.New("invalid post")

// Post is a single gallery entry: a titled set of one or more images.
type Post struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Category    string    `json:"category,omitempty" yaml:"category,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURLs   []string  `json:"imageUrls" yaml:"imageUrls"`
	CreatedAt   time.Time `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`
}

// UnmarshalJSON accepts both "id" and the "_id" key used by document stores.
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	var raw struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Post(raw.plain)
	if p.ID == "" {
		p.ID = raw.MongoID
	}
	return nil
}

// Validate reports whether the post satisfies the invariants the viewer
// relies on: a non-empty id and title and at least one non-blank image.
func (p Post) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPost)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: post %s missing title", ErrInvalidPost, p.ID)
	}
	if len(p.ImageURLs) == 0 {
		return fmt.Errorf("%w: post %s has no images", ErrInvalidPost, p.ID)
	}
	for i, u := range p.ImageURLs {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("%w: post %s image %d is blank", ErrInvalidPost, p.ID, i)
		}
	}
	return nil
}

// ImageCount returns the number of images in the post.
func (p Post) ImageCount() int {
	return len(p.ImageURLs)
}

// HasMultipleImages is true when navigation controls make sense.
func (p Post) HasMultipleImages() bool {
	return p.ImageCount() > 1
}

// Cover returns the first image, used as the grid thumbnail.
func (p Post) Cover() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

// FilterValue is the text the grid filter matches against.
func (p Post) FilterValue() string {
	return strings.TrimSpace(p.Title + " " + p.Category + " " + p.Description)
}

// Clone creates a deep copy of the post
func (p Post) Clone() Post {
	clone := p
	if p.ImageURLs != nil {
		clone.ImageURLs = make([]string, len(p.ImageURLs))
		copy(clone.ImageURLs, p.ImageURLs)
	}
	return clone
}

// FindPost returns the post with the given id.
func FindPost(posts []Post, id string) (Post, bool) {
	for _, p := range posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}
