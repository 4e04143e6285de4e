package ui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// postSource adapts a post list to fuzzy.Source.
type postSource []model.Post

func (p postSource) String(i int) string { return p[i].FilterValue() }
func (p postSource) Len() int            { return len(p) }

// FilterPosts returns the posts matching query, best match first. An empty
// query returns posts unchanged.
func FilterPosts(posts []model.Post, query string) []model.Post {
	query = strings.TrimSpace(query)
	if query == "" {
		return posts
	}
	matches := fuzzy.FindFrom(query, postSource(posts))
	out := make([]model.Post, 0, len(matches))
	for _, match := range matches {
		out = append(out, posts[match.Index])
	}
	return out
}
