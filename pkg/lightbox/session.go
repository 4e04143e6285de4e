package lightbox

import (
	"fmt"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Side is the edge an incoming image enters from.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// Transition describes the most recent index change. Seq increases on every
// change so a view can tell a new transition from a repeated render.
type Transition struct {
	From  int
	To    int
	Enter Side
	Seq   uint64
}

// Session tracks whether the lightbox is open, on which post, and at which
// image. It has no side effects; Lightbox layers the scroll lock and key
// binding on top.
type Session struct {
	posts    []model.Post
	byID     map[string]int
	selected string
	index    int
	last     Transition
}

// NewSession creates a closed session over posts.
func NewSession(posts []model.Post) *Session {
	s := &Session{}
	s.SetPosts(posts)
	return s
}

// SetPosts replaces the post list. If the selected post is still present the
// index is clamped to its image count; if it is gone the session reads as
// closed until the next Open.
func (s *Session) SetPosts(posts []model.Post) {
	s.posts = posts
	s.byID = make(map[string]int, len(posts))
	for i, p := range posts {
		if _, dup := s.byID[p.ID]; !dup {
			s.byID[p.ID] = i
		}
	}
	if post, ok := s.Post(); ok {
		if n := len(post.ImageURLs); s.index >= n {
			s.index = maxInt(n-1, 0)
		}
	}
}

// Posts returns the current post list.
func (s *Session) Posts() []model.Post {
	return s.posts
}

// Open selects postID and rewinds to the first image.
func (s *Session) Open(postID string) {
	s.selected = postID
	s.index = 0
}

// Close deselects the post. Closing a closed session does nothing.
func (s *Session) Close() {
	s.selected = ""
	s.index = 0
}

// SelectedID returns the selected post id, or "" when closed.
func (s *Session) SelectedID() string {
	return s.selected
}

// IsOpen is true when a post is selected and still exists in the list.
func (s *Session) IsOpen() bool {
	_, ok := s.Post()
	return ok
}

// Post returns the selected post.
func (s *Session) Post() (model.Post, bool) {
	if s.selected == "" {
		return model.Post{}, false
	}
	i, ok := s.byID[s.selected]
	if !ok {
		return model.Post{}, false
	}
	return s.posts[i], true
}

// Index returns the current image index. It is meaningless when closed.
func (s *Session) Index() int {
	return s.index
}

// Count returns the selected post's image count, or 0 when closed.
func (s *Session) Count() int {
	post, ok := s.Post()
	if !ok {
		return 0
	}
	return post.ImageCount()
}

// HasMultipleImages reports whether navigation controls should be shown.
func (s *Session) HasMultipleImages() bool {
	return s.Count() > 1
}

// CurrentImageURL returns the URL of the current image.
func (s *Session) CurrentImageURL() string {
	post, ok := s.Post()
	if !ok || s.index >= len(post.ImageURLs) {
		return ""
	}
	return post.ImageURLs[s.index]
}

// IndexDisplay renders the 1-based "i / n" counter.
func (s *Session) IndexDisplay() string {
	n := s.Count()
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d / %d", s.index+1, n)
}

// Transition returns the last recorded index change.
func (s *Session) Transition() Transition {
	return s.last
}

// Next advances one image, wrapping from the last to the first. It returns
// false when there is nothing to navigate.
func (s *Session) Next() bool {
	n := s.Count()
	if n == 0 {
		return false
	}
	s.moveTo(wrapNext(s.index, n), SideRight)
	return true
}

// Prev goes back one image, wrapping from the first to the last.
func (s *Session) Prev() bool {
	n := s.Count()
	if n == 0 {
		return false
	}
	s.moveTo(wrapPrev(s.index, n), SideLeft)
	return true
}

// GoTo jumps straight to index. Out-of-range indexes are ignored.
func (s *Session) GoTo(index int) bool {
	n := s.Count()
	if n == 0 || index < 0 || index >= n {
		return false
	}
	enter := SideRight
	if index < s.index {
		enter = SideLeft
	}
	s.moveTo(index, enter)
	return true
}

func (s *Session) moveTo(to int, enter Side) {
	if to == s.index {
		return
	}
	s.last = Transition{From: s.index, To: to, Enter: enter, Seq: s.last.Seq + 1}
	s.index = to
}
