package lightbox

import (
	"fmt"
	"testing"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

func postWithImages(id string, n int) model.Post {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://img.example/%s/%d.jpg", id, i)
	}
	return model.Post{ID: id, Title: "Post " + id, ImageURLs: urls}
}

func TestSessionNextWrapsAroundForEveryLength(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for start := 0; start < n; start++ {
			s := NewSession([]model.Post{postWithImages("p", n)})
			s.Open("p")
			s.GoTo(start)
			for i := 0; i < n; i++ {
				s.Next()
			}
			if s.Index() != start {
				t.Errorf("n=%d start=%d: expected index %d after %d nexts, got %d", n, start, start, n, s.Index())
			}
		}
	}
}

func TestSessionPrevInvertsNext(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for start := 0; start < n; start++ {
			s := NewSession([]model.Post{postWithImages("p", n)})
			s.Open("p")
			s.GoTo(start)
			s.Next()
			s.Prev()
			if s.Index() != start {
				t.Errorf("n=%d: prev(next(%d)) = %d", n, start, s.Index())
			}
			s.Prev()
			s.Next()
			if s.Index() != start {
				t.Errorf("n=%d: next(prev(%d)) = %d", n, start, s.Index())
			}
		}
	}
}

func TestSessionThreeImageWalk(t *testing.T) {
	post := model.Post{ID: "trip", Title: "Trip", ImageURLs: []string{"a", "b", "c"}}
	s := NewSession([]model.Post{post})
	s.Open("trip")

	want := []string{"a", "b", "c", "a"}
	for i, w := range want {
		if i > 0 {
			s.Next()
		}
		if got := s.CurrentImageURL(); got != w {
			t.Fatalf("step %d: expected %q, got %q", i, w, got)
		}
	}
}

func TestSessionOpenAlwaysStartsAtFirstImage(t *testing.T) {
	s := NewSession([]model.Post{postWithImages("a", 4), postWithImages("b", 2)})
	s.Open("a")
	s.Next()
	s.Next()
	s.Open("b")
	if s.Index() != 0 {
		t.Errorf("Expected index 0 after reopening, got %d", s.Index())
	}
	s.Next()
	s.Open("b")
	if s.Index() != 0 {
		t.Errorf("Expected index 0 after opening the same post again, got %d", s.Index())
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	s := NewSession([]model.Post{postWithImages("a", 2)})
	s.Open("a")
	s.Close()
	if s.IsOpen() {
		t.Fatal("Expected session closed")
	}
	s.Close()
	if s.IsOpen() || s.SelectedID() != "" || s.Index() != 0 {
		t.Errorf("Expected rest state after double close, got id=%q index=%d", s.SelectedID(), s.Index())
	}
}

func TestSessionNavigationWhileClosedIsIgnored(t *testing.T) {
	s := NewSession([]model.Post{postWithImages("a", 3)})
	if s.Next() || s.Prev() || s.GoTo(1) {
		t.Error("Expected navigation to report false while closed")
	}
	if s.Index() != 0 {
		t.Errorf("Expected index 0, got %d", s.Index())
	}
	if s.CurrentImageURL() != "" || s.IndexDisplay() != "" {
		t.Error("Expected empty view values while closed")
	}
}

func TestSessionSingleImagePost(t *testing.T) {
	s := NewSession([]model.Post{postWithImages("solo", 1)})
	s.Open("solo")
	if s.HasMultipleImages() {
		t.Error("Expected HasMultipleImages false for one image")
	}
	s.Next()
	s.Prev()
	if s.Index() != 0 {
		t.Errorf("Expected index 0, got %d", s.Index())
	}
	if s.Transition().Seq != 0 {
		t.Errorf("Expected no transition on a single image, got seq %d", s.Transition().Seq)
	}
}

func TestSessionEmptyImageListIsNoop(t *testing.T) {
	s := NewSession([]model.Post{{ID: "broken", Title: "Broken"}})
	s.Open("broken")
	if s.Next() || s.Prev() || s.GoTo(0) {
		t.Error("Expected navigation to be a no-op without images")
	}
	if s.CurrentImageURL() != "" {
		t.Error("Expected no current image")
	}
}

func TestSessionGoToBounds(t *testing.T) {
	s := NewSession([]model.Post{postWithImages("a", 3)})
	s.Open("a")

	tests := []struct {
		index int
		ok    bool
		want  int
	}{
		{2, true, 2},
		{3, false, 2},
		{-1, false, 2},
		{0, true, 0},
	}
	for _, tt := range tests {
		if got := s.GoTo(tt.index); got != tt.ok {
			t.Errorf("GoTo(%d) = %v, want %v", tt.index, got, tt.ok)
		}
		if s.Index() != tt.want {
			t.Errorf("after GoTo(%d) index = %d, want %d", tt.index, s.Index(), tt.want)
		}
	}
}

func TestSessionTransitionSides(t *testing.T) {
	s := NewSession([]model.Post{postWithImages("a", 4)})
	s.Open("a")

	s.Next()
	if tr := s.Transition(); tr.Enter != SideRight || tr.From != 0 || tr.To != 1 {
		t.Errorf("next: unexpected transition %+v", tr)
	}
	s.Prev()
	if tr := s.Transition(); tr.Enter != SideLeft || tr.To != 0 {
		t.Errorf("prev: unexpected transition %+v", tr)
	}
	s.Prev()
	if tr := s.Transition(); tr.Enter != SideLeft || tr.To != 3 {
		t.Errorf("prev wrap: unexpected transition %+v", tr)
	}
	s.GoTo(1)
	if tr := s.Transition(); tr.Enter != SideLeft {
		t.Errorf("goto backwards: expected left, got %s", tr.Enter)
	}
	s.GoTo(2)
	if tr := s.Transition(); tr.Enter != SideRight || tr.Seq != 5 {
		t.Errorf("goto forwards: unexpected transition %+v", tr)
	}
}

func TestSessionIndexDisplay(t *testing.T) {
	s := NewSession([]model.Post{postWithImages("a", 3)})
	s.Open("a")
	s.Prev()
	if got := s.IndexDisplay(); got != "3 / 3" {
		t.Errorf("Expected %q, got %q", "3 / 3", got)
	}
}

func TestSessionPostRemovedReadsAsClosed(t *testing.T) {
	s := NewSession([]model.Post{postWithImages("a", 3), postWithImages("b", 1)})
	s.Open("a")
	s.SetPosts([]model.Post{postWithImages("b", 1)})
	if s.IsOpen() {
		t.Fatal("Expected session to read as closed once its post is gone")
	}
	if s.Next() {
		t.Error("Expected Next to be a no-op")
	}
	if s.Count() != 0 {
		t.Errorf("Expected count 0, got %d", s.Count())
	}
}

func TestSessionSetPostsClampsIndex(t *testing.T) {
	s := NewSession([]model.Post{postWithImages("a", 5)})
	s.Open("a")
	s.GoTo(4)
	s.SetPosts([]model.Post{postWithImages("a", 2)})
	if s.Index() != 1 {
		t.Errorf("Expected index clamped to 1, got %d", s.Index())
	}
}
