package lightbox

import "github.com/Dicklesworthstone/gallery_viewer/pkg/model"

// View is everything a renderer needs to draw the lightbox.
type View struct {
	Open               bool
	Post               model.Post
	Index              int
	Count              int
	CurrentImageURL    string
	IndexDisplay       string
	CanShowNavControls bool
	Transition         Transition
	DragOffset         float64
}

// Lightbox is one viewer session with its side effects: the scroll lock is
// held and a key listener is registered exactly while a post is open.
type Lightbox struct {
	session *Session
	gesture Gesture
	keys    *Dispatcher
	lock    *ScrollLock

	release func()
	unbind  func()
}

// New creates a closed lightbox. keys and lock may be shared with the rest
// of the application; nil values get private instances.
func New(posts []model.Post, keys *Dispatcher, lock *ScrollLock) *Lightbox {
	if keys == nil {
		keys = NewDispatcher()
	}
	if lock == nil {
		lock = &ScrollLock{}
	}
	return &Lightbox{
		session: NewSession(posts),
		keys:    keys,
		lock:    lock,
	}
}

// Open shows postID starting from its first image. Opening a post that is
// not in the list does nothing and returns false.
func (l *Lightbox) Open(postID string) bool {
	if _, ok := model.FindPost(l.session.Posts(), postID); !ok {
		return false
	}
	l.session.Open(postID)
	l.gesture.Reset()
	if l.release == nil {
		l.release = l.lock.Acquire()
	}
	l.bind()
	return true
}

// Close hides the lightbox, drops the key listener and releases the scroll
// lock. It is safe to call at any time.
func (l *Lightbox) Close() {
	l.session.Close()
	l.gesture.Reset()
	if l.unbind != nil {
		l.unbind()
		l.unbind = nil
	}
	if l.release != nil {
		l.release()
		l.release = nil
	}
}

// Teardown is Close for shutdown paths; defer it wherever the lightbox's
// owner goes away.
func (l *Lightbox) Teardown() {
	l.Close()
}

// IsOpen reports whether a post is showing.
func (l *Lightbox) IsOpen() bool {
	return l.session.IsOpen()
}

// SetPosts swaps in a refreshed post list. A session whose post vanished is
// closed; a surviving session is re-bound so the key listener sees the
// refreshed image count.
func (l *Lightbox) SetPosts(posts []model.Post) {
	l.session.SetPosts(posts)
	if l.session.SelectedID() == "" {
		return
	}
	if !l.session.IsOpen() {
		l.Close()
		return
	}
	l.bind()
}

// Next shows the following image, wrapping around.
func (l *Lightbox) Next() bool {
	return l.session.Next()
}

// Prev shows the preceding image, wrapping around.
func (l *Lightbox) Prev() bool {
	return l.session.Prev()
}

// GoTo jumps to an image, as a dot indicator does.
func (l *Lightbox) GoTo(index int) bool {
	return l.session.GoTo(index)
}

// TouchStart begins a drag at x pixels.
func (l *Lightbox) TouchStart(x float64) {
	if !l.IsOpen() {
		return
	}
	l.gesture.Start(x)
}

// TouchMove tracks the drag.
func (l *Lightbox) TouchMove(x float64) {
	l.gesture.Move(x)
}

// TouchEnd finishes the drag and navigates if it was a swipe.
func (l *Lightbox) TouchEnd() Swipe {
	swipe := l.gesture.End()
	switch swipe {
	case SwipeLeft:
		l.Next()
	case SwipeRight:
		l.Prev()
	}
	return swipe
}

// Dragging reports whether a drag gesture is in flight.
func (l *Lightbox) Dragging() bool {
	return l.gesture.State().Dragging()
}

// HandleKey routes a key through the shared dispatcher.
func (l *Lightbox) HandleKey(key string) bool {
	return l.keys.Dispatch(key)
}

// View snapshots the state for rendering.
func (l *Lightbox) View() View {
	post, ok := l.session.Post()
	if !ok {
		return View{}
	}
	return View{
		Open:               true,
		Post:               post,
		Index:              l.session.Index(),
		Count:              post.ImageCount(),
		CurrentImageURL:    l.session.CurrentImageURL(),
		IndexDisplay:       l.session.IndexDisplay(),
		CanShowNavControls: l.session.HasMultipleImages(),
		Transition:         l.session.Transition(),
		DragOffset:         l.gesture.Offset(),
	}
}

// bind replaces the key listener with one for the currently selected post.
// The listener captures that post's id and image count; a listener for any
// other selection ignores keys rather than acting on stale state.
func (l *Lightbox) bind() {
	if l.unbind != nil {
		l.unbind()
		l.unbind = nil
	}
	post, ok := l.session.Post()
	if !ok {
		return
	}
	id, count := post.ID, post.ImageCount()
	l.unbind = l.keys.Add(func(key string) bool {
		if l.session.SelectedID() != id || l.session.Count() != count {
			return false
		}
		switch key {
		case KeyArrowRight:
			l.Next()
		case KeyArrowLeft:
			l.Prev()
		case KeyEscape:
			l.Close()
		case KeyHome:
			l.GoTo(0)
		case KeyEnd:
			l.GoTo(count - 1)
		default:
			return false
		}
		return true
	})
}
