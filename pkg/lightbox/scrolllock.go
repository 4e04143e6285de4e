package lightbox

// ScrollLock stops the page behind the lightbox from scrolling. Each
// Acquire must be paired with a call to its release function; the page is
// locked while any holder remains.
type ScrollLock struct {
	holders int
}

// Acquire takes the lock and returns its release function. Release is
// idempotent so it can sit on every exit path.
func (l *ScrollLock) Acquire() (release func()) {
	l.holders++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		l.holders--
	}
}

// Locked reports whether scrolling is currently suspended.
func (l *ScrollLock) Locked() bool {
	return l.holders > 0
}
