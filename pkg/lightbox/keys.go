package lightbox

// Key names understood by the lightbox listener.
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeyEscape     = "Escape"
	KeyHome       = "Home"
	KeyEnd        = "End"
)

// KeyHandler handles a key and reports whether it consumed it.
type KeyHandler func(key string) bool

type keyListener struct {
	id int
	fn KeyHandler
}

// Dispatcher is a window-level set of key listeners. Listeners are tried in
// registration order until one consumes the key.
type Dispatcher struct {
	seq       int
	listeners []keyListener
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Add registers fn and returns the function that removes it. Calling the
// remover more than once is harmless.
func (d *Dispatcher) Add(fn KeyHandler) (remove func()) {
	d.seq++
	id := d.seq
	d.listeners = append(d.listeners, keyListener{id: id, fn: fn})
	return func() {
		for i, l := range d.listeners {
			if l.id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch offers key to each listener. Handlers may add or remove
// listeners while running; the set seen by one Dispatch is fixed at entry.
func (d *Dispatcher) Dispatch(key string) bool {
	snapshot := make([]keyListener, len(d.listeners))
	copy(snapshot, d.listeners)
	for _, l := range snapshot {
		if l.fn(key) {
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (d *Dispatcher) Len() int {
	return len(d.listeners)
}
