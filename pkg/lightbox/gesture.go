package lightbox

// SwipeThreshold is the horizontal travel, in pixels, that separates a swipe
// from a tap.
const SwipeThreshold = 50.0

// Swipe is the outcome of a finished drag.
type Swipe int

const (
	SwipeNone Swipe = iota
	// SwipeLeft moves the finger right-to-left and shows the next image.
	SwipeLeft
	// SwipeRight moves the finger left-to-right and shows the previous image.
	SwipeRight
)

func (s Swipe) String() string {
	switch s {
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	default:
		return "none"
	}
}

// DragState is the bookkeeping for one in-flight gesture. It is reset at
// the end of every gesture.
type DragState struct {
	StartX   float64
	CurrentX float64
	Offset   float64

	started bool
	moved   bool
}

// Dragging reports whether a gesture has started and not yet ended.
func (d DragState) Dragging() bool {
	return d.started
}

// Gesture turns start/move/end events into swipes.
type Gesture struct {
	drag DragState
}

// Start begins a gesture at x, discarding any unfinished one.
func (g *Gesture) Start(x float64) {
	g.drag = DragState{StartX: x, started: true}
}

// Move records the pointer position. Moves outside a gesture are ignored.
func (g *Gesture) Move(x float64) {
	if !g.drag.started {
		return
	}
	g.drag.CurrentX = x
	g.drag.moved = true
	g.drag.Offset = x - g.drag.StartX
}

// End finishes the gesture and classifies it. A gesture that never started
// or never moved is a tap and yields SwipeNone. The drag state is always
// back at rest afterwards.
func (g *Gesture) End() Swipe {
	d := g.drag
	g.Reset()
	if !d.started || !d.moved {
		return SwipeNone
	}
	distance := d.StartX - d.CurrentX
	switch {
	case distance > SwipeThreshold:
		return SwipeLeft
	case distance < -SwipeThreshold:
		return SwipeRight
	default:
		return SwipeNone
	}
}

// Reset drops any in-flight gesture.
func (g *Gesture) Reset() {
	g.drag = DragState{}
}

// State returns a copy of the current drag state.
func (g *Gesture) State() DragState {
	return g.drag
}

// Offset is the signed distance dragged so far; zero at rest.
func (g *Gesture) Offset() float64 {
	return g.drag.Offset
}
