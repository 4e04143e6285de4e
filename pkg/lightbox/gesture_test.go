package lightbox

import "testing"

func TestGestureClassification(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		moves []float64
		want  Swipe
	}{
		{"left swipe past threshold", 200, []float64{180, 150, 130}, SwipeLeft},
		{"right swipe past threshold", 100, []float64{160}, SwipeRight},
		{"short drag is a tap", 100, []float64{120}, SwipeNone},
		{"exactly threshold is not a swipe", 100, []float64{50}, SwipeNone},
		{"just past threshold", 100, []float64{49}, SwipeLeft},
		{"no move is a tap", 100, nil, SwipeNone},
		{"start at zero still counts", 0, []float64{80}, SwipeRight},
		{"last position wins", 200, []float64{100, 190}, SwipeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Gesture
			g.Start(tt.start)
			for _, x := range tt.moves {
				g.Move(x)
			}
			if got := g.End(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
			if g.State() != (DragState{}) {
				t.Errorf("Expected drag state at rest, got %+v", g.State())
			}
		})
	}
}

func TestGestureOffsetTracksDrag(t *testing.T) {
	var g Gesture
	g.Start(100)
	if g.Offset() != 0 {
		t.Errorf("Expected offset 0 at start, got %v", g.Offset())
	}
	g.Move(70)
	if g.Offset() != -30 {
		t.Errorf("Expected offset -30, got %v", g.Offset())
	}
	g.Move(140)
	if g.Offset() != 40 {
		t.Errorf("Expected offset 40, got %v", g.Offset())
	}
	g.End()
	if g.Offset() != 0 {
		t.Errorf("Expected offset reset, got %v", g.Offset())
	}
}

func TestGestureEndWithoutStart(t *testing.T) {
	var g Gesture
	if got := g.End(); got != SwipeNone {
		t.Errorf("Expected no swipe, got %s", got)
	}
	g.Move(500)
	if g.State().Dragging() {
		t.Error("Move without start must not begin a drag")
	}
	if got := g.End(); got != SwipeNone {
		t.Errorf("Expected no swipe, got %s", got)
	}
}

func TestGestureRestartDiscardsPrevious(t *testing.T) {
	var g Gesture
	g.Start(300)
	g.Move(100)
	g.Start(50)
	g.Move(60)
	if got := g.End(); got != SwipeNone {
		t.Errorf("Expected the restarted gesture to be a tap, got %s", got)
	}
}
