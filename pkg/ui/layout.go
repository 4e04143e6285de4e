package ui

// Layout breakpoints for responsive design.
const (
	// BreakpointNarrow is the width below which the grid drops the subtitle
	// and the lightbox uses the whole screen width.
	BreakpointNarrow = 60

	// BreakpointWide caps the lightbox card so text lines stay readable.
	BreakpointWide = 100
)

// Grid card dimensions (in cells).
const (
	// CardWidth is the outer width of a grid card, border included.
	CardWidth = 26
	// CardThumbRows is the height of the cover thumbnail.
	CardThumbRows = 6
	// CardHeight is border + thumbnail + title line + meta line + border.
	CardHeight = CardThumbRows + 4
	// CardGap separates neighbouring cards horizontally.
	CardGap = 1
)

// Screen chrome around the grid.
const (
	HeaderHeight = 3
	FooterHeight = 2
)

// Lightbox card geometry.
const (
	// LightboxMaxWidth is the widest the card content may get.
	LightboxMaxWidth = 72
	// LightboxMinImageRows keeps the image visible on short terminals.
	LightboxMinImageRows = 3
	// LightboxMaxDescLines caps the rendered description.
	LightboxMaxDescLines = 4
	// NavButtonWidth is the width of the ‹ and › click targets.
	NavButtonWidth = 2
)

// rect is a screen region used for mouse hit-testing.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
