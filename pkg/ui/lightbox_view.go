package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/lightbox"
)

// Slide animation played when the image changes.
const (
	slideFrames   = 4
	slideInterval = 30 * time.Millisecond
)

// slideAnim tracks the slide-in of the current image. seq is the lightbox
// transition being animated.
type slideAnim struct {
	seq   uint64
	enter lightbox.Side
	frame int
}

func (a slideAnim) done() bool {
	return a.frame >= slideFrames
}

// slidePad returns the left padding of an image inside free spare columns.
// A finished animation centres it; an image entering from the right starts
// right-aligned and one entering from the left starts left-aligned.
func slidePad(free int, a slideAnim) int {
	center := free / 2
	if free <= 0 || a.done() {
		return maxInt(center, 0)
	}
	remaining := slideFrames - a.frame
	switch a.enter {
	case lightbox.SideRight:
		return center + (free-center)*remaining/slideFrames
	case lightbox.SideLeft:
		return center - center*remaining/slideFrames
	}
	return center
}

// hitKind names what a click in the lightbox landed on.
type hitKind int

const (
	hitCard hitKind = iota
	hitBackdrop
	hitClose
	hitPrev
	hitNext
	hitDot
)

type hit struct {
	kind hitKind
	dot  int
}

// lightboxLayout is the geometry of the open lightbox. Rendering and mouse
// hit-testing both derive from it so they cannot disagree.
type lightboxLayout struct {
	card      rect
	close     rect
	image     rect
	prev      rect
	next      rect
	dots      []rect
	contentW  int
	imageRows int
	desc      []string
}

func (l lightboxLayout) hitTest(x, y int) hit {
	switch {
	case !l.card.contains(x, y):
		return hit{kind: hitBackdrop}
	case l.close.contains(x, y):
		return hit{kind: hitClose}
	case l.prev.contains(x, y):
		return hit{kind: hitPrev}
	case l.next.contains(x, y):
		return hit{kind: hitNext}
	}
	for i, d := range l.dots {
		if d.contains(x, y) {
			return hit{kind: hitDot, dot: i}
		}
	}
	return hit{kind: hitCard}
}

// lightboxContentWidth is the inner card width for a screen width.
func lightboxContentWidth(screenW int) int {
	if screenW < BreakpointNarrow {
		return maxInt(10, screenW-4)
	}
	return clampInt(screenW-8, 20, LightboxMaxWidth)
}

// Card rows around the image: header, blank, counter, category, dots, hint.
const lightboxChromeRows = 6

func (m Model) lightboxLayout(v lightbox.View) lightboxLayout {
	w := lightboxContentWidth(m.width)
	desc := m.md.Render(v.Post.Description, w, LightboxMaxDescLines)

	maxRows := maxInt(LightboxMinImageRows, w/2)
	rows := clampInt(m.height-2-lightboxChromeRows-len(desc)-2, LightboxMinImageRows, maxRows)

	outerW := w + 4
	outerH := rows + lightboxChromeRows + len(desc) + 2
	x0 := maxInt(0, (m.width-outerW)/2)
	y0 := maxInt(0, (m.height-outerH)/2)
	cx, cy := x0+2, y0+1

	l := lightboxLayout{
		card:      rect{x0, y0, outerW, outerH},
		close:     rect{cx + w - 2, cy, 2, 1},
		image:     rect{cx, cy + 2, w, rows},
		contentW:  w,
		imageRows: rows,
		desc:      desc,
	}
	if v.CanShowNavControls {
		l.prev = rect{cx, cy + 2, NavButtonWidth, rows}
		l.next = rect{cx + w - NavButtonWidth, cy + 2, NavButtonWidth, rows}
		if dotsW := 2*v.Count - 1; dotsW <= w {
			dotY := cy + 2 + rows + 2 + len(desc)
			start := cx + (w-dotsW)/2
			l.dots = make([]rect, v.Count)
			for i := range l.dots {
				l.dots[i] = rect{start + 2*i, dotY, 2, 1}
			}
		}
	}
	return l
}

// renderLightbox draws the open lightbox over a blank backdrop.
func (m Model) renderLightbox() string {
	v := m.lb.View()
	if !v.Open {
		return ""
	}
	l := m.lightboxLayout(v)
	t := m.theme
	w := l.contentW

	center := func(s string) string {
		pad := maxInt(0, (w-lipgloss.Width(s))/2)
		return strings.Repeat(" ", pad) + s
	}

	lines := make([]string, 0, l.card.h)

	title := runewidth.FillRight(runewidth.Truncate(v.Post.Title, w-3, "…"), w-2)
	closeBtn := t.Renderer.NewStyle().Foreground(t.Danger).Bold(true).Render(" ✕")
	lines = append(lines, t.Renderer.NewStyle().Bold(true).Foreground(t.Text).Render(title)+closeBtn)
	lines = append(lines, "")

	imgW := w
	if v.CanShowNavControls {
		imgW = w - 2*NavButtonWidth
	}
	image := strings.Split(m.imageBlock(v.CurrentImageURL, imgW, l.imageRows, m.anim), "\n")
	navStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	mid := l.imageRows / 2
	for i, line := range image {
		if !v.CanShowNavControls {
			lines = append(lines, line)
			continue
		}
		prev, next := "  ", "  "
		if i == mid {
			prev, next = navStyle.Render("‹ "), navStyle.Render(" ›")
		}
		lines = append(lines, prev+line+next)
	}

	counter := ""
	if v.CanShowNavControls {
		counter = center(t.Renderer.NewStyle().Foreground(t.Subtext).Render(v.IndexDisplay))
	}
	lines = append(lines, counter)
	lines = append(lines, RenderCategoryBadge(runewidth.Truncate(v.Post.Category, w, "…"), t))
	lines = append(lines, l.desc...)

	dots := ""
	if len(l.dots) > 0 {
		dots = center(RenderDots(v.Count, v.Index, t))
	}
	lines = append(lines, dots)

	hint := m.status
	if hint == "" {
		hint = m.help.ShortHelpView(m.keymap.LightboxHelp())
	}
	lines = append(lines, ansi.Truncate(hint, w, "…"))

	for i, line := range lines {
		if gap := w - lipgloss.Width(line); gap > 0 {
			lines[i] = line + strings.Repeat(" ", gap)
		}
	}

	card := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Highlight).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	indent := strings.Repeat(" ", l.card.x)
	cardLines := strings.Split(card, "\n")
	for i := range cardLines {
		cardLines[i] = indent + cardLines[i]
	}
	return strings.Repeat("\n", l.card.y) + strings.Join(cardLines, "\n")
}
