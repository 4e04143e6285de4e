package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/lightbox"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Grid lays posts out as cards in rows and tracks the cursor and scroll
// position. Scrolling is refused while the lightbox holds the scroll lock.
type Grid struct {
	posts  []model.Post
	cursor int
	top    int
	width  int
	height int
	lock   *lightbox.ScrollLock
}

// NewGrid creates an empty grid that honours lock.
func NewGrid(lock *lightbox.ScrollLock) Grid {
	return Grid{lock: lock}
}

// SetSize sets the area available to the cards.
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.ensureVisible()
}

// SetPosts replaces the shown posts, keeping the cursor on the same post
// when it is still present.
func (g *Grid) SetPosts(posts []model.Post) {
	current := ""
	if p, ok := g.Selected(); ok {
		current = p.ID
	}
	g.posts = posts
	g.cursor = 0
	for i, p := range posts {
		if p.ID == current {
			g.cursor = i
			break
		}
	}
	g.ensureVisible()
}

// Posts returns the posts on the grid.
func (g Grid) Posts() []model.Post {
	return g.posts
}

// Cursor returns the selected card index.
func (g Grid) Cursor() int {
	return g.cursor
}

// Top returns the first visible row.
func (g Grid) Top() int {
	return g.top
}

// Selected returns the post under the cursor.
func (g Grid) Selected() (model.Post, bool) {
	if g.cursor < 0 || g.cursor >= len(g.posts) {
		return model.Post{}, false
	}
	return g.posts[g.cursor], true
}

// Columns is how many cards fit side by side.
func (g Grid) Columns() int {
	return maxInt(1, (g.width+CardGap)/(CardWidth+CardGap))
}

// VisibleRows is how many card rows fit vertically.
func (g Grid) VisibleRows() int {
	return maxInt(1, g.height/CardHeight)
}

func (g Grid) rowCount() int {
	cols := g.Columns()
	return (len(g.posts) + cols - 1) / cols
}

// Move shifts the cursor by dx cards and dy rows, clamped to the list.
func (g *Grid) Move(dx, dy int) {
	if len(g.posts) == 0 {
		return
	}
	next := g.cursor + dx + dy*g.Columns()
	g.cursor = clampInt(next, 0, len(g.posts)-1)
	g.ensureVisible()
}

// Select puts the cursor on index.
func (g *Grid) Select(index int) {
	if index < 0 || index >= len(g.posts) {
		return
	}
	g.cursor = index
	g.ensureVisible()
}

// Scroll moves the view by rows without moving the cursor off screen. It
// reports false when scrolling is locked or already at the edge.
func (g *Grid) Scroll(rows int) bool {
	if g.lock != nil && g.lock.Locked() {
		return false
	}
	maxTop := maxInt(0, g.rowCount()-g.VisibleRows())
	top := clampInt(g.top+rows, 0, maxTop)
	if top == g.top {
		return false
	}
	g.top = top
	cols := g.Columns()
	row := g.cursor / cols
	if row < g.top {
		g.cursor = g.top * cols
	} else if last := g.top + g.VisibleRows() - 1; row > last {
		g.cursor = minInt(len(g.posts)-1, last*cols+g.cursor%cols)
	}
	return true
}

// ItemAt maps a point relative to the grid's top-left corner to a post
// index.
func (g Grid) ItemAt(x, y int) (int, bool) {
	if x < 0 || y < 0 {
		return 0, false
	}
	col := x / (CardWidth + CardGap)
	if col >= g.Columns() || x%(CardWidth+CardGap) >= CardWidth {
		return 0, false
	}
	row := g.top + y/CardHeight
	if y/CardHeight >= g.VisibleRows() {
		return 0, false
	}
	i := row*g.Columns() + col
	if i >= len(g.posts) {
		return 0, false
	}
	return i, true
}

func (g *Grid) ensureVisible() {
	if len(g.posts) == 0 {
		g.cursor, g.top = 0, 0
		return
	}
	g.cursor = clampInt(g.cursor, 0, len(g.posts)-1)
	row := g.cursor / g.Columns()
	visible := g.VisibleRows()
	if row < g.top {
		g.top = row
	}
	if row >= g.top+visible {
		g.top = row - visible + 1
	}
	g.top = clampInt(g.top, 0, maxInt(0, g.rowCount()-visible))
}

// View renders the visible rows. thumb returns the rendered cover for a
// post at the given size.
func (g Grid) View(t Theme, thumb func(p model.Post, cols, rows int) string) string {
	if len(g.posts) == 0 {
		return ""
	}
	cols := g.Columns()
	visible := g.VisibleRows()
	gap := strings.Repeat(" ", CardGap)

	rows := make([]string, 0, visible)
	for r := g.top; r < g.top+visible; r++ {
		start := r * cols
		if start >= len(g.posts) {
			break
		}
		end := minInt(start+cols, len(g.posts))
		cards := make([]string, 0, (end-start)*2)
		for i := start; i < end; i++ {
			if i > start {
				cards = append(cards, gap)
			}
			cards = append(cards, g.renderCard(g.posts[i], i == g.cursor, t, thumb))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

func (g Grid) renderCard(p model.Post, selected bool, t Theme, thumb func(model.Post, int, int) string) string {
	inner := CardWidth - 2
	border := t.Border
	if selected {
		border = t.Highlight
	}

	title := runewidth.Truncate(p.Title, inner, "…")
	titleStyle := t.Renderer.NewStyle().Foreground(t.Text).Bold(selected)

	category := runewidth.Truncate(p.Category, inner/2, "…")
	meta := RenderCategoryBadge(category, t)
	if badge := RenderPhotoCountBadge(p.ImageCount(), t); badge != "" {
		used := lipgloss.Width(meta) + lipgloss.Width(badge)
		meta += strings.Repeat(" ", maxInt(1, inner-used)) + badge
	}

	body := strings.Join([]string{
		thumb(p, inner, CardThumbRows),
		titleStyle.Render(runewidth.FillRight(title, inner)),
		meta,
	}, "\n")

	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(inner).
		Render(body)
}
