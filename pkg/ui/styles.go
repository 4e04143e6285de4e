package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing, colors, and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired, with light-background fallbacks
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorText        = lipgloss.AdaptiveColor{Light: "#282A36", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#44475A", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#6272A4", Dark: "#6272A4"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D8D8E0", Dark: "#44475A"}
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#EEEEF2", Dark: "#363949"}

	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#7C4DDB", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#4A5A8C", Dark: "#6272A4"}
	ColorInfo      = lipgloss.AdaptiveColor{Light: "#0E7C95", Dark: "#8BE9FD"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#1E8A3C", Dark: "#50FA7B"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B35F00", Dark: "#FFB86C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#C41E1E", Dark: "#FF5555"}
	ColorAccent    = lipgloss.AdaptiveColor{Light: "#C2187A", Dark: "#FF79C6"}
)

// Theme bundles the renderer and the semantic colors a view needs. The
// renderer decides between the light and dark halves of each color.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
}

// DefaultTheme builds the gallery theme on r. A nil renderer uses lipgloss's
// default one.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Text:      ColorText,
		Subtext:   ColorSubtext,
		Muted:     ColorMuted,
		Border:    ColorBgHighlight,
		Highlight: ColorPrimary,
		Accent:    ColorAccent,
		Danger:    ColorDanger,
		Success:   ColorSuccess,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGE RENDERING
// ══════════════════════════════════════════════════════════════════════════════

// RenderCategoryBadge renders a post's category as a small pill. Empty
// categories render nothing.
func RenderCategoryBadge(category string, t Theme) string {
	if strings.TrimSpace(category) == "" {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Render(strings.ToUpper(category))
}

// RenderPhotoCountBadge renders the "N photos" badge shown on grid cards of
// posts with more than one image.
func RenderPhotoCountBadge(count int, t Theme) string {
	if count <= 1 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Text).
		Background(ColorBgSubtle).
		Render(fmt.Sprintf("%d photos", count))
}

// RenderDots renders one indicator per image, filled for the current one.
// Each dot is followed by a space so it is two cells wide and clickable.
func RenderDots(count, current int, t Theme) string {
	if count <= 1 {
		return ""
	}
	active := t.Renderer.NewStyle().Foreground(t.Primary)
	idle := t.Renderer.NewStyle().Foreground(t.Muted)
	var b strings.Builder
	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i == current {
			b.WriteString(active.Render("●"))
		} else {
			b.WriteString(idle.Render("○"))
		}
	}
	return b.String()
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS AND SEPARATORS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a horizontal divider line
func RenderDivider(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Render(strings.Repeat("─", width))
}
