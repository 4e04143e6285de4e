package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// markdownRenderer renders post descriptions with glamour, caching one
// renderer per wrap width. Descriptions that fail to render fall back to
// plain wrapped text.
type markdownRenderer struct {
	style     string
	renderers map[int]*glamour.TermRenderer
}

func newMarkdownRenderer(dark bool) *markdownRenderer {
	style := "dark"
	if !dark {
		style = "light"
	}
	return &markdownRenderer{style: style, renderers: make(map[int]*glamour.TermRenderer)}
}

// Render returns at most maxLines lines of width-wrapped description.
func (r *markdownRenderer) Render(text string, width, maxLines int) []string {
	text = strings.TrimSpace(text)
	if text == "" || width <= 0 || maxLines <= 0 {
		return nil
	}

	var lines []string
	if out, err := r.render(text, width); err == nil {
		lines = strings.Split(strings.Trim(out, "\n"), "\n")
	} else {
		lines = wrapPlain(text, width)
	}

	// glamour pads with blank margin lines.
	for len(lines) > 0 && strings.TrimSpace(ansi.Strip(lines[0])) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(ansi.Strip(lines[len(lines)-1])) == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := strings.TrimRight(ansi.Strip(lines[maxLines-1]), " ")
		lines[maxLines-1] = runewidth.Truncate(last, width-1, "") + "…"
	}
	return lines
}

func (r *markdownRenderer) render(text string, width int) (string, error) {
	tr, ok := r.renderers[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		r.renderers[width] = tr
	}
	return tr.Render(text)
}

func wrapPlain(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && runewidth.StringWidth(cur.String())+1+runewidth.StringWidth(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(runewidth.Truncate(word, width, "…"))
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
