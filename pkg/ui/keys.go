package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/lightbox"
)

// KeyMap holds the gallery's key bindings. It satisfies help.KeyMap so the
// footer can render it with bubbles/help.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Open     key.Binding
	Close    key.Binding
	First    key.Binding
	Last     key.Binding
	Filter   key.Binding
	Copy     key.Binding
	Retry    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Open:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		First:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "first")),
		Last:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "last")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy url")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Open, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown},
		{k.Open, k.Close, k.First, k.Last},
		{k.Filter, k.Copy, k.Retry, k.Help, k.Quit},
	}
}

// LightboxHelp is the short help shown inside the open lightbox.
func (k KeyMap) LightboxHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Close, k.Copy}
}

// lightboxKey translates a terminal key into the name the lightbox listener
// understands, or "" when the key means nothing to it.
func (k KeyMap) lightboxKey(msg tea.KeyMsg) string {
	switch {
	case key.Matches(msg, k.Right):
		return lightbox.KeyArrowRight
	case key.Matches(msg, k.Left):
		return lightbox.KeyArrowLeft
	case key.Matches(msg, k.Close):
		return lightbox.KeyEscape
	case key.Matches(msg, k.First):
		return lightbox.KeyHome
	case key.Matches(msg, k.Last):
		return lightbox.KeyEnd
	}
	return ""
}
