package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/lightbox"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
)

// Mouse input stands in for touch: a left press on the image starts a drag,
// motion with the button held moves it and the release ends it. A release
// that is not a swipe counts as a click on whatever is under it.

func isWheel(msg tea.MouseMsg) bool {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown,
		tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		return true
	}
	return false
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.helpOverlay.IsVisible() {
		m.helpOverlay, _ = m.helpOverlay.Update(msg)
		return m, nil
	}
	if m.lb.IsOpen() {
		return m.handleLightboxMouse(msg)
	}
	if m.state.Status != loader.StatusReady || m.filtering {
		return m, nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.grid.Scroll(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.grid.Scroll(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if i, ok := m.grid.ItemAt(msg.X, msg.Y-HeaderHeight); ok {
			m.grid.Select(i)
			return m.openSelected()
		}
	}
	return m, nil
}

func (m Model) handleLightboxMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if isWheel(msg) {
		// The page behind is scroll-locked.
		return m, nil
	}
	px := float64(msg.X * m.opts.CellPX)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.press = pressState{x: msg.X, y: msg.Y, active: true}
		if m.lightboxLayout(m.lb.View()).image.contains(msg.X, msg.Y) {
			m.lb.TouchStart(px)
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.press.active {
			m.lb.TouchMove(px)
		}
		return m, nil

	case tea.MouseActionRelease:
		// A release without a press seen here belongs to the click that
		// opened the lightbox.
		if !m.press.active {
			return m, nil
		}
		press := m.press
		m.press = pressState{}

		if swipe := m.lb.TouchEnd(); swipe != lightbox.SwipeNone {
			cmd := m.afterLightbox()
			return m, cmd
		}

		layout := m.lightboxLayout(m.lb.View())
		target := layout.hitTest(msg.X, msg.Y)
		if layout.hitTest(press.x, press.y) != target {
			return m, nil
		}
		switch target.kind {
		case hitBackdrop, hitClose:
			m.lb.Close()
		case hitPrev:
			m.lb.Prev()
		case hitNext:
			m.lb.Next()
		case hitDot:
			m.lb.GoTo(target.dot)
		}
		cmd := m.afterLightbox()
		return m, cmd
	}
	return m, nil
}
