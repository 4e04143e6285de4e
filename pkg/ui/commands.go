package ui

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
)

// SourceChangedMsg tells the model its source changed on disk. The watcher
// sends it through tea.Program.Send.
type SourceChangedMsg struct{}

// postsMsg carries the outcome of a fetch. refresh marks background reloads
// that should not replace a good post list with an error.
type postsMsg struct {
	state   loader.State
	refresh bool
}

type thumbMsg struct {
	url string
	err error
}

// prefetchMsg reports that one batch of covers is cached; rest is queued.
type prefetchMsg struct {
	rest []string
}

type animTickMsg struct {
	seq uint64
}

type copiedMsg struct {
	url string
	err error
}

type clearStatusMsg struct {
	seq int
}

// statusTTL is how long a footer status message stays up.
const statusTTL = 3 * time.Second

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

func (m Model) fetchCmd(refresh bool) tea.Cmd {
	if m.fetcher == nil {
		return nil
	}
	f, ctx := m.fetcher, m.ctx
	return func() tea.Msg {
		return postsMsg{state: f.Fetch(ctx), refresh: refresh}
	}
}

// loadThumbCmd loads one image unless it is cached or already in flight.
func (m Model) loadThumbCmd(url string) tea.Cmd {
	if url == "" || m.thumbs == nil || m.pending[url] {
		return nil
	}
	if _, _, ok := m.thumbs.Get(url); ok {
		return nil
	}
	m.pending[url] = true
	cache, ctx := m.thumbs, m.ctx
	return func() tea.Msg {
		_, err := cache.Load(ctx, url)
		return thumbMsg{url: url, err: err}
	}
}

// prefetchCmd caches covers in batches so the grid fills in progressively.
func (m Model) prefetchCmd(urls []string) tea.Cmd {
	if len(urls) == 0 || m.thumbs == nil {
		return nil
	}
	n := maxInt(1, m.opts.Concurrency) * 2
	batch, rest := urls, []string(nil)
	if len(urls) > n {
		batch, rest = urls[:n], urls[n:]
	}
	cache, ctx, limit := m.thumbs, m.ctx, m.opts.Concurrency
	log := m.log
	return func() tea.Msg {
		if err := cache.Prefetch(ctx, batch, limit); err != nil {
			log.Debug().Err(err).Msg("prefetch stopped")
			return prefetchMsg{}
		}
		return prefetchMsg{rest: rest}
	}
}

func animTick(seq uint64) tea.Cmd {
	return tea.Tick(slideInterval, func(time.Time) tea.Msg {
		return animTickMsg{seq: seq}
	})
}

func copyCmd(url string) tea.Cmd {
	if url == "" {
		return nil
	}
	return func() tea.Msg {
		return copiedMsg{url: url, err: writeClipboard(url)}
	}
}

func clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
