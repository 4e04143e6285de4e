package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/lightbox"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/thumbs"
)

const (
	galleryTitle    = "Photo Gallery"
	gallerySubtitle = "A glimpse into my journey, work, and experiences"
)

// Options configures the gallery model.
type Options struct {
	// Source is shown in the empty-state hint.
	Source string
	// CellPX converts mouse columns to the pixel distances swipes use.
	CellPX int
	// Concurrency bounds cover prefetching.
	Concurrency int
	Dark        bool
	Renderer    *lipgloss.Renderer
	Log         zerolog.Logger
}

// pressState remembers where a mouse button went down inside the lightbox.
type pressState struct {
	x, y   int
	active bool
}

// Model is the gallery's bubbletea model: a grid of posts with the lightbox
// overlay on top.
type Model struct {
	fetcher *loader.Fetcher
	thumbs  *thumbs.Cache
	opts    Options
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	state loader.State
	posts []model.Post

	keys *lightbox.Dispatcher
	lock *lightbox.ScrollLock
	lb   *lightbox.Lightbox
	grid Grid

	keymap      KeyMap
	help        help.Model
	helpOverlay HelpOverlayModel
	spinner     spinner.Model
	filter      textinput.Model
	filtering   bool

	theme   Theme
	md      *markdownRenderer
	art     *artCache
	pending map[string]bool

	anim       slideAnim
	press      pressState
	status     string
	statusSeq  int
	refreshing bool
	// reloadPending asks for another fetch once the running one returns.
	reloadPending bool

	width  int
	height int
}

// NewModel creates the gallery in its loading state. fetcher may be nil for
// a fixed post list set later with SetState.
func NewModel(fetcher *loader.Fetcher, cache *thumbs.Cache, opts Options) Model {
	if opts.CellPX <= 0 {
		opts.CellPX = 8
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	theme := DefaultTheme(opts.Renderer)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Renderer.NewStyle().Foreground(theme.Primary)

	ti := textinput.New()
	ti.Placeholder = "Filter posts..."
	ti.Prompt = "/ "
	ti.CharLimit = 100

	h := help.New()
	h.ShortSeparator = " · "

	ctx, cancel := context.WithCancel(context.Background())
	keys := lightbox.NewDispatcher()
	lock := &lightbox.ScrollLock{}

	return Model{
		fetcher:     fetcher,
		thumbs:      cache,
		opts:        opts,
		log:         opts.Log,
		ctx:         ctx,
		cancel:      cancel,
		state:       loader.Loading(),
		keys:        keys,
		lock:        lock,
		lb:          lightbox.New(nil, keys, lock),
		grid:        NewGrid(lock),
		keymap:      DefaultKeyMap(),
		help:        h,
		helpOverlay: NewHelpOverlayModel(theme),
		spinner:     sp,
		filter:      ti,
		theme:       theme,
		md:          newMarkdownRenderer(opts.Dark),
		art:         newArtCache(),
		pending:     make(map[string]bool),
		anim:        slideAnim{frame: slideFrames},
	}
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd(false))
}

// Lightbox exposes the viewer for callers that need to tear it down.
func (m Model) Lightbox() *lightbox.Lightbox {
	return m.lb
}

// State returns the current fetch state.
func (m Model) State() loader.State {
	return m.state
}

// VisiblePosts returns the posts on the grid after filtering.
func (m Model) VisiblePosts() []model.Post {
	return m.grid.Posts()
}

// Teardown closes the lightbox and cancels background work. It is safe to
// call more than once.
func (m Model) Teardown() {
	m.lb.Teardown()
	m.cancel()
}

// SetState applies a fetch result directly, as if a fetch had returned it.
func (m Model) SetState(state loader.State) (Model, tea.Cmd) {
	return m.applyState(postsMsg{state: state})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.grid.SetSize(msg.Width, msg.Height-HeaderHeight-FooterHeight)
		m.helpOverlay.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.filter.Width = maxInt(10, msg.Width-4)
		return m, nil

	case spinner.TickMsg:
		if m.state.Status != loader.StatusLoading && !m.refreshing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case postsMsg:
		return m.applyState(msg)

	case SourceChangedMsg:
		if m.fetching() {
			m.reloadPending = true
			return m, nil
		}
		m.refreshing = true
		return m, tea.Batch(m.fetchCmd(true), m.spinner.Tick)

	case thumbMsg:
		delete(m.pending, msg.url)
		return m, nil

	case prefetchMsg:
		return m, m.prefetchCmd(msg.rest)

	case animTickMsg:
		if msg.seq != m.anim.seq || m.anim.done() {
			return m, nil
		}
		m.anim.frame++
		if m.anim.done() {
			return m, nil
		}
		return m, animTick(msg.seq)

	case copiedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("clipboard copy failed")
			return m.setStatus("Copy failed: " + msg.err.Error())
		}
		return m.setStatus("Copied " + msg.url)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// applyState applies a fetch result. A reload requested while that fetch
// was running starts one more fetch, since the result may predate the change.
func (m Model) applyState(msg postsMsg) (Model, tea.Cmd) {
	m.refreshing = false
	pending := m.reloadPending
	m.reloadPending = false

	m, cmd := m.applyResult(msg)
	if !pending {
		return m, cmd
	}
	m.refreshing = true
	fetch := m.fetchCmd(true)
	return m, tea.Batch(cmd, fetch, m.spinner.Tick)
}

// fetching reports whether a fetch is in flight.
func (m Model) fetching() bool {
	return m.state.Status == loader.StatusLoading || m.refreshing
}

func (m Model) applyResult(msg postsMsg) (Model, tea.Cmd) {
	state := msg.state

	if state.Status == loader.StatusError && msg.refresh && len(m.posts) > 0 {
		m.log.Warn().Err(state.Err).Msg("reload failed; keeping previous posts")
		return m.setStatus("Reload failed: " + state.Message())
	}

	m.state = state
	if state.Status != loader.StatusReady {
		return m, nil
	}

	m.posts = state.Posts
	m.lb.SetPosts(m.posts)
	m.applyFilter()

	covers := make([]string, 0, len(m.posts))
	for _, p := range m.posts {
		if c := p.Cover(); c != "" {
			covers = append(covers, c)
		}
	}
	cmds := []tea.Cmd{m.prefetchCmd(covers), m.afterLightbox()}
	if msg.refresh {
		m.log.Info().Int("posts", len(m.posts)).Msg("gallery reloaded")
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) applyFilter() {
	m.grid.SetPosts(FilterPosts(m.posts, m.filter.Value()))
}

func (m Model) setStatus(text string) (Model, tea.Cmd) {
	m.statusSeq++
	m.status = text
	return m, clearStatusAfter(m.statusSeq)
}

func (m Model) quit() (Model, tea.Cmd) {
	m.Teardown()
	return m, tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.helpOverlay.IsVisible() {
		m.helpOverlay, _ = m.helpOverlay.Update(msg)
		return m, nil
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	// Window-level listeners first: while the lightbox is open its listener
	// consumes navigation keys.
	if name := m.keymap.lightboxKey(msg); name != "" && m.keys.Dispatch(name) {
		cmd := m.afterLightbox()
		return m, cmd
	}
	if m.lb.IsOpen() {
		return m.handleLightboxKey(msg)
	}

	switch m.state.Status {
	case loader.StatusLoading:
		if key.Matches(msg, m.keymap.Quit) {
			return m.quit()
		}
		return m, nil
	case loader.StatusError:
		switch {
		case key.Matches(msg, m.keymap.Retry):
			m.state = loader.Loading()
			return m, tea.Batch(m.spinner.Tick, m.fetchCmd(false))
		case key.Matches(msg, m.keymap.Quit):
			return m.quit()
		}
		return m, nil
	}

	return m.handleGridKey(msg)
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	switch {
	case key.Matches(msg, km.Quit):
		return m.quit()
	case key.Matches(msg, km.Help):
		m.helpOverlay.Toggle()
	case key.Matches(msg, km.Up):
		m.grid.Move(0, -1)
	case key.Matches(msg, km.Down):
		m.grid.Move(0, 1)
	case key.Matches(msg, km.Left):
		m.grid.Move(-1, 0)
	case key.Matches(msg, km.Right):
		m.grid.Move(1, 0)
	case key.Matches(msg, km.PageUp):
		m.grid.Scroll(-m.grid.VisibleRows())
	case key.Matches(msg, km.PageDown):
		m.grid.Scroll(m.grid.VisibleRows())
	case key.Matches(msg, km.First):
		m.grid.Select(0)
	case key.Matches(msg, km.Last):
		m.grid.Select(len(m.grid.Posts()) - 1)
	case key.Matches(msg, km.Open):
		return m.openSelected()
	case key.Matches(msg, km.Filter):
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, km.Close):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}
	case key.Matches(msg, km.Copy):
		if p, ok := m.grid.Selected(); ok {
			return m, copyCmd(p.Cover())
		}
	case key.Matches(msg, km.Retry):
		return m.reload()
	}
	return m, nil
}

func (m Model) handleLightboxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	switch {
	case key.Matches(msg, km.Quit):
		m.keys.Dispatch(lightbox.KeyEscape)
	case key.Matches(msg, km.Copy):
		return m, copyCmd(m.lb.View().CurrentImageURL)
	case key.Matches(msg, km.Help):
		m.helpOverlay.Toggle()
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= 9 {
			m.lb.GoTo(n - 1)
		}
	}
	cmd := m.afterLightbox()
	return m, cmd
}

// reload drops failed images so they are fetched again and refetches posts.
func (m Model) reload() (Model, tea.Cmd) {
	if m.thumbs != nil {
		for _, p := range m.posts {
			for _, u := range p.ImageURLs {
				if _, err, ok := m.thumbs.Get(u); ok && err != nil {
					m.thumbs.Forget(u)
				}
			}
		}
	}
	m.art.reset()
	if m.fetching() {
		m.reloadPending = true
		return m, nil
	}
	m.refreshing = true
	return m, tea.Batch(m.spinner.Tick, m.fetchCmd(true))
}

func (m Model) openSelected() (Model, tea.Cmd) {
	p, ok := m.grid.Selected()
	if !ok {
		return m, nil
	}
	return m.openPost(p.ID)
}

func (m Model) openPost(id string) (Model, tea.Cmd) {
	if !m.lb.Open(id) {
		return m, nil
	}
	m.press = pressState{}
	// No slide for the first image.
	m.anim = slideAnim{seq: m.lb.View().Transition.Seq, frame: slideFrames}
	cmd := m.afterLightbox()
	return m, cmd
}

// afterLightbox runs after anything that may have moved the lightbox: it
// starts the slide animation for a new transition and loads the current
// image and its neighbours.
func (m *Model) afterLightbox() tea.Cmd {
	v := m.lb.View()
	if !v.Open {
		m.press = pressState{}
		return nil
	}
	var cmds []tea.Cmd
	if tr := v.Transition; tr.Seq != m.anim.seq {
		m.anim = slideAnim{seq: tr.Seq, enter: tr.Enter}
		cmds = append(cmds, animTick(tr.Seq))
	}
	if v.Count > 0 {
		urls := v.Post.ImageURLs
		cmds = append(cmds,
			m.loadThumbCmd(urls[v.Index]),
			m.loadThumbCmd(urls[(v.Index+1)%v.Count]),
			m.loadThumbCmd(urls[(v.Index+v.Count-1)%v.Count]),
		)
	}
	return tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.helpOverlay.IsVisible() {
		return m.helpOverlay.View()
	}

	t := m.theme
	place := func(s string) string {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
	}

	switch m.state.Status {
	case loader.StatusLoading:
		return place(m.spinner.View() + " Loading gallery...")
	case loader.StatusError:
		msg := t.Renderer.NewStyle().Foreground(t.Danger).Bold(true).Render("Failed to load gallery")
		detail := t.Renderer.NewStyle().Foreground(t.Subtext).Render(m.state.Message())
		hint := t.Renderer.NewStyle().Faint(true).Render("press r to retry, q to quit")
		return place(lipgloss.JoinVertical(lipgloss.Center, msg, detail, "", hint))
	}

	if m.lb.IsOpen() {
		return m.renderLightbox()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderBody(), m.renderFooter())
}

func (m Model) renderHeader() string {
	t := m.theme
	title := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render(galleryTitle)
	if m.refreshing {
		title += " " + m.spinner.View()
	}

	var sub string
	switch {
	case m.filtering:
		sub = m.filter.View()
	case m.filter.Value() != "":
		sub = t.Renderer.NewStyle().Foreground(t.Subtext).Render(
			fmt.Sprintf("filter: %s (%d of %d)", m.filter.Value(), len(m.grid.Posts()), len(m.posts)))
	case m.width >= BreakpointNarrow:
		sub = t.Renderer.NewStyle().Foreground(t.Muted).Italic(true).Render(gallerySubtitle)
	}
	return strings.Join([]string{title, sub, RenderDivider(m.width, t)}, "\n")
}

func (m Model) renderBody() string {
	height := maxInt(0, m.height-HeaderHeight-FooterHeight)
	var body string
	switch {
	case len(m.posts) == 0:
		hint := "No posts yet."
		if m.opts.Source != "" {
			hint = fmt.Sprintf("No posts in %s.", m.opts.Source)
		}
		body = lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			m.theme.Renderer.NewStyle().Foreground(m.theme.Muted).Render(hint))
	case len(m.grid.Posts()) == 0:
		body = lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			m.theme.Renderer.NewStyle().Foreground(m.theme.Muted).Render("No posts match the filter."))
	default:
		body = m.grid.View(m.theme, m.coverBlock)
	}
	return m.theme.Renderer.NewStyle().Height(height).MaxHeight(height).Render(body)
}

func (m Model) renderFooter() string {
	status := m.status
	if status == "" && m.state.Report.Malformed+m.state.Report.Invalid > 0 {
		status = fmt.Sprintf("%d posts loaded, %d skipped",
			m.state.Report.Loaded, m.state.Report.Malformed+m.state.Report.Invalid)
	}
	statusLine := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext).Render(status)
	return statusLine + "\n" + m.help.View(m.keymap)
}

func (m Model) coverBlock(p model.Post, cols, rows int) string {
	return m.imageBlock(p.Cover(), cols, rows, slideAnim{frame: slideFrames})
}
