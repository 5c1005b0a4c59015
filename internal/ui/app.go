package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
)

// inputMode says which text input, if any, owns the keyboard.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeSearch
	modeFilter
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *controller.Controller
	Images     catalog.Images
	Logger     zerolog.Logger
	LogPath    string
	ThemeName  string
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ctrl      *controller.Controller
	images    catalog.Images
	logger    zerolog.Logger
	logPath   string
	prefsPath string
	keys      keyMap
	copyText  func(string) error
	now       func() time.Time

	// Store subscription
	updates     <-chan state.ViewState
	unsubscribe func()

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	mode   inputMode

	// Data state
	snap state.ViewState

	// Grid state
	cursor      int
	offset      int
	filterQuery string

	// Components
	spinner     spinner.Model
	help        help.Model
	searchInput textinput.Model
	filterInput textinput.Model
	detailView  viewport.Model

	// Overlays
	showHelp    bool
	showDiag    bool
	diagView    viewport.Model
	diagLines   []string
	diagErr     error
	diagCancel  context.CancelFunc
	diagChanges <-chan struct{}

	// Transient status line
	notice   string
	noticeID int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Placeholder = "Search movies..."
	search.Prompt = "/ "
	search.CharLimit = 200

	filter := textinput.New()
	filter.Placeholder = "Filter list..."
	filter.Prompt = "f "
	filter.CharLimit = 100

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:         ctx,
		ctrl:        opts.Controller,
		images:      opts.Images,
		logger:      opts.Logger.With().Str("component", "ui").Logger(),
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		keys:        DefaultKeyMap(),
		copyText:    clipboard.WriteAll,
		now:         time.Now,
		theme:       GetTheme(themeName),
		spinner:     spin,
		help:        help.New(),
		searchInput: search,
		filterInput: filter,
	}
	if m.ctrl != nil {
		m.snap = m.ctrl.State()
		m.updates, m.unsubscribe = m.ctrl.Store().Subscribe()
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model. Startup immediately loads the trending list.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		tickCmd(relativeRefresh),
	}
	if m.ctrl != nil {
		cmds = append(cmds,
			loadTrendingCmd(m.ctx, m.ctrl),
			waitForSnapshot(m.updates),
		)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.searchInput.Width = max(10, msg.Width-6)
		m.filterInput.Width = max(10, msg.Width-6)
		m.resizeViewports()
		return m, nil

	case snapshotMsg:
		m.applySnapshot(state.ViewState(msg))
		return m, waitForSnapshot(m.updates)

	case resultMsg:
		res := controller.Result(msg)
		m.logger.Debug().Str("op", res.Op).Stringer("outcome", res.Outcome).Msg("operation settled")
		if m.ctrl != nil {
			m.applySnapshot(m.ctrl.State())
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tickCmd(relativeRefresh)

	case diagLinesMsg:
		m.diagLines = msg.lines
		m.diagErr = msg.err
		m.updateDiagViewport()
		return m, nil

	case diagWatchMsg:
		if msg.err != nil {
			m.logger.Debug().Err(msg.err).Msg("diagnostics watch unavailable")
			return m, nil
		}
		if !m.showDiag {
			return m, nil
		}
		m.diagChanges = msg.changes
		return m, waitForDiagChange(m.diagChanges)

	case diagChangedMsg:
		if !m.showDiag {
			return m, nil
		}
		return m, tea.Batch(readDiagCmd(m.logPath), waitForDiagChange(m.diagChanges))

	case clipboardMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("clipboard write failed")
			return m.setNotice("Clipboard unavailable")
		}
		return m.setNotice("Copied " + msg.what)

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showDiag {
		return m.renderDiagnostics()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.showDiag {
		return m.handleDiagKey(msg)
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeFilter:
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				m.logger.Warn().Err(err).Msg("save prefs failed")
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Diagnostics):
		return m.openDiagnostics()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.SetValue(m.snap.SearchQuery)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		m.filterInput.SetValue(m.filterQuery)
		m.filterInput.CursorEnd()
		return m, m.filterInput.Focus()

	case key.Matches(msg, m.keys.Trending):
		if m.ctrl == nil {
			return m, nil
		}
		return m, loadTrendingCmd(m.ctx, m.ctrl)

	case key.Matches(msg, m.keys.Favorites):
		return m.switchTab(state.TabFavorites)

	case key.Matches(msg, m.keys.Results):
		return m.switchTab(state.TabSearch)

	case key.Matches(msg, m.keys.Back):
		if m.filterQuery != "" && msg.String() == "esc" {
			m.clearFilter()
			return m, nil
		}
		if m.snap.ActiveTab == state.TabDetails {
			return m.switchTab(state.TabTrending)
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		movie, ok := m.highlighted()
		if !ok || m.ctrl == nil {
			return m, nil
		}
		return m, selectMovieCmd(m.ctx, m.ctrl, movie.ID)

	case key.Matches(msg, m.keys.ToggleFavorite):
		return m.toggleFavorite()

	case key.Matches(msg, m.keys.Copy):
		return m.copyHighlighted()

	case key.Matches(msg, m.keys.PageUp):
		if m.snap.ActiveTab == state.TabDetails {
			m.detailView.HalfViewUp()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		if m.snap.ActiveTab == state.TabDetails {
			m.detailView.HalfViewDown()
		}
		return m, nil
	}

	m.moveCursor(msg)
	return m, nil
}

// handleSearchKey routes keys to the search bar.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.mode = modeBrowse
		m.searchInput.Blur()
		query := m.searchInput.Value()
		if strings.TrimSpace(query) == "" || m.ctrl == nil {
			return m, nil
		}
		return m, searchCmd(m.ctx, m.ctrl, query)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleFilterKey routes keys to the grid filter, re-filtering as the
// user types.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
		m.filterInput.Blur()
		m.clearFilter()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.mode = modeBrowse
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if q := m.filterInput.Value(); q != m.filterQuery {
		m.filterQuery = q
		m.cursor = 0
		m.offset = 0
	}
	return m, cmd
}

// switchTab performs a fetch-free tab change.
func (m Model) switchTab(tab state.Tab) (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}
	if err := m.ctrl.SetActiveTab(tab); err != nil {
		m.logger.Debug().Err(err).Stringer("tab", tab).Msg("tab switch rejected")
		return m, nil
	}
	m.applySnapshot(m.ctrl.State())
	return m, nil
}

// toggleFavorite toggles the selected movie on the details tab, or the
// highlighted grid row elsewhere.
func (m Model) toggleFavorite() (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}
	var movie catalog.Movie
	if m.snap.ActiveTab == state.TabDetails && m.snap.SelectedMovie != nil {
		movie = m.snap.SelectedMovie
	} else if hl, ok := m.highlighted(); ok {
		movie = hl
	} else {
		return m, nil
	}
	m.ctrl.ToggleFavorite(movie)
	m.applySnapshot(m.ctrl.State())
	return m, nil
}

// copyHighlighted copies the title and poster URL of the current movie.
func (m Model) copyHighlighted() (tea.Model, tea.Cmd) {
	var movie catalog.MovieSummary
	if m.snap.ActiveTab == state.TabDetails && m.snap.SelectedMovie != nil {
		movie = m.snap.SelectedMovie.Summary()
	} else if hl, ok := m.highlighted(); ok {
		movie = hl
	} else {
		return m, nil
	}
	text := fmt.Sprintf("%s\n%s", movie.Title, m.images.PosterURL(movie))
	return m, copyCmd(m.copyText, fmt.Sprintf("%q", movie.Title), text)
}

// moveCursor handles grid navigation keys.
func (m *Model) moveCursor(msg tea.KeyMsg) {
	count := len(m.visibleMovies())
	if count == 0 {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < count-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = count - 1
	}
	m.clampCursor()
}

// applySnapshot installs snap unless it is older than what is shown.
// Tab changes reset the cursor and the filter.
func (m *Model) applySnapshot(snap state.ViewState) {
	if !m.snap.LastUpdated.IsZero() && snap.LastUpdated.Before(m.snap.LastUpdated) {
		return
	}
	prev := m.snap
	m.snap = snap

	tabChanged := prev.ActiveTab != snap.ActiveTab
	selectionChanged := selectedID(prev) != selectedID(snap)
	if tabChanged || selectionChanged {
		m.cursor = 0
		m.offset = 0
		m.clearFilter()
	}
	if selectionChanged {
		m.detailView.GotoTop()
	}
	m.clampCursor()
	m.updateDetailViewport()
}

func selectedID(v state.ViewState) int {
	if v.SelectedMovie == nil {
		return 0
	}
	return v.SelectedMovie.ID
}

func (m *Model) clearFilter() {
	m.filterQuery = ""
	m.filterInput.SetValue("")
	m.cursor = 0
	m.offset = 0
}

// clampCursor keeps the cursor inside the list and scrolls the grid so the
// cursor row stays visible.
func (m *Model) clampCursor() {
	count := len(m.visibleMovies())
	if m.cursor >= count {
		m.cursor = count - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	page := m.contentHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// visibleMovies returns the list the grid renders: the active tab's movies
// (capped recommendations on details), narrowed by the filter.
func (m Model) visibleMovies() []catalog.MovieSummary {
	movies := m.snap.Grid()
	if m.snap.ActiveTab == state.TabDetails && len(movies) > maxRecommendations {
		movies = movies[:maxRecommendations]
	}
	return filterMovies(movies, m.filterQuery)
}

// highlighted returns the movie under the cursor.
func (m Model) highlighted() (catalog.MovieSummary, bool) {
	movies := m.visibleMovies()
	if m.cursor < 0 || m.cursor >= len(movies) {
		return catalog.MovieSummary{}, false
	}
	return movies[m.cursor], true
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.searchInput.PromptStyle = styles.AccentText
	m.searchInput.TextStyle = styles.Text
	m.filterInput.PromptStyle = styles.WarningText
	m.filterInput.TextStyle = styles.Text
}

func (m Model) setNotice(text string) (tea.Model, tea.Cmd) {
	m.noticeID++
	m.notice = text
	return m, clearNoticeCmd(m.noticeID)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.closeDiagnostics()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.ctrl != nil {
		m.ctrl.Close()
	}
	return m, tea.Quit
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
