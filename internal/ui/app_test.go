package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
)

type stubFetcher struct {
	mu       sync.Mutex
	trending []catalog.MovieSummary
	results  []catalog.MovieSummary
	detail   map[int]*catalog.MovieDetail
	recs     []catalog.MovieSummary
	err      error

	queries       []string
	trendingCalls int
}

func (s *stubFetcher) Trending(context.Context) ([]catalog.MovieSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trendingCalls++
	if s.err != nil {
		return nil, s.err
	}
	return catalog.CloneSummaries(s.trending), nil
}

func (s *stubFetcher) Search(_ context.Context, query string) ([]catalog.MovieSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return catalog.CloneSummaries(s.results), nil
}

func (s *stubFetcher) Movie(_ context.Context, id int) (*catalog.MovieDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if d, ok := s.detail[id]; ok {
		clone := *d
		return &clone, nil
	}
	return &catalog.MovieDetail{MovieSummary: catalog.MovieSummary{ID: id, Title: "Untitled"}}, nil
}

func (s *stubFetcher) Recommendations(context.Context, int) ([]catalog.MovieSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return catalog.CloneSummaries(s.recs), nil
}

func sampleMovies() []catalog.MovieSummary {
	return []catalog.MovieSummary{
		{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30", VoteAverage: 8.2},
		{ID: 194, Title: "Amélie", ReleaseDate: "2001-04-25", VoteAverage: 7.9},
		{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.9},
	}
}

type harness struct {
	t         *testing.T
	model     Model
	ctrl      *controller.Controller
	fetcher   *stubFetcher
	prefsPath string
}

func newHarness(t *testing.T, f *stubFetcher, mutate ...func(*Options)) *harness {
	t.Helper()
	ctrl := controller.New(f, nil, zerolog.Nop())
	t.Cleanup(ctrl.Close)

	opts := Options{
		Context:    context.Background(),
		Controller: ctrl,
		Logger:     zerolog.Nop(),
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	h := &harness{t: t, model: New(opts), ctrl: ctrl, fetcher: f, prefsPath: opts.PrefsPath}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

// send feeds msg to the model and returns the command it produced.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.model.Update(msg)
	m, ok := next.(Model)
	require.True(h.t, ok, "Update returned %T", next)
	h.model = m
	return cmd
}

// run executes cmd and feeds its message back, as the runtime would.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	h.send(cmd())
}

func (h *harness) press(keys ...string) tea.Cmd {
	h.t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = h.send(keyMsg(k))
	}
	return cmd
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) loadTrending() {
	h.t.Helper()
	h.run(loadTrendingCmd(h.model.ctx, h.ctrl))
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := New(Options{})
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_TrendingRendersRows(t *testing.T) {
	h := newHarness(t, &stubFetcher{trending: sampleMovies()})
	h.loadTrending()

	view := h.model.View()
	for _, title := range []string{"The Matrix", "Amélie", "Heat"} {
		assert.Contains(t, view, title)
	}
	assert.Contains(t, view, "1999")
	assert.Contains(t, view, "8.2")

	h.press("j")
	movie, ok := h.model.highlighted()
	require.True(t, ok)
	assert.Equal(t, 194, movie.ID)

	h.press("G")
	movie, _ = h.model.highlighted()
	assert.Equal(t, 949, movie.ID)

	h.press("j")
	assert.Equal(t, 2, h.model.cursor, "cursor stays on the last row")
}

func TestModel_TrendingFailureKeepsEmptyState(t *testing.T) {
	h := newHarness(t, &stubFetcher{err: errors.New("offline")})
	h.loadTrending()

	assert.Contains(t, h.model.View(), "No trending movies. Press t to retry.")
	assert.Empty(t, h.model.notice)
	assert.False(t, h.model.snap.Loading)
}

func TestModel_TrendingKeyRefetches(t *testing.T) {
	f := &stubFetcher{trending: sampleMovies()}
	h := newHarness(t, f)
	h.loadTrending()

	cmd := h.press("t")
	h.run(cmd)
	assert.Equal(t, 2, f.trendingCalls)
}

func TestModel_SearchSubmit(t *testing.T) {
	f := &stubFetcher{results: []catalog.MovieSummary{{ID: 604, Title: "The Matrix Reloaded"}}}
	h := newHarness(t, f)

	h.press("/")
	assert.Equal(t, modeSearch, h.model.mode)

	// Keys typed into the search bar are not commands.
	h.typeText("matrix q")
	assert.Equal(t, modeSearch, h.model.mode)

	cmd := h.press("enter")
	assert.Equal(t, modeBrowse, h.model.mode)
	h.run(cmd)

	assert.Equal(t, []string{"matrix q"}, f.queries)
	assert.Equal(t, state.TabSearch, h.model.snap.ActiveTab)
	assert.Equal(t, "matrix q", h.model.snap.SearchQuery)
	view := h.model.View()
	assert.Contains(t, view, "The Matrix Reloaded")
	assert.Contains(t, view, "search:")
}

func TestModel_SearchBlankSubmitIsNoop(t *testing.T) {
	f := &stubFetcher{}
	h := newHarness(t, f)

	h.press("/")
	h.typeText("   ")
	cmd := h.press("enter")
	assert.Nil(t, cmd)
	assert.Empty(t, f.queries)
	assert.Equal(t, state.TabTrending, h.model.snap.ActiveTab)
}

func TestModel_SearchCancelKeepsState(t *testing.T) {
	h := newHarness(t, &stubFetcher{})
	h.press("/")
	h.typeText("heat")
	cmd := h.press("esc")
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, h.model.mode)
	assert.Empty(t, h.model.snap.SearchQuery)
}

func TestModel_FilterNarrowsAndClears(t *testing.T) {
	h := newHarness(t, &stubFetcher{trending: sampleMovies()})
	h.loadTrending()

	h.press("f")
	assert.Equal(t, modeFilter, h.model.mode)
	h.typeText("amelie")
	got := h.model.visibleMovies()
	require.Len(t, got, 1)
	assert.Equal(t, "Amélie", got[0].Title)

	h.press("enter")
	assert.Equal(t, modeBrowse, h.model.mode)
	assert.Equal(t, "amelie", h.model.filterQuery)
	assert.Contains(t, h.model.View(), "filter:")

	// esc clears the filter before it means "back".
	h.press("esc")
	assert.Empty(t, h.model.filterQuery)
	assert.Len(t, h.model.visibleMovies(), 3)
}

func TestModel_FilterWithoutMatches(t *testing.T) {
	h := newHarness(t, &stubFetcher{trending: sampleMovies()})
	h.loadTrending()
	h.press("f")
	h.typeText("zzz")
	assert.Contains(t, h.model.View(), `No titles match "zzz".`)
}

func TestModel_ToggleFavoriteAndFavoritesTab(t *testing.T) {
	h := newHarness(t, &stubFetcher{trending: sampleMovies()})
	h.loadTrending()

	h.press("j", "space")
	require.Len(t, h.model.snap.Favorites, 1)
	assert.Equal(t, 194, h.model.snap.Favorites[0].ID)
	assert.Contains(t, h.model.View(), "Favorites (1)")
	assert.Contains(t, h.model.View(), "♥")

	h.press("v")
	assert.Equal(t, state.TabFavorites, h.model.snap.ActiveTab)
	assert.Contains(t, h.model.View(), "Amélie")

	h.press("space")
	assert.Empty(t, h.model.snap.Favorites)
	assert.Contains(t, h.model.View(), "No favorites yet.")
}

func TestModel_OpenDetailsAndBack(t *testing.T) {
	tagline := "Welcome to the Real World."
	f := &stubFetcher{
		trending: sampleMovies(),
		detail: map[int]*catalog.MovieDetail{
			603: {
				MovieSummary: catalog.MovieSummary{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30", VoteAverage: 8.2},
				Tagline:      tagline,
				Runtime:      136,
				Overview:     "A hacker learns the truth.",
				Genres:       []catalog.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
			},
		},
		recs: []catalog.MovieSummary{{ID: 604, Title: "The Matrix Reloaded"}},
	}
	h := newHarness(t, f)
	h.loadTrending()

	cmd := h.press("enter")
	h.run(cmd)

	require.NotNil(t, h.model.snap.SelectedMovie)
	assert.Equal(t, state.TabDetails, h.model.snap.ActiveTab)
	view := h.model.View()
	for _, want := range []string{tagline, "2h 16m", "Action, Science Fiction", "Similar Movies", "The Matrix Reloaded", "Details"} {
		assert.Contains(t, view, want)
	}

	// space on details favorites the movie being shown, not the highlighted
	// recommendation.
	h.press("space")
	require.Len(t, h.model.snap.Favorites, 1)
	assert.Equal(t, 603, h.model.snap.Favorites[0].ID)

	h.press("b")
	assert.Equal(t, state.TabTrending, h.model.snap.ActiveTab)
	assert.Equal(t, 1, f.trendingCalls, "back does not refetch")
	assert.Contains(t, h.model.View(), "Heat")
}

func TestModel_DetailsTabNotReachableWithoutSelection(t *testing.T) {
	h := newHarness(t, &stubFetcher{})
	h.model.switchTab(state.TabDetails)
	assert.Equal(t, state.TabTrending, h.model.snap.ActiveTab)
	assert.NotContains(t, h.model.View(), "Details")
}

func TestModel_CopyUsesClipboard(t *testing.T) {
	h := newHarness(t, &stubFetcher{trending: sampleMovies()})
	h.loadTrending()

	var copied string
	h.model.copyText = func(s string) error {
		copied = s
		return nil
	}
	h.run(h.press("y"))

	assert.Equal(t, "The Matrix\n"+catalog.DefaultPlaceholderURL, copied)
	assert.Equal(t, `Copied "The Matrix"`, h.model.notice)

	h.send(clearNoticeMsg{id: h.model.noticeID})
	assert.Empty(t, h.model.notice)
}

func TestModel_CopyFailureShowsNotice(t *testing.T) {
	h := newHarness(t, &stubFetcher{trending: sampleMovies()})
	h.loadTrending()
	h.model.copyText = func(string) error { return errors.New("no clipboard") }

	h.run(h.press("y"))
	assert.Equal(t, "Clipboard unavailable", h.model.notice)

	// An expired notice ID leaves a newer notice alone.
	h.send(clearNoticeMsg{id: h.model.noticeID - 1})
	assert.Equal(t, "Clipboard unavailable", h.model.notice)
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	h := newHarness(t, &stubFetcher{})
	require.Equal(t, prefs.DefaultTheme, h.model.theme.Name)

	h.press("T")
	assert.Equal(t, "Kanagawa", h.model.theme.Name)

	p, err := prefs.Load(h.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, "Kanagawa", p.Theme)
}

func TestModel_EmptyStates(t *testing.T) {
	h := newHarness(t, &stubFetcher{})

	h.press("s")
	assert.Contains(t, h.model.View(), "Press / to search the catalog.")

	h.press("v")
	assert.Contains(t, h.model.View(), "No favorites yet.")
}

func TestModel_HelpOverlay(t *testing.T) {
	h := newHarness(t, &stubFetcher{})
	h.press("?")
	require.True(t, h.model.showHelp)
	view := h.model.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "Toggle favorite")

	// Any key closes help without acting on it.
	cmd := h.press("q")
	assert.Nil(t, cmd)
	assert.False(t, h.model.showHelp)
}

func TestModel_DiagnosticsOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marquee.log")
	line := `{"level":"warn","component":"catalog","error":"timeout","time":"2026-10-19T10:00:00Z","message":"fetch failed"}`
	require.NoError(t, os.WriteFile(path, []byte(line+"\n"), 0o644))

	h := newHarness(t, &stubFetcher{}, func(o *Options) { o.LogPath = path })

	cmd := h.press("L")
	require.NotNil(t, cmd)
	require.True(t, h.model.showDiag)
	require.NotNil(t, h.model.diagCancel)

	h.run(readDiagCmd(path))
	view := h.model.View()
	assert.Contains(t, view, "Diagnostics")
	assert.Contains(t, view, "fetch failed")
	assert.Contains(t, view, "error: timeout")

	h.press("esc")
	assert.False(t, h.model.showDiag)
	assert.Nil(t, h.model.diagCancel)

	// Late change signals after closing are ignored.
	assert.Nil(t, h.send(diagChangedMsg{}))
}

func TestModel_DiagnosticsWithoutLogFile(t *testing.T) {
	h := newHarness(t, &stubFetcher{})
	cmd := h.press("L")
	assert.Nil(t, cmd)
	assert.Contains(t, h.model.View(), "File logging is disabled.")
}

func TestModel_OlderSnapshotIgnored(t *testing.T) {
	h := newHarness(t, &stubFetcher{})
	now := time.Now()

	h.send(snapshotMsg(state.ViewState{ActiveTab: state.TabFavorites, LastUpdated: now}))
	h.send(snapshotMsg(state.ViewState{ActiveTab: state.TabSearch, LastUpdated: now.Add(-time.Second)}))
	assert.Equal(t, state.TabFavorites, h.model.snap.ActiveTab)
}

func TestModel_HeaderShowsRelativeUpdate(t *testing.T) {
	h := newHarness(t, &stubFetcher{trending: sampleMovies()})
	h.loadTrending()
	h.model.now = func() time.Time { return h.model.snap.LastUpdated.Add(3 * time.Minute) }
	assert.Contains(t, h.model.View(), "updated 3 minutes ago")
}

func TestModel_QuitClosesController(t *testing.T) {
	h := newHarness(t, &stubFetcher{})
	cmd := h.press("q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_LoadingShowsSpinner(t *testing.T) {
	h := newHarness(t, &stubFetcher{})
	h.send(snapshotMsg(state.ViewState{ActiveTab: state.TabTrending, Loading: true, LastUpdated: time.Now()}))
	view := h.model.View()
	assert.Contains(t, view, "loading")
	assert.True(t, strings.Contains(view, "Loading trending movies..."))
}
