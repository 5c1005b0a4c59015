package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/state"
)

// ErrDetailsNotNavigable is returned by SetActiveTab for the details tab,
// which is only entered through a successful SelectMovie.
var ErrDetailsNotNavigable = errors.New("details tab is entered by selecting a movie")

// Outcome classifies how a controller operation ended.
type Outcome int

const (
	// OutcomeOK means the fetched data was committed to the store.
	OutcomeOK Outcome = iota
	// OutcomeFailed means the fetch failed and the state was left unchanged.
	OutcomeFailed
	// OutcomeStale means a newer navigation superseded the operation.
	OutcomeStale
	// OutcomeSkipped means the operation was a no-op (blank search).
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the typed outcome of a fetch-backed operation. Callers that want
// the fail-soft behaviour simply ignore anything but OutcomeOK.
type Result struct {
	Op      string
	Outcome Outcome
	Err     error
}

// OK reports whether the operation committed.
func (r Result) OK() bool { return r.Outcome == OutcomeOK }

// Controller owns the fetch orchestration behind the UI. All state lives in
// the Store; the Controller only decides what to fetch and what to commit.
type Controller struct {
	fetcher catalog.Fetcher
	store   *state.Store
	logger  zerolog.Logger

	mu           sync.Mutex
	cancel       context.CancelFunc
	cancelTicket state.Ticket
}

// New builds a Controller. A nil store gets a fresh zero-value Store.
func New(fetcher catalog.Fetcher, store *state.Store, logger zerolog.Logger) *Controller {
	if store == nil {
		store = &state.Store{}
	}
	return &Controller{
		fetcher: fetcher,
		store:   store,
		logger:  logger.With().Str("component", "controller").Logger(),
	}
}

// Store exposes the underlying snapshot store for subscriptions.
func (c *Controller) Store() *state.Store {
	return c.store
}

// State returns the current snapshot.
func (c *Controller) State() state.ViewState {
	return c.store.Snapshot()
}

// LoadTrending refetches the trending list and switches to the trending tab.
func (c *Controller) LoadTrending(ctx context.Context) Result {
	ctx, ticket, done := c.begin(ctx, nil)
	defer done()

	movies, err := c.fetcher.Trending(ctx)
	return c.settle("load_trending", ticket, err, func(v state.ViewState) state.ViewState {
		v.Trending = movies
		v.ActiveTab = state.TabTrending
		return v
	})
}

// Search runs a catalog search. A blank query is a no-op: no request, no
// state change.
func (c *Controller) Search(ctx context.Context, query string) Result {
	if strings.TrimSpace(query) == "" {
		return Result{Op: "search", Outcome: OutcomeSkipped}
	}

	ctx, ticket, done := c.begin(ctx, func(v state.ViewState) state.ViewState {
		v.SearchQuery = query
		return v
	})
	defer done()

	movies, err := c.fetcher.Search(ctx, query)
	return c.settle("search", ticket, err, func(v state.ViewState) state.ViewState {
		v.SearchResults = movies
		v.ActiveTab = state.TabSearch
		return v
	})
}

// SelectMovie fetches the detail and the recommendations for id in parallel.
// Both land together or not at all.
func (c *Controller) SelectMovie(ctx context.Context, id int) Result {
	ctx, ticket, done := c.begin(ctx, nil)
	defer done()

	var (
		detail *catalog.MovieDetail
		recs   []catalog.MovieSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := c.fetcher.Movie(gctx, id)
		if err != nil {
			return fmt.Errorf("movie %d: %w", id, err)
		}
		detail = d
		return nil
	})
	g.Go(func() error {
		r, err := c.fetcher.Recommendations(gctx, id)
		if err != nil {
			return fmt.Errorf("recommendations %d: %w", id, err)
		}
		recs = r
		return nil
	})
	err := g.Wait()
	if err == nil && detail == nil {
		err = fmt.Errorf("movie %d: %w: empty detail", id, catalog.ErrFetchFailed)
	}

	return c.settle("select_movie", ticket, err, func(v state.ViewState) state.ViewState {
		v.SelectedMovie = detail
		v.Recommendations = recs
		v.ActiveTab = state.TabDetails
		return v
	})
}

// ToggleFavorite adds movie to the favorites or removes it when an entry
// with the same ID exists. It reports whether movie is a favorite afterwards.
func (c *Controller) ToggleFavorite(movie catalog.Movie) bool {
	summary := movie.Summary()
	var added bool
	c.store.Update(func(v state.ViewState) state.ViewState {
		next, isFav := v.ToggleFavorite(summary)
		added = isFav
		return next
	})
	c.logger.Debug().Int("movie_id", summary.ID).Bool("favorite", added).Msg("favorite toggled")
	return added
}

// IsFavorite reports whether id is in the favorites.
func (c *Controller) IsFavorite(id int) bool {
	return c.store.Snapshot().IsFavorite(id)
}

// SetActiveTab switches tabs without fetching. Any in-flight request is
// cancelled and its late response will be dropped.
func (c *Controller) SetActiveTab(tab state.Tab) error {
	switch tab {
	case state.TabTrending, state.TabSearch, state.TabFavorites:
	case state.TabDetails:
		return ErrDetailsNotNavigable
	default:
		return fmt.Errorf("unknown tab %v", tab)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Navigate(func(v state.ViewState) state.ViewState {
		v.ActiveTab = tab
		return v
	})
	c.cancelLocked()
	return nil
}

// Close cancels any in-flight request.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

// begin supersedes the previous navigation: it cancels the in-flight request,
// opens a new generation and returns a context scoped to this operation.
func (c *Controller) begin(parent context.Context, fn func(state.ViewState) state.ViewState) (context.Context, state.Ticket, func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	// The generation moves before the old request is cancelled so that its
	// cancellation error always settles as stale.
	c.mu.Lock()
	ticket := c.store.Begin(fn)
	c.cancelLocked()
	c.cancel = cancel
	c.cancelTicket = ticket
	c.mu.Unlock()

	return ctx, ticket, func() {
		c.mu.Lock()
		if c.cancelTicket == ticket {
			c.cancel = nil
		}
		c.mu.Unlock()
		cancel()
	}
}

func (c *Controller) cancelLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// settle commits apply when err is nil and the ticket is current; otherwise
// it clears loading (if still current) and swallows the error after logging.
func (c *Controller) settle(op string, ticket state.Ticket, err error, apply func(state.ViewState) state.ViewState) Result {
	if err == nil {
		if c.store.Commit(ticket, apply) {
			return Result{Op: op, Outcome: OutcomeOK}
		}
		c.logger.Debug().Str("op", op).Uint64("generation", uint64(ticket)).Msg("dropping superseded response")
		return Result{Op: op, Outcome: OutcomeStale}
	}

	if !c.store.Finish(ticket) {
		c.logger.Debug().Err(err).Str("op", op).Uint64("generation", uint64(ticket)).Msg("superseded request ended")
		return Result{Op: op, Outcome: OutcomeStale, Err: err}
	}
	c.logger.Warn().Err(err).Str("op", op).Msg("fetch failed")
	return Result{Op: op, Outcome: OutcomeFailed, Err: err}
}
