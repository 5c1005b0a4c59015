package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/marquee/internal/catalog"
)

// Tab is one of the four mutually exclusive top-level view modes.
type Tab int

const (
	TabTrending Tab = iota
	TabSearch
	TabDetails
	TabFavorites
)

var tabNames = [...]string{"trending", "search", "details", "favorites"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return fmt.Sprintf("tab(%d)", int(t))
	}
	return tabNames[t]
}

// ParseTab resolves a tab name case-insensitively.
func ParseTab(name string) (Tab, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range tabNames {
		if n == name {
			return Tab(i), true
		}
	}
	return TabTrending, false
}

// ViewState is an immutable snapshot of everything the UI renders. The zero
// value is the startup state: trending tab, empty lists, not loading.
type ViewState struct {
	ActiveTab       Tab
	SearchQuery     string
	Loading         bool
	Trending        []catalog.MovieSummary
	SearchResults   []catalog.MovieSummary
	SelectedMovie   *catalog.MovieDetail
	Recommendations []catalog.MovieSummary
	Favorites       []catalog.MovieSummary

	// Generation identifies the navigation that produced this snapshot.
	Generation  uint64
	LastUpdated time.Time
}

// Clone returns a deep copy so callers can edit it without touching the
// stored snapshot.
func (v ViewState) Clone() ViewState {
	dup := v
	dup.Trending = catalog.CloneSummaries(v.Trending)
	dup.SearchResults = catalog.CloneSummaries(v.SearchResults)
	dup.Recommendations = catalog.CloneSummaries(v.Recommendations)
	dup.Favorites = catalog.CloneSummaries(v.Favorites)
	if v.SelectedMovie != nil {
		detail := *v.SelectedMovie
		if len(v.SelectedMovie.Genres) > 0 {
			detail.Genres = make([]catalog.Genre, len(v.SelectedMovie.Genres))
			copy(detail.Genres, v.SelectedMovie.Genres)
		}
		dup.SelectedMovie = &detail
	}
	return dup
}

// Grid returns the list that backs the grid for the active tab. On the
// details tab that is the recommendation list rendered below the detail.
func (v ViewState) Grid() []catalog.MovieSummary {
	switch v.ActiveTab {
	case TabSearch:
		return v.SearchResults
	case TabFavorites:
		return v.Favorites
	case TabDetails:
		return v.Recommendations
	default:
		return v.Trending
	}
}

// IsFavorite reports whether a favorite with id exists.
func (v ViewState) IsFavorite(id int) bool {
	for _, f := range v.Favorites {
		if f.ID == id {
			return true
		}
	}
	return false
}

// ToggleFavorite removes the favorite with movie's id if present and appends
// movie otherwise. It reports whether movie is a favorite afterwards.
func (v ViewState) ToggleFavorite(movie catalog.MovieSummary) (ViewState, bool) {
	next := v.Clone()
	for i, f := range next.Favorites {
		if f.ID == movie.ID {
			next.Favorites = append(next.Favorites[:i:i], next.Favorites[i+1:]...)
			return next, false
		}
	}
	next.Favorites = append(next.Favorites, movie)
	return next, true
}

// Validate checks the snapshot invariants.
func (v ViewState) Validate() error {
	if v.ActiveTab == TabDetails && v.SelectedMovie == nil {
		return fmt.Errorf("details tab active without a selected movie")
	}
	seen := make(map[int]struct{}, len(v.Favorites))
	for _, f := range v.Favorites {
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("duplicate favorite id %d", f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}
