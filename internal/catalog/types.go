package catalog

import (
	"strings"
	"time"
)

const releaseDateLayout = "2006-01-02"

// MovieSummary is the card-level movie record returned by list endpoints
// (trending, search, recommendations).
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// Genre is a single genre tag on a MovieDetail.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetail mirrors GET /movies/{id}.
type MovieDetail struct {
	MovieSummary
	Tagline  string  `json:"tagline"`
	Runtime  int     `json:"runtime"`
	Overview string  `json:"overview"`
	Genres   []Genre `json:"genres"`
}

// ListResponse mirrors the list endpoints. A payload without a results
// field decodes to an empty Results slice.
type ListResponse struct {
	Results []MovieSummary `json:"results"`
}

// Movie is anything that can be reduced to a MovieSummary. Both
// MovieSummary and MovieDetail satisfy it.
type Movie interface {
	Summary() MovieSummary
}

// Summary returns m itself. MovieDetail inherits it, which projects a detail
// onto its card-level fields.
func (m MovieSummary) Summary() MovieSummary {
	return m
}

// HasPoster reports whether the movie carries a non-blank poster path.
func (m MovieSummary) HasPoster() bool {
	return m.PosterPath != nil && strings.TrimSpace(*m.PosterPath) != ""
}

// ParsedReleaseDate returns the release date, or the zero time when it is
// missing or malformed.
func (m MovieSummary) ParsedReleaseDate() time.Time {
	value := strings.TrimSpace(m.ReleaseDate)
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(releaseDateLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Year returns the four-digit release year, or "" when unknown.
func (m MovieSummary) Year() string {
	value := strings.TrimSpace(m.ReleaseDate)
	if value == "" {
		return ""
	}
	year, _, _ := strings.Cut(value, "-")
	return year
}

// Rating returns VoteAverage clamped to the 0-10 scale.
func (m MovieSummary) Rating() float64 {
	switch {
	case m.VoteAverage < 0:
		return 0
	case m.VoteAverage > 10:
		return 10
	default:
		return m.VoteAverage
	}
}

// GenreNames returns the genre names in API order.
func (d MovieDetail) GenreNames() []string {
	if len(d.Genres) == 0 {
		return nil
	}
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// CloneSummaries returns an independent copy of items.
func CloneSummaries(items []MovieSummary) []MovieSummary {
	if len(items) == 0 {
		return nil
	}
	dup := make([]MovieSummary, len(items))
	copy(dup, items)
	return dup
}
