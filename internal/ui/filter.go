package ui

import (
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/five82/marquee/internal/catalog"
)

// filterMovies narrows movies to those whose title fuzzily matches query,
// best match first. Subsequence matching runs on lower-cased titles; when
// that finds nothing, a diacritic-insensitive pass catches queries such as
// "amelie" for "Amélie". An empty query returns movies unchanged.
func filterMovies(movies []catalog.MovieSummary, query string) []catalog.MovieSummary {
	query = strings.TrimSpace(query)
	if query == "" || len(movies) == 0 {
		return movies
	}

	lowerTitles := make([]string, len(movies))
	for i, m := range movies {
		lowerTitles[i] = strings.ToLower(m.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)
	if len(matches) > 0 {
		out := make([]catalog.MovieSummary, len(matches))
		for i, match := range matches {
			out[i] = movies[match.Index]
		}
		return out
	}

	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}
	ranks := lfuzzy.RankFindNormalizedFold(query, titles)
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})
	out := make([]catalog.MovieSummary, len(ranks))
	for i, r := range ranks {
		out[i] = movies[r.OriginalIndex]
	}
	return out
}
