package catalog

import "strings"

const (
	DefaultImageBaseURL   = "https://image.tmdb.org/t/p/w500"
	DefaultPlaceholderURL = "https://via.placeholder.com/500x750?text=No+Poster"
)

// Images derives poster URLs from poster paths.
type Images struct {
	BaseURL     string
	Placeholder string
}

// PosterURL concatenates the image base with the movie's poster path, or
// returns the placeholder when the movie has no poster.
func (i Images) PosterURL(m MovieSummary) string {
	if !m.HasPoster() {
		return i.placeholder()
	}
	base := strings.TrimRight(strings.TrimSpace(i.BaseURL), "/")
	if base == "" {
		base = DefaultImageBaseURL
	}
	path := strings.TrimSpace(*m.PosterPath)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (i Images) placeholder() string {
	if p := strings.TrimSpace(i.Placeholder); p != "" {
		return p
	}
	return DefaultPlaceholderURL
}
