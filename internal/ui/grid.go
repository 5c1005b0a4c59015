package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/state"
)

const (
	maxRecommendations = 10
	yearWidth          = 4
	ratingWidth        = 4
	markerWidth        = 2
)

// renderMain renders the full screen.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBar())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Height(m.contentHeight()).MaxHeight(m.contentHeight()).Render(m.renderContent()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// contentHeight is the space left between the two bars and the footer.
func (m Model) contentHeight() int {
	return max(1, m.height-3)
}

func (m Model) renderContent() string {
	if m.snap.ActiveTab == state.TabDetails && m.snap.SelectedMovie != nil {
		return m.renderDetails()
	}
	return m.renderGrid(m.contentHeight())
}

// renderGrid renders the visible movie list with the cursor row selected,
// scrolled so the cursor stays on screen.
func (m Model) renderGrid(height int) string {
	movies := m.visibleMovies()
	if len(movies) == 0 {
		return m.renderEmpty()
	}

	offset := m.offset
	if m.cursor < offset {
		offset = m.cursor
	}
	if m.cursor >= offset+height {
		offset = m.cursor - height + 1
	}
	end := min(len(movies), offset+height)

	rows := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		rows = append(rows, m.renderRow(movies[i], i == m.cursor))
	}
	return strings.Join(rows, "\n")
}

// renderRow renders one movie card: favorite marker, title, year, rating.
func (m Model) renderRow(movie catalog.MovieSummary, selected bool) string {
	styles := m.theme.Styles()
	titleWidth := max(8, m.width-markerWidth-yearWidth-ratingWidth-6)

	marker := "  "
	if m.snap.IsFavorite(movie.ID) {
		marker = "♥ "
	}
	year := movie.Year()
	if year == "" {
		year = strings.Repeat("·", yearWidth)
	}
	rating := fmt.Sprintf("%.1f", movie.Rating())
	title := padRight(movie.Title, titleWidth)

	if selected {
		line := fmt.Sprintf(" %s%s  %s  %*s ", marker, title, padRight(year, yearWidth), ratingWidth, rating)
		return styles.Selected.Width(m.width).Render(line)
	}
	return " " +
		styles.Favorite.Render(marker) +
		styles.Text.Render(title) + "  " +
		styles.MutedText.Render(padRight(year, yearWidth)) + "  " +
		styles.Rating.Render(fmt.Sprintf("%*s", ratingWidth, rating))
}

// renderEmpty renders the empty state for the active tab.
func (m Model) renderEmpty() string {
	styles := m.theme.Styles()
	var msg string
	switch {
	case m.filterQuery != "":
		msg = fmt.Sprintf("No titles match %q.", m.filterQuery)
	case m.snap.ActiveTab == state.TabTrending && m.snap.Loading:
		msg = "Loading trending movies..."
	case m.snap.ActiveTab == state.TabTrending:
		msg = "No trending movies. Press t to retry."
	case m.snap.ActiveTab == state.TabSearch && m.snap.Loading:
		msg = "Searching..."
	case m.snap.ActiveTab == state.TabSearch && m.snap.SearchQuery == "":
		msg = "Press / to search the catalog."
	case m.snap.ActiveTab == state.TabSearch:
		msg = fmt.Sprintf("No results for %q.", m.snap.SearchQuery)
	case m.snap.ActiveTab == state.TabFavorites:
		msg = "No favorites yet. Press space on any movie to add it."
	case m.snap.ActiveTab == state.TabDetails:
		msg = "No similar movies."
	}
	return "\n  " + styles.MutedText.Render(msg)
}
