package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/catalog"
)

// recsHeight is the number of lines the "Similar Movies" block needs.
func (m Model) recsHeight() int {
	n := len(m.visibleMovies())
	if n == 0 {
		n = 2 // empty-state line plus spacing
	}
	return n + 1 // heading
}

// detailHeight is what remains for the scrollable detail body.
func (m Model) detailHeight() int {
	return max(3, m.contentHeight()-m.recsHeight()-1)
}

func (m *Model) resizeViewports() {
	if m.detailView.Width == 0 && m.detailView.Height == 0 {
		m.detailView = viewport.New(m.width, m.detailHeight())
	} else {
		m.detailView.Width = m.width
		m.detailView.Height = m.detailHeight()
	}
	m.resizeDiagViewport()
	m.clampCursor()
	m.updateDetailViewport()
}

// updateDetailViewport re-renders the detail body into the viewport.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	m.detailView.Width = m.width
	m.detailView.Height = m.detailHeight()
	if m.snap.SelectedMovie == nil {
		m.detailView.SetContent("")
		return
	}
	m.detailView.SetContent(m.renderDetailBody(*m.snap.SelectedMovie))
}

// renderDetails renders the detail body followed by the recommendations.
func (m Model) renderDetails() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.detailView.View())
	b.WriteString("\n")
	b.WriteString(" " + styles.AccentText.Bold(true).Render("Similar Movies"))
	if len(m.snap.Recommendations) > maxRecommendations {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  (top %d of %d)", maxRecommendations, len(m.snap.Recommendations))))
	}
	b.WriteString("\n")
	b.WriteString(m.renderGrid(maxRecommendations))
	return b.String()
}

// renderDetailBody renders the selected movie's fields.
func (m Model) renderDetailBody(d catalog.MovieDetail) string {
	styles := m.theme.Styles()
	width := max(20, m.width-4)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder

	title := styles.Text.Bold(true).Render(d.Title)
	if m.snap.IsFavorite(d.ID) {
		title = styles.Favorite.Render("♥ ") + title
	}
	b.WriteString(" " + title + "\n")

	if tagline := strings.TrimSpace(d.Tagline); tagline != "" {
		b.WriteString(" " + styles.MutedText.Italic(true).Render(wrap.Render(tagline)) + "\n")
	}
	b.WriteString("\n")

	var facts []string
	if year := d.Year(); year != "" {
		facts = append(facts, year)
	}
	if d.Runtime > 0 {
		facts = append(facts, formatRuntime(d.Runtime))
	}
	facts = append(facts, styles.Rating.Render(fmt.Sprintf("★ %.1f", d.Rating())))
	if genres := d.GenreNames(); len(genres) > 0 {
		facts = append(facts, strings.Join(genres, ", "))
	}
	b.WriteString(" " + strings.Join(facts, styles.FaintText.Render("  ·  ")) + "\n\n")

	overview := strings.TrimSpace(d.Overview)
	if overview == "" {
		overview = "No overview available."
	}
	for _, line := range strings.Split(wrap.Render(overview), "\n") {
		b.WriteString(" " + styles.Text.Render(line) + "\n")
	}
	b.WriteString("\n")

	poster := m.images.PosterURL(d.Summary())
	b.WriteString(" " + styles.FaintText.Render("poster ") + styles.MutedText.Render(poster))
	return b.String()
}

func formatRuntime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
