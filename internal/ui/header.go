package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/marquee/internal/state"
)

// tabOrder is the left-to-right order of the tab strip.
var tabOrder = []state.Tab{state.TabTrending, state.TabSearch, state.TabDetails, state.TabFavorites}

// renderHeader renders the logo, the tab strip, the favorites count, the
// loading spinner and the last-updated time.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("marquee", styles.Logo)}
	for _, tab := range tabOrder {
		if tab == state.TabDetails && m.snap.SelectedMovie == nil {
			continue
		}
		label := tabLabel(tab)
		if tab == state.TabFavorites {
			label = fmt.Sprintf("%s (%d)", label, len(m.snap.Favorites))
		}
		if tab == m.snap.ActiveTab {
			parts = append(parts, styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, styles.Tab.Render(label))
		}
	}
	if m.snap.Loading {
		parts = append(parts, m.spinner.View()+bg.Render(" loading", styles.MutedText))
	}
	left := bg.Join(parts, " ")

	right := ""
	if !m.snap.LastUpdated.IsZero() && m.width >= 80 {
		right = bg.Render("updated "+humanize.RelTime(m.snap.LastUpdated, m.now(), "ago", "from now"), styles.FaintText)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		right = ""
		gap = 1
	}
	return styles.Header.Width(m.width).Render(left + bg.Spaces(gap) + right)
}

// renderBar renders the second line: the active text input or a hint.
func (m Model) renderBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	var content string
	switch {
	case m.mode == modeSearch:
		content = m.searchInput.View()
	case m.mode == modeFilter:
		content = m.filterInput.View()
	case m.filterQuery != "":
		content = bg.Render("filter:", styles.WarningText) + bg.Spaces(1) +
			bg.Render(m.filterQuery, styles.Text) + bg.Spaces(2) +
			bg.Render("(esc clears)", styles.FaintText)
	case m.snap.SearchQuery != "":
		content = bg.Render("search:", styles.MutedText) + bg.Spaces(1) +
			bg.Render(m.snap.SearchQuery, styles.Text)
	default:
		content = bg.Render("press / to search, f to filter, ? for help", styles.FaintText)
	}
	return bg.FillLine(" "+content, m.width)
}

// renderFooter renders the short help line and any transient notice.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	content := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.notice != "" {
		content = styles.WarningText.Render(m.notice) + "  " + content
	}
	return styles.Footer.Width(m.width).Render(truncateANSIWidth(content, m.width-2))
}

func tabLabel(tab state.Tab) string {
	switch tab {
	case state.TabTrending:
		return "Trending"
	case state.TabSearch:
		return "Search"
	case state.TabDetails:
		return "Details"
	case state.TabFavorites:
		return "Favorites"
	default:
		return tab.String()
	}
}

// truncateANSIWidth keeps styled content from wrapping the footer.
func truncateANSIWidth(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
