package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// openDiagnostics shows the log overlay, reads the tail and starts
// watching the file for new lines.
func (m Model) openDiagnostics() (tea.Model, tea.Cmd) {
	m.showDiag = true
	if m.logPath == "" {
		m.diagLines = nil
		m.diagErr = nil
		m.updateDiagViewport()
		return m, nil
	}
	m.closeDiagnosticsWatch()
	ctx, cancel := context.WithCancel(m.ctx)
	m.diagCancel = cancel
	return m, tea.Batch(readDiagCmd(m.logPath), watchDiagCmd(ctx, m.logPath))
}

func (m Model) handleDiagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Diagnostics), key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.closeDiagnostics()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.diagView.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.diagView.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.diagView, cmd = m.diagView.Update(msg)
	return m, cmd
}

func (m *Model) closeDiagnostics() {
	m.showDiag = false
	m.closeDiagnosticsWatch()
}

func (m *Model) closeDiagnosticsWatch() {
	if m.diagCancel != nil {
		m.diagCancel()
		m.diagCancel = nil
	}
	m.diagChanges = nil
}

func (m *Model) resizeDiagViewport() {
	w, h := m.width-4, max(3, m.height-4)
	if m.diagView.Width == 0 && m.diagView.Height == 0 {
		m.diagView = viewport.New(w, h)
	} else {
		m.diagView.Width = w
		m.diagView.Height = h
	}
	m.updateDiagViewport()
}

// updateDiagViewport renders the formatted log lines, following the tail
// when the view was already at the bottom.
func (m *Model) updateDiagViewport() {
	if !m.ready {
		return
	}
	follow := m.diagView.AtBottom() || m.diagView.TotalLineCount() == 0
	styles := m.theme.Styles()

	var content string
	switch {
	case m.logPath == "":
		content = styles.MutedText.Render("File logging is disabled.")
	case m.diagErr != nil:
		content = styles.DangerText.Render(fmt.Sprintf("Cannot read %s: %v", m.logPath, m.diagErr))
	case len(m.diagLines) == 0:
		content = styles.MutedText.Render("No log entries yet.")
	default:
		rendered := make([]string, 0, len(m.diagLines))
		for _, line := range m.diagLines {
			rendered = append(rendered, colorizeLogLine(line, styles))
		}
		content = strings.Join(rendered, "\n")
	}
	m.diagView.SetContent(content)
	if follow {
		m.diagView.GotoBottom()
	}
}

// colorizeLogLine tints the level word of a formatted entry header.
func colorizeLogLine(line string, styles Styles) string {
	if strings.HasPrefix(line, "    ") {
		return styles.MutedText.Render(line)
	}
	for _, lvl := range []struct {
		word  string
		style lipgloss.Style
	}{
		{" ERROR ", styles.DangerText},
		{" WARN ", styles.WarningText},
		{" INFO ", styles.SuccessText},
		{" DEBUG ", styles.AccentText},
	} {
		if idx := strings.Index(line, lvl.word); idx >= 0 {
			word := strings.TrimSpace(lvl.word)
			return styles.FaintText.Render(line[:idx]) + " " + lvl.style.Render(word) + " " + styles.Text.Render(line[idx+len(lvl.word):])
		}
	}
	return styles.Text.Render(line)
}

// renderDiagnostics renders the log overlay.
func (m Model) renderDiagnostics() string {
	styles := m.theme.Styles()
	title := styles.Text.Bold(true).Render("Diagnostics") + "  " + styles.FaintText.Render(truncate(m.logPath, max(10, m.width-20)))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Width(m.width - 2).
		Height(m.height - 3)
	return title + "\n" + box.Render(m.diagView.View())
}
