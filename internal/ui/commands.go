package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/controller"
	"github.com/five82/marquee/internal/logtail"
	"github.com/five82/marquee/internal/state"
)

// Messages

// snapshotMsg carries a committed view state.
type snapshotMsg state.ViewState

// resultMsg reports how a fetch-backed controller call ended.
type resultMsg controller.Result

// diagLinesMsg carries the formatted tail of the log file.
type diagLinesMsg struct {
	lines []string
	err   error
}

// diagWatchMsg hands the model a started log watcher.
type diagWatchMsg struct {
	changes <-chan struct{}
	err     error
}

// diagChangedMsg signals that the log file was written.
type diagChangedMsg struct{}

// clipboardMsg reports the outcome of a copy.
type clipboardMsg struct {
	what string
	err  error
}

// clearNoticeMsg expires a status notice.
type clearNoticeMsg struct{ id int }

// tickMsg refreshes relative timestamps.
type tickMsg time.Time

const (
	diagTailLines   = 400
	diagDebounce    = 200 * time.Millisecond
	noticeLifetime  = 3 * time.Second
	relativeRefresh = 15 * time.Second
)

// Commands

func loadTrendingCmd(ctx context.Context, ctrl *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		return resultMsg(ctrl.LoadTrending(ctx))
	}
}

func searchCmd(ctx context.Context, ctrl *controller.Controller, query string) tea.Cmd {
	return func() tea.Msg {
		return resultMsg(ctrl.Search(ctx, query))
	}
}

func selectMovieCmd(ctx context.Context, ctrl *controller.Controller, id int) tea.Cmd {
	return func() tea.Msg {
		return resultMsg(ctrl.SelectMovie(ctx, id))
	}
}

// waitForSnapshot blocks until the store publishes the next snapshot.
func waitForSnapshot(ch <-chan state.ViewState) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func readDiagCmd(path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := logtail.Read(path, diagTailLines)
		if err != nil {
			return diagLinesMsg{err: err}
		}
		return diagLinesMsg{lines: logtail.FormatLines(raw)}
	}
}

func watchDiagCmd(ctx context.Context, path string) tea.Cmd {
	return func() tea.Msg {
		changes, err := logtail.Watch(ctx, path, diagDebounce)
		return diagWatchMsg{changes: changes, err: err}
	}
}

func waitForDiagChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return diagChangedMsg{}
	}
}

func copyCmd(write func(string) error, what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{what: what, err: write(text)}
	}
}

func clearNoticeCmd(id int) tea.Cmd {
	return tea.Tick(noticeLifetime, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
