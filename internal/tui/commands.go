package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/truthlens/truthlens/internal/debuglog"
	"github.com/truthlens/truthlens/internal/history"
)

// startAnalysis kicks off the one allowed in-flight detect call. The
// returned command always produces an analysisDoneMsg, panics included, so
// the isAnalyzing flag is guaranteed to be cleared by the Update loop.
func (a *App) startAnalysis(title, text string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelAnalyze = cancel
	detector := a.detector

	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				debuglog.Errorf("analysis panicked: %v", r)
				msg = analysisDoneMsg{err: fmt.Errorf("analysis panicked: %v", r)}
			}
		}()

		result, err := detector.Detect(ctx, title, text)
		return analysisDoneMsg{result: result, title: title, text: text, err: err}
	}
}

// checkHealth probes the backend once, off the Update loop.
func (a *App) checkHealth() tea.Cmd {
	detector := a.detector
	timeout := a.cfg.API.HealthTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		status, err := detector.Health(ctx)
		return healthMsg{status: status, err: err}
	}
}

// saveAnalysis persists a finished analysis and feeds the search index.
// Best effort: a failure here never fails the analysis itself.
func (a *App) saveAnalysis(rec *history.Record) tea.Cmd {
	store := a.store
	engine := a.searchEngine
	return func() tea.Msg {
		if store == nil {
			return historySavedMsg{}
		}
		if err := store.Save(rec); err != nil {
			return historySavedMsg{err: wrapErr("saving analysis", err)}
		}
		if engine != nil {
			if err := engine.Index(rec); err != nil {
				return historySavedMsg{err: wrapErr("indexing analysis", err)}
			}
		}
		return historySavedMsg{}
	}
}

func (a *App) loadHistory() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		if store == nil {
			return historyLoadedMsg{}
		}
		records, err := store.Recent(50)
		if err != nil {
			return errorNoteMsg{err: wrapErr("loading history", err)}
		}
		return historyLoadedMsg{records: records}
	}
}

// searchHistory queries the index; without one it falls back to the plain
// recent listing.
func (a *App) searchHistory(query string) tea.Cmd {
	store := a.store
	engine := a.searchEngine
	return func() tea.Msg {
		if engine == nil {
			if store == nil {
				return historyLoadedMsg{}
			}
			records, err := store.Recent(50)
			if err != nil {
				return errorNoteMsg{err: wrapErr("loading history", err)}
			}
			return historyLoadedMsg{records: records}
		}

		results, err := engine.Search(query, 50)
		if err != nil {
			return errorNoteMsg{err: wrapErr("searching history", err)}
		}
		records := make([]*history.Record, 0, len(results))
		for _, r := range results {
			records = append(records, r.Record)
		}
		return historyLoadedMsg{records: records, fromSearch: true}
	}
}

// deleteRecord removes a stored analysis from both the store and the index,
// then reloads the listing.
func (a *App) deleteRecord(rec *history.Record) tea.Cmd {
	store := a.store
	engine := a.searchEngine
	reload := a.loadHistory()
	return func() tea.Msg {
		if store == nil {
			return historyLoadedMsg{}
		}
		if err := store.Delete(rec.ID); err != nil {
			return errorNoteMsg{err: wrapErr("deleting analysis", err)}
		}
		if engine != nil {
			if err := engine.Remove(rec.ID); err != nil {
				debuglog.Warnf("removing %s from index: %v", rec.ID, err)
			}
		}
		return reload()
	}
}

// typingTick drives the explanation reveal. The seq freezes the timer's
// ownership: a stale tick from a left state is dropped in Update.
func (a *App) typingTick(seq int) tea.Cmd {
	return tea.Tick(a.cfg.UI.TypingInterval, func(time.Time) tea.Msg {
		return typingTickMsg{seq: seq}
	})
}

// rotationTick cycles the loading message while an analysis runs.
func (a *App) rotationTick(seq int) tea.Cmd {
	return tea.Tick(a.cfg.UI.RotationInterval, func(time.Time) tea.Msg {
		return rotationTickMsg{seq: seq}
	})
}

// barReveal defers the probability-bar fill slightly after the numbers are
// on screen. Cosmetic sequencing only.
func (a *App) barReveal(seq int) tea.Cmd {
	return tea.Tick(a.cfg.UI.BarDelay, func(time.Time) tea.Msg {
		return barRevealMsg{seq: seq}
	})
}

// searchDebounce schedules a history search shortly after typing pauses.
func (a *App) searchDebounce(seq int) tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return searchDebounceFireMsg{seq: seq}
	})
}

// renderReport builds the full analysis report markdown and renders it for
// the viewport.
func (a *App) renderReport(rec *history.Record) tea.Cmd {
	return func() tea.Msg {
		r, err := a.getRenderer()
		if err != nil {
			return reportRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}
		rendered, err := r.Render(reportMarkdown(rec))
		if err != nil {
			return reportRenderedMsg{content: fmt.Sprintf("Failed to render report: %s\n\nPress Esc to go back.", err.Error())}
		}
		return reportRenderedMsg{content: rendered}
	}
}
