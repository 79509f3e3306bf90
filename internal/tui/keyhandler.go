package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/truthlens/truthlens/internal/config"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

// isInTextInputMode reports whether a text field currently owns the
// keyboard. Plain letters must reach the field, not trigger actions.
func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewForm:
		return kh.app.titleInput.Focused() || kh.app.bodyInput.Focused()
	case ViewHistory:
		return kh.app.searchInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		return kh.app, tea.Quit
	case "esc":
		return kh.handleTextInputEscape()
	case "tab", "shift+tab":
		if kh.app.view == ViewForm {
			kh.toggleFormFocus()
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	case "enter":
		// Enter inside the search field jumps to the result list; inside the
		// body it inserts a newline as usual.
		if kh.app.view == ViewHistory {
			kh.app.searchInput.Blur()
			if len(kh.app.historyList.Items()) > 0 {
				kh.app.historyList.Select(0)
			}
			return kh.app, nil
		}
		if kh.app.view == ViewForm && kh.app.titleInput.Focused() {
			kh.toggleFormFocus()
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	case kh.modifierKey + kh.config.Keys.Bindings.Analyze:
		return kh.app, kh.app.submitAnalysis()
	case kh.modifierKey + kh.config.Keys.Bindings.Sample:
		kh.loadSample()
		return kh.app, nil
	case kh.modifierKey + kh.config.Keys.Bindings.History:
		return kh.app, kh.app.openHistory()
	case kh.modifierKey + kh.config.Keys.Bindings.Reset:
		kh.app.resetForm()
		return kh.app, nil
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) handleTextInputEscape() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewForm:
		kh.app.titleInput.Blur()
		kh.app.bodyInput.Blur()
		return kh.app, nil
	case ViewHistory:
		kh.app.searchInput.Blur()
		return kh.app, nil
	default:
		return kh.app, nil
	}
}

// toggleFormFocus moves focus between the title field and the body field.
func (kh *KeyHandler) toggleFormFocus() {
	if kh.app.titleInput.Focused() {
		kh.app.titleInput.Blur()
		kh.app.bodyInput.Focus()
	} else {
		kh.app.bodyInput.Blur()
		kh.app.titleInput.Focus()
	}
}

// loadSample fills the form with the next bundled sample article.
func (kh *KeyHandler) loadSample() {
	sample := Samples[kh.app.sampleIdx%len(Samples)]
	kh.app.sampleIdx++
	kh.app.titleInput.SetValue(sample.Title)
	kh.app.bodyInput.SetValue(sample.Text)
}

func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewForm:
		if kh.app.titleInput.Focused() {
			newInput, cmd := kh.app.titleInput.Update(msg)
			kh.app.titleInput = newInput
			return kh.app, cmd
		}
		newBody, cmd := kh.app.bodyInput.Update(msg)
		kh.app.bodyInput = newBody
		return kh.app, cmd

	case ViewHistory:
		prev := kh.app.searchInput.Value()
		newInput, cmd := kh.app.searchInput.Update(msg)
		kh.app.searchInput = newInput

		newVal := strings.TrimSpace(kh.app.searchInput.Value())
		if newVal != strings.TrimSpace(prev) {
			kh.app.pendingSearchQuery = newVal
			kh.app.searchSeq++
			return kh.app, tea.Batch(cmd, kh.app.searchDebounce(kh.app.searchSeq))
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// handleCustomKeys handles action keys when no text field has focus.
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "ctrl+c":
		return kh.app, tea.Quit, true
	}

	switch kh.app.view {
	case ViewForm:
		return kh.handleFormCustomKeys(key)
	case ViewLoading:
		return kh.handleLoadingKeys(key)
	case ViewResults:
		return kh.handleResultsKeys(key)
	case ViewError:
		return kh.handleErrorKeys(key)
	case ViewHistory:
		return kh.handleHistoryCustomKeys(key)
	case ViewReport:
		return kh.handleReportKeys(key)
	}
	return kh.app, nil, false
}

// handleFormCustomKeys covers the form with both fields blurred.
func (kh *KeyHandler) handleFormCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings
	switch key {
	case b.Quit:
		return kh.app, tea.Quit, true
	case "enter", "tab", "i":
		kh.app.titleInput.Focus()
		return kh.app, nil, true
	case kh.modifierKey + b.Analyze:
		return kh.app, kh.app.submitAnalysis(), true
	case kh.modifierKey + b.Sample:
		kh.loadSample()
		return kh.app, nil, true
	case kh.modifierKey + b.History, b.History:
		return kh.app, kh.app.openHistory(), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleLoadingKeys(key string) (tea.Model, tea.Cmd, bool) {
	if key == kh.config.Keys.Bindings.Back {
		kh.app.cancelAnalysis()
		return kh.app, nil, true
	}
	return kh.app, nil, true
}

func (kh *KeyHandler) handleResultsKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings
	switch key {
	case b.Quit:
		return kh.app, tea.Quit, true
	case b.Back, kh.modifierKey + b.Reset, b.Reset:
		if next, ok := Transition(kh.app.view, EventReset); ok {
			kh.app.resetForm()
			kh.app.view = next
		}
		return kh.app, nil, true
	case b.NextTab:
		kh.app.filter = kh.app.filter.Next()
		return kh.app, nil, true
	case "1":
		kh.app.filter = FilterAll
		return kh.app, nil, true
	case "2":
		kh.app.filter = FilterFake
		return kh.app, nil, true
	case "3":
		kh.app.filter = FilterReal
		return kh.app, nil, true
	case b.FullID:
		kh.app.showFullID = !kh.app.showFullID
		return kh.app, nil, true
	case b.OpenItem:
		return kh.app, kh.app.openReport(), true
	case kh.modifierKey + b.History, b.History:
		return kh.app, kh.app.openHistory(), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleErrorKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings
	switch key {
	case b.Quit:
		return kh.app, tea.Quit, true
	case "enter", b.Back, b.Reset:
		// Back to the form with inputs intact so the user can fix and retry.
		if next, ok := Transition(kh.app.view, EventRetry); ok {
			kh.app.view = next
			kh.app.errMessage = ""
			kh.app.titleInput.Focus()
		}
		return kh.app, nil, true
	}
	return kh.app, nil, true
}

func (kh *KeyHandler) handleHistoryCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings
	switch key {
	case b.Quit:
		return kh.app, tea.Quit, true
	case b.Back:
		kh.app.view = kh.app.previousView
		if kh.app.view == ViewResults && kh.app.result != nil {
			kh.app.enterResults(ViewResults, true)
		}
		return kh.app, nil, true
	case "/", kh.modifierKey + b.Search, b.Search:
		kh.app.searchInput.Focus()
		return kh.app, nil, true
	case "x":
		if item, ok := kh.app.historyList.SelectedItem().(historyItem); ok {
			return kh.app, kh.app.deleteRecord(item.record), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleReportKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings
	switch key {
	case b.Quit:
		return kh.app, tea.Quit, true
	case b.Back:
		if next, ok := Transition(kh.app.view, EventBack); ok {
			kh.app.view = next
			kh.app.enterResults(next, true)
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

// delegateToCharm lets the Charm components handle everything we did not
// intercept, plus enter on the history list.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewHistory:
		kh.app.historyList, cmd = kh.app.historyList.Update(msg)
		if msg.String() == kh.config.Keys.Bindings.OpenItem {
			if item, ok := kh.app.historyList.SelectedItem().(historyItem); ok {
				return kh.app, kh.app.openRecord(item.record)
			}
		}
		return kh.app, cmd

	case ViewReport:
		kh.app.reportView, cmd = kh.app.reportView.Update(msg)
		return kh.app, cmd
	}

	return kh.app, nil
}

// GetHelpForCurrentView returns the key hints shown in the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	b := kh.config.Keys.Bindings
	mod := kh.modifierKey

	switch kh.app.view {
	case ViewForm:
		return []string{
			mod + b.Analyze + ": analyze",
			"tab: switch field",
			mod + b.Sample + ": sample",
			mod + b.History + ": history",
			"ctrl+c: quit",
		}
	case ViewLoading:
		return []string{b.Back + ": cancel"}
	case ViewResults:
		return []string{
			b.NextTab + "/1/2/3: filter",
			b.FullID + ": full id",
			b.OpenItem + ": report",
			b.History + ": history",
			b.Reset + ": new analysis",
			b.Quit + ": quit",
		}
	case ViewError:
		return []string{"enter: back", b.Quit + ": quit"}
	case ViewHistory:
		return []string{
			"/: search",
			b.OpenItem + ": open",
			"x: delete",
			b.Back + ": back",
			b.Quit + ": quit",
		}
	case ViewReport:
		return []string{"↑/↓: scroll", b.Back + ": back", b.Quit + ": quit"}
	}
	return nil
}
