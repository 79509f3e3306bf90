package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthlens/truthlens/internal/api"
	"github.com/truthlens/truthlens/internal/config"
	"github.com/truthlens/truthlens/internal/history"
)

func sampleHistoryRecord() *history.Record {
	res := sampleResult()
	return &history.Record{
		ID:     res.RequestID,
		Title:  "A previously analyzed headline",
		Text:   "The body text of an article that was analyzed earlier.",
		Result: *res,
	}
}

// fakeDetector is a test double for the API client. It records calls and
// returns a canned outcome.
type fakeDetector struct {
	mu          sync.Mutex
	detectCalls int
	result      *api.DetectionResult
	err         error
}

func (f *fakeDetector) Detect(ctx context.Context, title, text string) (*api.DetectionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detectCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeDetector) Health(ctx context.Context) (*api.HealthStatus, error) {
	return &api.HealthStatus{Status: "healthy", IsModelLoaded: true}, nil
}

func (f *fakeDetector) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detectCalls
}

func newTestApp(t *testing.T) (*App, *fakeDetector) {
	t.Helper()
	detector := &fakeDetector{result: sampleResult()}
	app := NewApp(detector, nil, nil, config.TestConfig())
	app.width = 100
	app.height = 30
	return app, detector
}

func fillValidForm(a *App) {
	a.titleInput.SetValue("A perfectly reasonable headline")
	a.bodyInput.SetValue("This body text is comfortably longer than the twenty character minimum.")
}

func TestViewStateTransitions(t *testing.T) {
	tests := []struct {
		name         string
		initialView  View
		msg          tea.Msg
		expectedView View
		setupFunc    func(*App)
	}{
		{
			name:         "ViewForm to ViewLoading on ctrl+d with valid input",
			initialView:  ViewForm,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlD},
			expectedView: ViewLoading,
			setupFunc:    fillValidForm,
		},
		{
			name:         "ViewForm to ViewError on ctrl+d with short title",
			initialView:  ViewForm,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlD},
			expectedView: ViewError,
			setupFunc: func(a *App) {
				a.titleInput.SetValue("Hi")
				a.bodyInput.SetValue("This body text is comfortably longer than the minimum.")
			},
		},
		{
			name:         "ViewForm to ViewHistory on ctrl+h",
			initialView:  ViewForm,
			msg:          tea.KeyMsg{Type: tea.KeyCtrlH},
			expectedView: ViewHistory,
		},
		{
			name:         "ViewResults to ViewForm on 'r'",
			initialView:  ViewResults,
			msg:          tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}},
			expectedView: ViewForm,
			setupFunc:    func(a *App) { a.result = sampleResult() },
		},
		{
			name:         "ViewResults to ViewReport on Enter",
			initialView:  ViewResults,
			msg:          tea.KeyMsg{Type: tea.KeyEnter},
			expectedView: ViewReport,
			setupFunc:    func(a *App) { a.result = sampleResult() },
		},
		{
			name:         "ViewResults to ViewHistory on 'h'",
			initialView:  ViewResults,
			msg:          tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}},
			expectedView: ViewHistory,
			setupFunc:    func(a *App) { a.result = sampleResult() },
		},
		{
			name:         "ViewError to ViewForm on Enter",
			initialView:  ViewError,
			msg:          tea.KeyMsg{Type: tea.KeyEnter},
			expectedView: ViewForm,
		},
		{
			name:         "ViewHistory to previous view on Escape",
			initialView:  ViewHistory,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewForm,
			setupFunc:    func(a *App) { a.previousView = ViewForm },
		},
		{
			name:         "ViewReport to ViewResults on Escape",
			initialView:  ViewReport,
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewResults,
			setupFunc:    func(a *App) { a.result = sampleResult() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			app.view = tt.initialView
			if tt.initialView != ViewForm {
				app.titleInput.Blur()
			}

			if tt.setupFunc != nil {
				tt.setupFunc(app)
			}

			updatedModel, _ := app.Update(tt.msg)
			updatedApp, ok := updatedModel.(*App)
			require.True(t, ok, "model should be *App")

			assert.Equal(t, tt.expectedView, updatedApp.view,
				"expected view %v but got %v", tt.expectedView, updatedApp.view)
		})
	}
}

func TestSubmitSetsInFlightGuard(t *testing.T) {
	app, _ := newTestApp(t)
	fillValidForm(app)

	cmd := app.submitAnalysis()
	require.NotNil(t, cmd, "a valid submit should produce a command")
	assert.True(t, app.isAnalyzing)
	assert.Equal(t, ViewLoading, app.view)
	assert.NotNil(t, app.cancelAnalyze)
}

func TestSecondSubmitWhileAnalyzingIsDropped(t *testing.T) {
	app, _ := newTestApp(t)
	fillValidForm(app)

	first := app.submitAnalysis()
	require.NotNil(t, first)

	second := app.submitAnalysis()
	assert.Nil(t, second, "a second submit while one is in flight must be ignored")
	assert.Equal(t, ViewLoading, app.view)
}

func TestValidationFailureSkipsTransport(t *testing.T) {
	app, detector := newTestApp(t)
	app.titleInput.SetValue("Hi")
	app.bodyInput.SetValue("too short")

	cmd := app.submitAnalysis()
	assert.Nil(t, cmd)
	assert.Equal(t, ViewError, app.view)
	assert.False(t, app.isAnalyzing)
	assert.Equal(t, 0, detector.calls(), "validation failure must not reach the network")
	assert.Equal(t, "Title must be at least 5 characters long", app.errMessage)
}

func TestAnalysisSuccessEntersResults(t *testing.T) {
	app, _ := newTestApp(t)
	fillValidForm(app)
	_ = app.submitAnalysis()

	res := sampleResult()
	model, cmd := app.Update(analysisDoneMsg{result: res, title: "t", text: "x"})
	updated := model.(*App)

	assert.Equal(t, ViewResults, updated.view)
	assert.False(t, updated.isAnalyzing, "the guard must clear on success")
	assert.Nil(t, updated.cancelAnalyze)
	assert.Same(t, res, updated.result)
	assert.Equal(t, FilterAll, updated.filter)
	assert.False(t, updated.showFullID)
	assert.Zero(t, updated.typedChars, "typing effect restarts from zero")
	assert.False(t, updated.barsShown)
	assert.NotNil(t, cmd, "success schedules the reveal timers and the history save")
}

func TestAnalysisFailureEntersError(t *testing.T) {
	app, _ := newTestApp(t)
	fillValidForm(app)
	_ = app.submitAnalysis()

	model, _ := app.Update(analysisDoneMsg{err: &api.Error{Kind: api.KindTimeout, Message: api.TimeoutMessage}})
	updated := model.(*App)

	assert.Equal(t, ViewError, updated.view)
	assert.False(t, updated.isAnalyzing, "the guard must clear on failure")
	assert.Equal(t, api.TimeoutMessage, updated.errMessage)
}

func TestCanceledAnalysisReturnsToForm(t *testing.T) {
	app, _ := newTestApp(t)
	fillValidForm(app)
	_ = app.submitAnalysis()

	// Esc during loading requests cancellation but stays on loading until
	// the outcome arrives.
	app.titleInput.Blur()
	app.bodyInput.Blur()
	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	updated := model.(*App)
	assert.Equal(t, ViewLoading, updated.view)

	model, _ = updated.Update(analysisDoneMsg{err: &api.Error{Kind: api.KindCanceled, Message: "Request canceled."}})
	updated = model.(*App)

	assert.Equal(t, ViewForm, updated.view)
	assert.False(t, updated.isAnalyzing)
	assert.Equal(t, MsgCanceled, updated.statusNote)
	assert.Empty(t, updated.errMessage, "a cancel is not an error")
}

func TestResetClearsEverything(t *testing.T) {
	app, _ := newTestApp(t)
	fillValidForm(app)
	app.view = ViewResults
	app.result = sampleResult()
	app.filter = FilterFake
	app.showFullID = true
	app.typedChars = 12

	app.resetForm()

	assert.Equal(t, ViewForm, app.view)
	assert.Nil(t, app.result)
	assert.Empty(t, app.titleInput.Value())
	assert.Empty(t, app.bodyInput.Value())
	assert.Equal(t, FilterAll, app.filter)
	assert.False(t, app.showFullID)
	assert.True(t, app.titleInput.Focused())
}

func TestStaleTimerTicksAreDropped(t *testing.T) {
	app, _ := newTestApp(t)
	app.result = sampleResult()
	app.view = ViewResults
	app.typingSeq = 5
	app.barSeq = 5

	// A tick from a previous results session must not advance anything.
	model, cmd := app.Update(typingTickMsg{seq: 4})
	updated := model.(*App)
	assert.Zero(t, updated.typedChars)
	assert.Nil(t, cmd)

	model, _ = updated.Update(barRevealMsg{seq: 4})
	updated = model.(*App)
	assert.False(t, updated.barsShown)

	// The current sequence does advance.
	model, cmd = updated.Update(typingTickMsg{seq: 5})
	updated = model.(*App)
	assert.Equal(t, 1, updated.typedChars)
	assert.NotNil(t, cmd, "mid-reveal ticks reschedule themselves")

	model, _ = updated.Update(barRevealMsg{seq: 5})
	updated = model.(*App)
	assert.True(t, updated.barsShown)
}

func TestTypingTickStopsAfterLeavingResults(t *testing.T) {
	app, _ := newTestApp(t)
	app.result = sampleResult()
	app.view = ViewResults
	seq := app.typingSeq

	app.exitResults()
	app.view = ViewForm

	model, cmd := app.Update(typingTickMsg{seq: seq})
	updated := model.(*App)
	assert.Zero(t, updated.typedChars)
	assert.Nil(t, cmd, "an orphaned tick must not reschedule")
}

func TestRotationAdvancesAndWraps(t *testing.T) {
	app, _ := newTestApp(t)
	app.view = ViewLoading
	app.rotationSeq = 1

	for i := 1; i <= len(LoadingMessages); i++ {
		model, _ := app.Update(rotationTickMsg{seq: 1})
		app = model.(*App)
		assert.Equal(t, i%len(LoadingMessages), app.loadingIdx)
	}
}

func TestFilterKeysInResults(t *testing.T) {
	app, _ := newTestApp(t)
	app.view = ViewResults
	app.result = sampleResult()
	app.titleInput.Blur()

	press := func(r rune) {
		model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		app = model.(*App)
	}

	press('2')
	assert.Equal(t, FilterFake, app.filter)
	press('3')
	assert.Equal(t, FilterReal, app.filter)
	press('1')
	assert.Equal(t, FilterAll, app.filter)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(*App)
	assert.Equal(t, FilterFake, app.filter)

	press('i')
	assert.True(t, app.showFullID)
	press('i')
	assert.False(t, app.showFullID)
}

func TestResultsViewRendersAllSections(t *testing.T) {
	app, _ := newTestApp(t)
	app.view = ViewResults
	app.result = sampleResult()
	app.typedChars = len([]rune(app.result.Explanation))
	app.barsShown = true

	out := app.viewResults()
	assert.Contains(t, out, "Fake News Detected")
	assert.Contains(t, out, "82.0% confidence")
	assert.Contains(t, out, "shocking")
	assert.Contains(t, out, "2.3s")
}

func TestFormViewShowsCharacterCounts(t *testing.T) {
	app, _ := newTestApp(t)
	app.titleInput.SetValue("Hello")
	app.bodyInput.SetValue("Some body text")

	out := app.viewForm()
	assert.Contains(t, out, "5 / 500")
	assert.Contains(t, out, "14 / 10,000")
}

func TestReopenedRecordSkipsAnimations(t *testing.T) {
	app, _ := newTestApp(t)
	app.view = ViewHistory
	rec := sampleHistoryRecord()

	cmd := app.openRecord(rec)
	assert.Nil(t, cmd)
	assert.Equal(t, ViewResults, app.view)
	assert.True(t, app.barsShown, "stored results render fully revealed")
	assert.Equal(t, len([]rune(sanitize(rec.Result.Explanation))), app.typedChars)
}
