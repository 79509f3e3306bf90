package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/truthlens/truthlens/internal/api"
	"github.com/truthlens/truthlens/internal/config"
	"github.com/truthlens/truthlens/internal/debuglog"
	"github.com/truthlens/truthlens/internal/history"
	"github.com/truthlens/truthlens/internal/search"
	"github.com/truthlens/truthlens/internal/validation"
)

// Detector is the slice of the API client the app needs. Injected so tests
// can run against a double instead of a live backend.
type Detector interface {
	Detect(ctx context.Context, title, text string) (*api.DetectionResult, error)
	Health(ctx context.Context) (*api.HealthStatus, error)
}

type App struct {
	cfg          *config.Config
	detector     Detector
	store        *history.Store
	searchEngine *search.Engine
	keyHandler   *KeyHandler

	titleInput  textinput.Model
	bodyInput   textarea.Model
	spin        spinner.Model
	fakeBar     progress.Model
	realBar     progress.Model
	historyList list.Model
	searchInput textinput.Model
	reportView  viewport.Model

	view         View
	previousView View

	// One displayed result at a time; replaced wholesale by the next
	// analysis.
	result      *api.DetectionResult
	resultTitle string
	resultText  string
	filter      HighlightFilter
	showFullID  bool

	// isAnalyzing enforces at most one in-flight detect call; a second
	// submit while true is dropped, not queued.
	isAnalyzing   bool
	cancelAnalyze context.CancelFunc

	// Timer ownership. Each timer message carries the seq captured when it
	// was scheduled; bumping a seq orphans every tick still in flight, so no
	// timer survives the state that started it.
	typingSeq   int
	typedChars  int
	rotationSeq int
	loadingIdx  int
	barSeq      int
	barsShown   bool

	searchSeq          int
	pendingSearchQuery string

	sampleIdx  int
	errMessage string
	statusNote string
	health     *api.HealthStatus

	width  int
	height int

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(detector Detector, store *history.Store, engine *search.Engine, cfg *config.Config) *App {
	ti := textinput.New()
	ti.Placeholder = "Article title…"
	ti.CharLimit = validation.TitleMax + 100 // validator reports the overflow
	ti.Focus()

	body := textarea.New()
	body.Placeholder = "Paste the article text…"
	body.CharLimit = 0
	body.SetHeight(10)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	fakeBar := progress.New(progress.WithGradient("#F87171", "#EF4444"), progress.WithoutPercentage())
	realBar := progress.New(progress.WithGradient("#4ADE80", "#10B981"), progress.WithoutPercentage())

	historyList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	historyList.Title = "› past analyses"
	historyList.SetShowStatusBar(false)
	historyList.SetFilteringEnabled(false)
	historyList.SetShowHelp(false)

	si := textinput.New()
	si.Placeholder = "Search past analyses…"

	app := &App{
		cfg:          cfg,
		detector:     detector,
		store:        store,
		searchEngine: engine,
		titleInput:   ti,
		bodyInput:    body,
		spin:         sp,
		fakeBar:      fakeBar,
		realBar:      realBar,
		historyList:  historyList,
		searchInput:  si,
		reportView:   viewport.New(0, 0),
		view:         ViewForm,
		previousView: ViewForm,
		filter:       FilterAll,
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.checkHealth(),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		inputWidth := msg.Width - 8
		if inputWidth < 20 {
			inputWidth = msg.Width
		}
		a.titleInput.Width = inputWidth
		a.bodyInput.SetWidth(inputWidth)

		bodyHeight := msg.Height - 14
		if bodyHeight < 4 {
			bodyHeight = 4
		}
		if bodyHeight > 16 {
			bodyHeight = 16
		}
		a.bodyInput.SetHeight(bodyHeight)

		barWidth := msg.Width/2 - 16
		if barWidth < 10 {
			barWidth = 10
		}
		a.fakeBar.Width = barWidth
		a.realBar.Width = barWidth

		listHeight := msg.Height - 8
		if listHeight < 5 {
			listHeight = 5
		}
		a.historyList.SetSize(msg.Width, listHeight)

		a.reportView.Width = msg.Width
		a.reportView.Height = msg.Height - 3

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if a.view == ViewLoading {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	case analysisDoneMsg:
		return a.handleAnalysisDone(msg)

	case typingTickMsg:
		if msg.seq == a.typingSeq && a.view == ViewResults && a.result != nil {
			total := len([]rune(sanitize(a.result.Explanation)))
			if a.typedChars < total {
				a.typedChars++
			}
			if a.typedChars < total {
				cmds = append(cmds, a.typingTick(a.typingSeq))
			}
		}

	case rotationTickMsg:
		if msg.seq == a.rotationSeq && a.view == ViewLoading {
			a.loadingIdx = (a.loadingIdx + 1) % len(LoadingMessages)
			cmds = append(cmds, a.rotationTick(a.rotationSeq))
		}

	case barRevealMsg:
		if msg.seq == a.barSeq && a.view == ViewResults {
			a.barsShown = true
		}

	case searchDebounceFireMsg:
		if msg.seq == a.searchSeq && a.view == ViewHistory {
			query := a.pendingSearchQuery
			if strings.TrimSpace(query) == "" {
				cmds = append(cmds, a.loadHistory())
			} else {
				cmds = append(cmds, a.searchHistory(query))
			}
		}

	case healthMsg:
		if msg.err != nil {
			debuglog.Warnf("health check failed: %v", msg.err)
			a.health = nil
		} else {
			a.health = msg.status
		}

	case historyLoadedMsg:
		if a.view == ViewHistory {
			items := make([]list.Item, len(msg.records))
			for i, rec := range msg.records {
				items[i] = historyItem{record: rec}
			}
			a.historyList.SetItems(items)
			if msg.fromSearch {
				a.statusNote = MsgResultsCount(len(msg.records))
			} else {
				a.statusNote = ""
			}
		}

	case historySavedMsg:
		if msg.err != nil {
			// The analysis already succeeded; losing the history entry is
			// log-worthy but not screen-worthy.
			debuglog.Errorf("history save failed: %v", msg.err)
		} else if a.view == ViewResults && a.store != nil {
			a.statusNote = MsgSaved
		}

	case reportRenderedMsg:
		if a.view == ViewReport {
			a.reportView.SetContent(msg.content)
			a.reportView.GotoTop()
		}

	case errorNoteMsg:
		debuglog.Errorf("%v", msg.err)
		a.statusNote = userMessage(msg.err)
	}

	switch a.view {
	case ViewForm:
		switch msg.(type) {
		case tea.KeyMsg, tea.WindowSizeMsg:
			// Key handling already delegated.
		default:
			var cmd tea.Cmd
			a.titleInput, cmd = a.titleInput.Update(msg)
			cmds = append(cmds, cmd)
			a.bodyInput, cmd = a.bodyInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	case ViewHistory:
		switch msg.(type) {
		case tea.KeyMsg, tea.WindowSizeMsg:
		default:
			var cmd tea.Cmd
			a.searchInput, cmd = a.searchInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// submitAnalysis is the orchestration path for a submit event: guard,
// validate, transition, fire the transport call.
func (a *App) submitAnalysis() tea.Cmd {
	if a.isAnalyzing {
		debuglog.Infof("submit ignored: analysis already in flight")
		return nil
	}

	title := strings.TrimSpace(a.titleInput.Value())
	text := strings.TrimSpace(a.bodyInput.Value())

	if err := validation.ValidateArticle(title, text); err != nil {
		// Local rejection; no network call happens.
		if next, ok := Transition(a.view, EventFail); ok {
			a.view = next
		}
		a.errMessage = userMessage(err)
		return nil
	}

	next, ok := Transition(a.view, EventSubmit)
	if !ok {
		return nil
	}

	a.isAnalyzing = true
	analyzeCmd := a.startAnalysis(title, text)
	return tea.Batch(a.enterLoading(next), analyzeCmd)
}

// handleAnalysisDone is the single funnel for analysis outcomes. The
// isAnalyzing flag is cleared here no matter what arrived.
func (a *App) handleAnalysisDone(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	a.isAnalyzing = false
	if a.cancelAnalyze != nil {
		a.cancelAnalyze()
		a.cancelAnalyze = nil
	}
	a.leaveLoading()

	if msg.err != nil {
		if api.KindOf(msg.err) == api.KindCanceled {
			if next, transOK := Transition(a.view, EventCancel); transOK {
				a.view = next
			}
			a.statusNote = MsgCanceled
			return a, nil
		}

		debuglog.Errorf("analysis failed: %v", msg.err)
		if next, ok := Transition(a.view, EventFail); ok {
			a.view = next
		}
		a.errMessage = userMessage(msg.err)
		return a, nil
	}

	a.result = msg.result
	a.resultTitle = msg.title
	a.resultText = msg.text

	next, ok := Transition(a.view, EventSucceed)
	if !ok {
		// Outcome arrived after the user navigated away; keep the result
		// but do not force a view change.
		next = a.view
	}
	cmds := a.enterResults(next, false)

	rec := &history.Record{
		ID:        msg.result.RequestID,
		Title:     msg.title,
		Text:      msg.text,
		Result:    *msg.result,
		CreatedAt: time.Now(),
	}
	cmds = append(cmds, a.saveAnalysis(rec))

	return a, tea.Batch(cmds...)
}

// enterLoading starts the loading state's timers under a fresh sequence.
func (a *App) enterLoading(next View) tea.Cmd {
	a.view = next
	a.loadingIdx = 0
	a.rotationSeq++
	a.errMessage = ""
	a.statusNote = ""
	return tea.Batch(a.spin.Tick, a.rotationTick(a.rotationSeq))
}

// leaveLoading cancels the rotation timer regardless of where we go next.
func (a *App) leaveLoading() {
	a.rotationSeq++
}

// enterResults resets per-result presentation state and starts the typing
// and bar timers. instant skips the animations, used when reopening a
// stored analysis.
func (a *App) enterResults(next View, instant bool) []tea.Cmd {
	a.view = next
	a.filter = FilterAll
	a.showFullID = false
	a.typingSeq++
	a.barSeq++
	a.typedChars = 0
	a.barsShown = false

	var cmds []tea.Cmd
	if instant {
		if a.result != nil {
			a.typedChars = len([]rune(sanitize(a.result.Explanation)))
		}
		a.barsShown = true
	} else {
		cmds = append(cmds, a.typingTick(a.typingSeq), a.barReveal(a.barSeq))
	}
	return cmds
}

// exitResults cancels the typing and bar timers, including a typing effect
// still mid-flight.
func (a *App) exitResults() {
	a.typingSeq++
	a.barSeq++
}

// resetForm clears everything back to the initial form: empty fields, zero
// character counts, no result.
func (a *App) resetForm() {
	a.exitResults()
	a.result = nil
	a.resultTitle = ""
	a.resultText = ""
	a.titleInput.Reset()
	a.bodyInput.Reset()
	a.errMessage = ""
	a.statusNote = ""
	a.showFullID = false
	a.filter = FilterAll
	a.view = ViewForm
	a.titleInput.Focus()
	a.bodyInput.Blur()
}

// cancelAnalysis aborts the in-flight request through the same path the
// timeout uses. The view changes when the canceled outcome arrives.
func (a *App) cancelAnalysis() {
	if a.cancelAnalyze != nil {
		a.cancelAnalyze()
	}
}

// openHistory remembers where we came from and loads records.
func (a *App) openHistory() tea.Cmd {
	next, ok := Transition(a.view, EventOpenHistory)
	if !ok {
		return nil
	}
	if a.view == ViewResults {
		a.exitResults()
	}
	a.previousView = a.view
	a.view = next
	a.searchInput.Reset()
	a.searchInput.Blur()
	a.statusNote = ""
	return a.loadHistory()
}

// openReport switches to the rendered full report for the current result.
func (a *App) openReport() tea.Cmd {
	if a.result == nil {
		return nil
	}
	next, ok := Transition(a.view, EventOpenReport)
	if !ok {
		return nil
	}
	a.exitResults()
	a.view = next
	rec := &history.Record{
		ID:     a.result.RequestID,
		Title:  a.resultTitle,
		Text:   a.resultText,
		Result: *a.result,
	}
	return a.renderReport(rec)
}

// openRecord reopens a stored analysis as a fully revealed result.
func (a *App) openRecord(rec *history.Record) tea.Cmd {
	res := rec.Result
	a.result = &res
	a.resultTitle = rec.Title
	a.resultText = rec.Text

	next, ok := Transition(a.view, EventSucceed)
	if !ok {
		next = ViewResults
	}
	a.enterResults(next, true)
	return nil
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewForm:
		content = a.viewForm()
	case ViewLoading:
		content = a.viewLoading()
	case ViewResults:
		content = a.viewResults()
	case ViewError:
		content = a.viewError()
	case ViewHistory:
		content = a.viewHistory()
	case ViewReport:
		content = a.reportView.View()
	}

	statusBar := a.statusBar()
	if statusBar != "" {
		separatorWidth := a.width - 2
		if separatorWidth < 0 {
			separatorWidth = 0
		}
		separator := SeparatorStyle.Render("─" + strings.Repeat("─", separatorWidth))
		return lipgloss.JoinVertical(lipgloss.Top, content, separator, statusBar)
	}

	return content
}

func (a *App) viewForm() string {
	titleCount := fmt.Sprintf("%s / %s",
		formatThousands(len([]rune(a.titleInput.Value()))),
		formatThousands(validation.TitleMax))
	bodyCount := fmt.Sprintf("%s / %s",
		formatThousands(len([]rune(a.bodyInput.Value()))),
		formatThousands(validation.TextMax))

	sections := []string{
		renderHeader("› analyze an article", "", a.width),
		"",
		renderInputFrame(a.titleInput.View(), a.titleInput.Focused(), a.titleInput.Width),
		renderMuted("  " + titleCount),
		"",
		renderInputFrame(a.bodyInput.View(), a.bodyInput.Focused(), a.bodyInput.Width()),
		renderMuted("  " + bodyCount),
	}

	if a.titleInput.Value() == "" && a.bodyInput.Value() == "" {
		sections = append(sections, "", GetWelcomeMessage())
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height - 3).
		MaxHeight(a.height - 3).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Top, sections...))
}

func (a *App) viewLoading() string {
	message := LoadingMessages[a.loadingIdx]
	body := lipgloss.JoinVertical(
		lipgloss.Center,
		fmt.Sprintf("%s %s", a.spin.View(), message),
		"",
		renderHelp("Esc to cancel"),
	)
	return renderCentered(a.width, a.height-3, body)
}

func (a *App) viewResults() string {
	if a.result == nil {
		return renderCentered(a.width, a.height-3, renderMuted(MsgNoResults))
	}

	fakeView := a.fakeBar.ViewAs(0)
	realView := a.realBar.ViewAs(0)
	if a.barsShown {
		fakeView = a.fakeBar.ViewAs(a.result.FakeProbability)
		realView = a.realBar.ViewAs(a.result.RealProbability)
	}

	// Fixed section order: header, bars, explanation, highlights, metadata.
	sections := []string{
		renderVerdictHeader(a.result, a.width-4),
		"",
		renderProbabilityBars(a.result, fakeView, realView, a.width-4),
		"",
		renderExplanationTyped(a.result.Explanation, a.typedChars, a.width-4),
		"",
		renderFilterTabs(a.filter, a.result.WordHighlights),
		renderHighlightList(a.result.WordHighlights, a.filter, a.width-4),
		"",
		renderMetadata(a.result, a.showFullID),
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height - 3).
		MaxHeight(a.height - 3).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Top, sections...))
}

func (a *App) viewError() string {
	body := lipgloss.JoinVertical(
		lipgloss.Center,
		ErrorMessageStyle.Render("✗ Analysis failed"),
		"",
		lipgloss.NewStyle().
			Foreground(TextColor).
			Width(minInt(a.width-8, 70)).
			Align(lipgloss.Center).
			Render(a.errMessage),
		"",
		renderHelp("Enter: back to form • q: quit"),
	)
	return renderCentered(a.width, a.height-3, body)
}

func (a *App) viewHistory() string {
	inputWidth := a.width - 8
	if inputWidth < 10 {
		inputWidth = a.width - 4
	}
	a.searchInput.Width = inputWidth

	content := lipgloss.JoinVertical(
		lipgloss.Top,
		renderHeader("› history", "", a.width),
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), inputWidth),
		"",
		a.historyList.View(),
	)

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height - 3).
		MaxHeight(a.height - 3).
		Render(content)
}

func (a *App) statusBar() string {
	commands := a.keyHandler.GetHelpForCurrentView()
	if len(commands) == 0 && a.statusNote == "" && a.health == nil {
		return ""
	}

	var left string
	switch {
	case a.statusNote != "":
		left = a.statusNote
	case a.health != nil:
		style := lipgloss.NewStyle().Foreground(SuccessColor)
		if !a.health.IsModelLoaded {
			style = lipgloss.NewStyle().Foreground(WarnColor)
		}
		left = style.Render("● " + MsgModelStatus(a.health.IsModelLoaded))
	}

	text := strings.Join(commands, " • ")
	if left != "" {
		text = left + "  " + renderMuted(text)
	}

	return StatusBarStyle.Width(a.width).Render(text)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

type historyItem struct {
	record *history.Record
}

func (i historyItem) Title() string {
	prefix := RealTextStyle.Render("✓ ")
	if i.record.Result.IsFake() {
		prefix = FakeTextStyle.Render("✗ ")
	}
	return prefix + truncateEnd(sanitize(i.record.Title), 70)
}

func (i historyItem) Description() string {
	verdict := fmt.Sprintf("%s %.1f%%", i.record.Result.Prediction, i.record.Result.Confidence*100)
	timeStr := ""
	if !i.record.CreatedAt.IsZero() {
		timeStr = TimeStyle.Render(" • " + i.record.CreatedAt.Format("Jan 2, 15:04"))
	}
	return renderMuted(verdict) + timeStr
}

func (i historyItem) FilterValue() string { return i.record.Title }

type analysisDoneMsg struct {
	result *api.DetectionResult
	title  string
	text   string
	err    error
}

type healthMsg struct {
	status *api.HealthStatus
	err    error
}

type typingTickMsg struct {
	seq int
}

type rotationTickMsg struct {
	seq int
}

type barRevealMsg struct {
	seq int
}

type searchDebounceFireMsg struct {
	seq int
}

type historyLoadedMsg struct {
	records    []*history.Record
	fromSearch bool
}

type historySavedMsg struct {
	err error
}

type reportRenderedMsg struct {
	content string
}

type errorNoteMsg struct {
	err error
}
