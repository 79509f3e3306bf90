package tui

// View is the presentation state. Exactly one is active at a time; entering
// a view is responsible for tearing down whatever the previous one owned.
type View int

const (
	ViewForm View = iota
	ViewLoading
	ViewResults
	ViewError
	ViewHistory
	ViewReport
)

func (v View) String() string {
	switch v {
	case ViewForm:
		return "form"
	case ViewLoading:
		return "loading"
	case ViewResults:
		return "results"
	case ViewError:
		return "error"
	case ViewHistory:
		return "history"
	case ViewReport:
		return "report"
	default:
		return "unknown"
	}
}

// Event is a user- or outcome-driven trigger fed to the state machine.
type Event int

const (
	EventSubmit Event = iota
	EventSucceed
	EventFail
	EventCancel
	EventReset
	EventRetry
	EventOpenHistory
	EventOpenReport
	EventBack
)

// HighlightFilter selects which word highlights are visible. It never
// touches the stored highlight slice; filtering happens at render time only.
type HighlightFilter int

const (
	FilterAll HighlightFilter = iota
	FilterFake
	FilterReal
)

func (f HighlightFilter) String() string {
	switch f {
	case FilterFake:
		return "Fake"
	case FilterReal:
		return "Real"
	default:
		return "All"
	}
}

// Allows reports whether a highlight with the given direction is visible
// under this filter.
func (f HighlightFilter) Allows(direction string) bool {
	switch f {
	case FilterFake:
		return direction == "fake"
	case FilterReal:
		return direction == "real"
	default:
		return true
	}
}

// Next cycles All -> Fake -> Real -> All.
func (f HighlightFilter) Next() HighlightFilter {
	switch f {
	case FilterAll:
		return FilterFake
	case FilterFake:
		return FilterReal
	default:
		return FilterAll
	}
}
