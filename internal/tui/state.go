package tui

// Transition is the pure core of the presentation state machine: given the
// active view and an event, it returns the next view and whether the event
// is legal from here. It knows nothing about the terminal; the App applies
// the result and handles timer teardown for the view being left.
func Transition(current View, event Event) (View, bool) {
	switch current {
	case ViewForm:
		switch event {
		case EventSubmit:
			return ViewLoading, true
		case EventFail:
			// Validation failures land on the error screen without a
			// network call.
			return ViewError, true
		case EventOpenHistory:
			return ViewHistory, true
		}

	case ViewLoading:
		switch event {
		case EventSucceed:
			return ViewResults, true
		case EventFail:
			return ViewError, true
		case EventCancel:
			return ViewForm, true
		}

	case ViewResults:
		switch event {
		case EventReset:
			return ViewForm, true
		case EventOpenReport:
			return ViewReport, true
		case EventOpenHistory:
			return ViewHistory, true
		}

	case ViewError:
		switch event {
		case EventRetry, EventBack:
			return ViewForm, true
		}

	case ViewHistory:
		switch event {
		case EventBack:
			// The App substitutes the remembered previous view.
			return ViewForm, true
		case EventSucceed:
			// Reopening a stored analysis.
			return ViewResults, true
		}

	case ViewReport:
		if event == EventBack {
			return ViewResults, true
		}
	}

	return current, false
}
