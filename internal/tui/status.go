package tui

import "fmt"

// Canonical short status messages used across the app.
const (
	MsgAnalyzing       = "Analyzing…"
	MsgCanceled        = "Analysis canceled"
	MsgSaved           = "Saved to history"
	MsgNoHistory       = "No analyses yet"
	MsgNoResults       = "No results"
	MsgCheckingBackend = "Checking backend…"
	MsgNoHighlights    = "No word-level highlights for this article."
)

// LoadingMessages rotate while a detect call is in flight. The last entry
// repeats for very slow analyses.
var LoadingMessages = []string{
	"Running model inference…",
	"Scoring word importance…",
	"Generating the explanation…",
	"Still working. Deep analysis can take several minutes…",
}

func MsgModelStatus(loaded bool) string {
	if loaded {
		return "model ready"
	}
	return "model not loaded"
}

func MsgHistoryCount(n int) string {
	if n == 1 {
		return "1 analysis"
	}
	return fmt.Sprintf("%d analyses", n)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}
