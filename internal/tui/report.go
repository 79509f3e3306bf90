package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/truthlens/truthlens/internal/history"
)

// getRenderer returns a cached glamour renderer sized for the current
// terminal, rebuilding it only when the width moved meaningfully.
func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120 // maximum for readability
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// reportMarkdown composes the full analysis as a markdown document. This is
// the secondary channel where nothing is truncated: the complete request id,
// the full explanation, every highlight.
func reportMarkdown(rec *history.Record) string {
	res := rec.Result

	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s\n\n", sanitize(rec.Title)))

	verdict := "Real News"
	if res.IsFake() {
		verdict = "Fake News Detected"
	}
	b.WriteString(fmt.Sprintf("**Verdict:** %s (%.1f%% confidence)\n\n", verdict, res.Confidence*100))
	b.WriteString(fmt.Sprintf("- Fake probability: %.1f%%\n", res.FakeProbability*100))
	b.WriteString(fmt.Sprintf("- Real probability: %.1f%%\n\n", res.RealProbability*100))

	b.WriteString("## Explanation\n\n")
	b.WriteString(sanitize(res.Explanation))
	b.WriteString("\n\n")

	b.WriteString("## Word highlights\n\n")
	if len(res.WordHighlights) == 0 {
		b.WriteString("_" + MsgNoHighlights + "_\n\n")
	} else {
		b.WriteString("| Word | Importance | Direction |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, h := range res.WordHighlights {
			b.WriteString(fmt.Sprintf("| %s | %.2f | %s |\n", sanitize(h.Word), h.Importance, sanitize(h.Direction)))
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString(fmt.Sprintf("Processing time: %.1fs\n\n", res.ProcessingTimeMS/1000))
	b.WriteString(fmt.Sprintf("Request id: `%s`\n\n", sanitize(res.RequestID)))
	b.WriteString(fmt.Sprintf("Analyzed: %s\n", formatTimestamp(res.Timestamp)))

	return b.String()
}
