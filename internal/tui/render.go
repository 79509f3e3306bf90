package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/truthlens/truthlens/internal/api"
)

// The five result sections render independently; View() stacks them in the
// fixed header, bars, explanation, highlights, metadata order.

// renderVerdictHeader derives the badge and confidence line from the
// prediction.
func renderVerdictHeader(res *api.DetectionResult, width int) string {
	var badge string
	if res.IsFake() {
		badge = FakeBadgeStyle.Render("✗ Fake News Detected")
	} else {
		badge = RealBadgeStyle.Render("✓ Real News")
	}

	confidence := fmt.Sprintf("%.1f%% confidence", res.Confidence*100)
	line := lipgloss.JoinHorizontal(lipgloss.Center, badge, "  ", renderMuted(confidence))
	return truncateLine(line, width)
}

// renderProbabilityBars shows both class percentages. The numbers appear
// immediately; the bars stay empty until revealed fires after the short
// configured delay.
func renderProbabilityBars(res *api.DetectionResult, fakeBar, realBar string, width int) string {
	fakeLabel := FakeTextStyle.Render(fmt.Sprintf("Fake %5.1f%%", res.FakeProbability*100))
	realLabel := RealTextStyle.Render(fmt.Sprintf("Real %5.1f%%", res.RealProbability*100))

	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Center, fakeLabel, " ", fakeBar),
		lipgloss.JoinHorizontal(lipgloss.Center, realLabel, " ", realBar),
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderExplanationTyped reveals the explanation one character at a time;
// typed is how many runes are visible so far.
func renderExplanationTyped(explanation string, typed int, width int) string {
	runes := []rune(sanitize(explanation))
	if typed > len(runes) {
		typed = len(runes)
	}
	visible := string(runes[:typed])
	if typed < len(runes) {
		visible += "▌"
	}

	wrapWidth := width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	return wordwrap.String(visible, wrapWidth)
}

// highlightCounts tallies directions for the filter tab captions.
func highlightCounts(highlights []api.WordHighlight) (all, fake, real int) {
	for _, h := range highlights {
		switch h.Direction {
		case "fake":
			fake++
		case "real":
			real++
		}
	}
	return len(highlights), fake, real
}

// renderFilterTabs draws the All/Fake/Real selector.
func renderFilterTabs(filter HighlightFilter, highlights []api.WordHighlight) string {
	all, fake, real := highlightCounts(highlights)

	tab := func(f HighlightFilter, label string, count int) string {
		text := fmt.Sprintf("%s (%d)", label, count)
		if f == filter {
			return ActiveTabStyle.Render(text)
		}
		return InactiveTabStyle.Render(text)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		tab(FilterAll, "All", all), " ",
		tab(FilterFake, "Fake", fake), " ",
		tab(FilterReal, "Real", real),
	)
}

// renderHighlightList renders the stored highlight sequence in order.
// Filtering only gates visibility; the slice is never mutated or reordered,
// and switching filters re-renders from the same stored data.
func renderHighlightList(highlights []api.WordHighlight, filter HighlightFilter, width int) string {
	if len(highlights) == 0 {
		return renderMuted(MsgNoHighlights)
	}

	wordWidth := width / 3
	if wordWidth < 12 {
		wordWidth = 12
	}

	var rows []string
	for _, h := range highlights {
		if !filter.Allows(h.Direction) {
			continue
		}
		rows = append(rows, renderHighlightItem(h, wordWidth))
	}
	if len(rows) == 0 {
		return renderMuted(fmt.Sprintf("No %s-leaning highlights.", strings.ToLower(filter.String())))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

func renderHighlightItem(h api.WordHighlight, wordWidth int) string {
	style := RealTextStyle
	if h.Direction == "fake" {
		style = FakeTextStyle
	}

	word := style.Render(padRight(truncateEnd(sanitize(h.Word), wordWidth), wordWidth))
	bar := importanceBar(h.Importance, 10)
	return fmt.Sprintf("%s %s %.2f", word, style.Render(bar), h.Importance)
}

// importanceBar draws a fixed-width block meter for an importance in [0,1].
func importanceBar(importance float64, cells int) string {
	if importance < 0 {
		importance = 0
	}
	if importance > 1 {
		importance = 1
	}
	filled := int(importance*float64(cells) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
}

// renderMetadata shows processing time, the request id (truncated by
// default, complete when toggled), and the localized timestamp.
func renderMetadata(res *api.DetectionResult, showFullID bool) string {
	id := truncateID(sanitize(res.RequestID))
	idHint := " (press i for full id)"
	if showFullID {
		id = sanitize(res.RequestID)
		idHint = ""
	}

	parts := []string{
		fmt.Sprintf("⏱ %.1fs", res.ProcessingTimeMS/1000),
		"id: " + id + idHint,
		formatTimestamp(res.Timestamp),
	}
	return TimeStyle.Render(strings.Join(parts, "  •  "))
}

// timestampLayouts covers the backend's naive isoformat plus the usual
// zoned variants.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// formatTimestamp converts an ISO-8601 string to the local, human-readable
// form, falling back to the raw value when it cannot be parsed.
func formatTimestamp(iso string) string {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, iso); err == nil {
			return ts.Local().Format("Jan 2, 2006 15:04:05")
		}
	}
	return sanitize(iso)
}

func truncateLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return truncateEnd(s, width)
}

func padRight(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
