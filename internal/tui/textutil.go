package tui

import (
	"strconv"
	"strings"
	"unicode"
)

// truncateEnd shortens s to at most limit characters, appending an ellipsis
// if truncation occurs. Handles negative or tiny limits gracefully.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// requestIDDisplayLen is how many characters of a request id fit the
// metadata row; the full id stays available behind a toggle.
const requestIDDisplayLen = 13

// truncateID shortens a request identifier to its first 13 characters plus
// an ellipsis. Short ids pass through unchanged.
func truncateID(id string) string {
	r := []rune(id)
	if len(r) <= requestIDDisplayLen {
		return id
	}
	return string(r[:requestIDDisplayLen]) + "…"
}

// sanitize strips control and escape runes from server-supplied text before
// it is styled, so a hostile payload cannot smuggle terminal sequences into
// the UI. Newlines and tabs survive; everything else below 0x20 goes.
func sanitize(s string) string {
	if !strings.ContainsFunc(s, isForbiddenRune) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isForbiddenRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isForbiddenRune(r rune) bool {
	if r == '\n' || r == '\t' {
		return false
	}
	return unicode.IsControl(r) || r == 0x7f
}

// formatThousands renders n with comma separators, e.g. 10000 -> "10,000".
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}
