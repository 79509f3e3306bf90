package validation

import "strings"

// Input bounds enforced by the backend. Kept client-side so bad submissions
// never leave the machine, and so the UI can show live character counts
// against the same limits.
const (
	TitleMin = 5
	TitleMax = 500
	TextMin  = 20
	TextMax  = 10000
)

// Error reports why an article was rejected. Message matches what the user
// sees on screen.
type Error struct {
	Field   string // "title" or "text"
	Message string
}

func (e *Error) Error() string { return e.Message }

// ValidateArticle checks a title/text pair against the backend's bounds.
// Both values are trimmed first. Rules run in a fixed order and the first
// failure wins; nil means the article may be submitted.
func ValidateArticle(title, text string) error {
	title = strings.TrimSpace(title)
	text = strings.TrimSpace(text)

	switch {
	case len([]rune(title)) < TitleMin:
		return &Error{Field: "title", Message: "Title must be at least 5 characters long"}
	case len([]rune(title)) > TitleMax:
		return &Error{Field: "title", Message: "Title must be less than 500 characters"}
	case len([]rune(text)) < TextMin:
		return &Error{Field: "text", Message: "Article text must be at least 20 characters long"}
	case len([]rune(text)) > TextMax:
		return &Error{Field: "text", Message: "Article text must be less than 10,000 characters"}
	}
	return nil
}
