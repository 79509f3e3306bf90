package tui

import (
	"errors"
	"fmt"

	"github.com/truthlens/truthlens/internal/api"
	"github.com/truthlens/truthlens/internal/validation"
)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

const unexpectedErrorMessage = "An unexpected error occurred. Please try again."

// userMessage is the single point where failures become screen text. Kinds
// stay structured until here so tests and logs can branch on them.
func userMessage(err error) string {
	if err == nil {
		return unexpectedErrorMessage
	}
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var aErr *api.Error
	if errors.As(err, &aErr) {
		if msg := aErr.UserMessage(); msg != "" {
			return msg
		}
	}
	return unexpectedErrorMessage
}
