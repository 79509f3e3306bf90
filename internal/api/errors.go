package api

import (
	"errors"
	"fmt"
)

// Kind classifies transport failures so callers can branch without parsing
// message text.
type Kind int

const (
	// KindNetwork covers connection failures and anything else the client
	// could not attribute to a more specific cause.
	KindNetwork Kind = iota
	// KindTimeout means the request exceeded the configured budget.
	KindTimeout
	// KindCanceled means the caller aborted the request.
	KindCanceled
	// KindHTTP means the server answered with a non-success status.
	KindHTTP
	// KindDecode means the server answered 2xx but the body was unreadable.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the tagged failure type produced by the client. Message is
// user-presentable; Err retains the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Status  int // HTTP status, when Kind is KindHTTP
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the text meant for the error screen.
func (e *Error) UserMessage() string { return e.Message }

// KindOf extracts the failure kind from err, defaulting to KindNetwork for
// errors that did not originate in this package.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}
