package validation

import (
	"fmt"
	"net/url"
	"strings"
)

const maxBaseURLLength = 2048

// ValidateBaseURL checks a configured backend root and returns it
// normalized. Localhost is fine here: the detection backend usually runs on
// the same machine during development.
func ValidateBaseURL(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("base URL cannot be empty")
	}
	if len(input) > maxBaseURLLength {
		return "", fmt.Errorf("base URL too long (max %d characters)", maxBaseURLLength)
	}

	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		input = "http://" + input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL must use http or https")
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("base URL must have a hostname")
	}
	if strings.Contains(parsed.Path, "..") {
		return "", fmt.Errorf("base URL path cannot contain traversal patterns")
	}

	return strings.TrimRight(parsed.String(), "/"), nil
}
