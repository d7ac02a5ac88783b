package errors

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError is returned when the site answers HTTP 429.
type RateLimitError struct {
	URL        string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by %s (retry after %s)", e.URL, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited by %s", e.URL)
}

// NewRateLimitError creates a RateLimitError. A zero retryAfter means the
// server did not say how long to wait.
func NewRateLimitError(url string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{URL: url, RetryAfter: retryAfter}
}

// IsRateLimitError reports whether err is a RateLimitError (even when wrapped).
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}
