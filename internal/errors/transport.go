package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// NotFoundError is returned when a page answers HTTP 404.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page not found: %s", e.URL)
}

// TimeoutError is returned when a request does not finish within its deadline.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.URL, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d (%s) from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// NewStatusError maps an HTTP status code to the matching error type.
func NewStatusError(url string, statusCode int) error {
	if statusCode == http.StatusNotFound {
		return &NotFoundError{URL: url}
	}
	return &StatusError{URL: url, StatusCode: statusCode}
}

// IsNotFound reports whether err is a NotFoundError (even when wrapped).
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTimeout reports whether err is a TimeoutError (even when wrapped).
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsStatusError reports whether err is a StatusError (even when wrapped).
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
