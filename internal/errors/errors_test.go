package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
	"time"
)

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("http://example.com/knihy/x", 0)
	if err.Error() != "rate limited by http://example.com/knihy/x" {
		t.Fatalf("Error message = %q", err.Error())
	}
	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitError")
	}

	wrapped := fmt.Errorf("fetch: %w", err)
	if !IsRateLimitError(wrapped) {
		t.Fatalf("IsRateLimitError returned false for wrapped RateLimitError")
	}
}

func TestRateLimitError_RetryAfter(t *testing.T) {
	err := NewRateLimitError("http://example.com", 2*time.Minute)
	expected := "rate limited by http://example.com (retry after 2m0s)"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}
}

func TestStopProcessingError(t *testing.T) {
	err := NewStopProcessingError("user stopped")
	if err.Error() != "user stopped" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "user stopped")
	}
	if !IsStopProcessingError(stdErrors.Join(err)) {
		t.Fatalf("IsStopProcessingError returned false for wrapped StopProcessingError")
	}
}

func TestNewStatusError(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantNotFound bool
		wantStatus   bool
	}{
		{name: "404 is not found", status: 404, wantNotFound: true},
		{name: "500 is status error", status: 500, wantStatus: true},
		{name: "403 is status error", status: 403, wantStatus: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewStatusError("http://example.com/x", tt.status))
			if IsNotFound(err) != tt.wantNotFound {
				t.Fatalf("IsNotFound = %v, want %v", IsNotFound(err), tt.wantNotFound)
			}
			if IsStatusError(err) != tt.wantStatus {
				t.Fatalf("IsStatusError = %v, want %v", IsStatusError(err), tt.wantStatus)
			}
		})
	}
}

func TestTimeoutError(t *testing.T) {
	inner := stdErrors.New("context deadline exceeded")
	err := &TimeoutError{URL: "http://example.com", Timeout: 20 * time.Second, Err: inner}

	if !IsTimeout(fmt.Errorf("worker: %w", err)) {
		t.Fatalf("IsTimeout returned false for wrapped TimeoutError")
	}
	if !stdErrors.Is(err, inner) {
		t.Fatalf("TimeoutError should unwrap to its cause")
	}
	if err.Error() != "request to http://example.com timed out after 20s" {
		t.Fatalf("Error message = %q", err.Error())
	}
}
