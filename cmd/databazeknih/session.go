package databazeknih

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/lepinkainen/dbknih/internal/cache"
	errs "github.com/lepinkainen/dbknih/internal/errors"
	"github.com/lepinkainen/dbknih/internal/ratelimit"
	"golang.org/x/text/encoding/unicode"
)

// maxBodySize bounds a single response body.
const maxBodySize = 16 << 20

// HTTPSession is a Session over net/http. Clones share the transport and
// the rate limiter.
type HTTPSession struct {
	client    *http.Client
	limiter   *ratelimit.Limiter
	userAgent string
}

// NewHTTPSession returns a session sending userAgent and pacing requests
// through limiter. A nil limiter means no pacing.
func NewHTTPSession(userAgent string, limiter *ratelimit.Limiter) *HTTPSession {
	return &HTTPSession{
		client:    &http.Client{},
		limiter:   limiter,
		userAgent: userAgent,
	}
}

func (s *HTTPSession) Clone() Session {
	clone := *s
	return &clone
}

func (s *HTTPSession) Get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if s.limiter != nil && !s.limiter.Allow() {
		slog.Debug("Waiting for rate limiter", "limiter", s.limiter.Name(), "url", url)
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, classifyError(url, timeout, fmt.Errorf("rate limit wait failed: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept-Language", "cs,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classifyError(url, timeout, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errs.NewRateLimitError(url, parseRetryAfter(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.NewStatusError(url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classifyError(url, timeout, fmt.Errorf("failed to read response body: %w", err))
	}
	return body, nil
}

// classifyError turns deadline errors into TimeoutError.
func classifyError(url string, timeout time.Duration, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &errs.TimeoutError{URL: url, Timeout: timeout, Err: err}
	}
	return err
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// decodeUTF8 replaces invalid UTF-8 sequences with U+FFFD and drops a
// leading byte order mark.
func decodeUTF8(raw []byte) []byte {
	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// CachingSession stores response bodies in the page cache table, keyed by URL.
// Empty bodies and errors are not cached.
type CachingSession struct {
	inner Session
}

// NewCachingSession wraps inner with the SQLite page cache.
func NewCachingSession(inner Session) *CachingSession {
	return &CachingSession{inner: inner}
}

func (s *CachingSession) Clone() Session {
	return &CachingSession{inner: s.inner.Clone()}
}

func (s *CachingSession) Get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	body, _, err := cache.GetOrFetchWithPolicy(cache.PageTable, url, func() ([]byte, error) {
		return s.inner.Get(ctx, url, timeout)
	}, func(b []byte) bool { return len(b) > 0 })
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Close closes the wrapped session if it holds resources.
func (s *CachingSession) Close() error {
	if c, ok := s.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
