package databazeknih

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	errs "github.com/lepinkainen/dbknih/internal/errors"
	"github.com/lepinkainen/dbknih/internal/ratelimit"
)

var (
	chromedpExecAllocator = chromedp.NewExecAllocator
	chromedpContext       = chromedp.NewContext
	chromedpRunner        = chromedp.Run
	chromedpOuterHTML     = func(ctx context.Context) (string, error) {
		var html string
		err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
		return html, err
	}
)

var chromedpRunResponse func(ctx context.Context, actions ...chromedp.Action) (*network.Response, error) = chromedp.RunResponse

// BrowserOptions configures a headless browser session.
type BrowserOptions struct {
	Headless  bool
	UserAgent string
	Limiter   *ratelimit.Limiter
}

// BrowserSession fetches pages through Chrome. The session returned by
// NewBrowserSession owns the browser; every clone is a new tab in it.
type BrowserSession struct {
	root      context.Context
	tab       context.Context
	cancelTab context.CancelFunc
	closeAll  context.CancelFunc
	opts      BrowserOptions

	startOnce sync.Once
	startErr  error
}

// NewBrowserSession starts a browser. Close releases it.
func NewBrowserSession(parent context.Context, opts BrowserOptions) (*BrowserSession, error) {
	allocCtx, cancelAlloc := chromedpExecAllocator(parent, buildExecAllocatorOptions(opts)...)
	browserCtx, cancelBrowser := chromedpContext(allocCtx)

	if err := chromedpRunner(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	s := &BrowserSession{
		root:      browserCtx,
		tab:       browserCtx,
		cancelTab: cancelBrowser,
		closeAll:  cancelAlloc,
		opts:      opts,
	}
	s.startOnce.Do(func() {})
	return s, nil
}

func buildExecAllocatorOptions(opts BrowserOptions) []chromedp.ExecAllocatorOption {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	return allocOpts
}

func (s *BrowserSession) Clone() Session {
	tab, cancel := chromedpContext(s.root)
	return &BrowserSession{
		root:      s.root,
		tab:       tab,
		cancelTab: cancel,
		opts:      s.opts,
	}
}

func (s *BrowserSession) Get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	s.startOnce.Do(func() {
		s.startErr = chromedpRunner(s.tab)
	})
	if s.startErr != nil {
		return nil, fmt.Errorf("failed to open browser tab: %w", s.startErr)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.opts.Limiter != nil {
		if err := s.opts.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(s.tab, timeout)
	} else {
		runCtx, cancel = context.WithCancel(s.tab)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	resp, err := chromedpRunResponse(runCtx, chromedp.Navigate(url))
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, &errs.TimeoutError{URL: url, Timeout: timeout, Err: err}
		}
		return nil, fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	if resp != nil {
		status := int(resp.Status)
		if status == http.StatusTooManyRequests {
			return nil, errs.NewRateLimitError(url, 0)
		}
		if status < 200 || status >= 300 {
			return nil, errs.NewStatusError(url, status)
		}
	}

	html, err := chromedpOuterHTML(runCtx)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, &errs.TimeoutError{URL: url, Timeout: timeout, Err: err}
		}
		return nil, fmt.Errorf("failed to read page html: %w", err)
	}

	return []byte(html), nil
}

// Close closes the tab, and the browser when called on the session that
// started it.
func (s *BrowserSession) Close() error {
	if s.cancelTab != nil {
		s.cancelTab()
	}
	if s.closeAll != nil {
		s.closeAll()
	}
	return nil
}
