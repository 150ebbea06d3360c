// ABOUTME: BrowserSession implementation driving a headless Chrome via chromedp
// ABOUTME: Owns the allocator and tab contexts; one Session per listing traversal

package chromedp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"news-harvester-api/core/interfaces"
)

const defaultNavigationTimeout = 60 * time.Second

// Config holds browser session configuration
type Config struct {
	// Headless controls whether Chrome runs without a window
	Headless bool

	// UserAgent overrides the browser user agent string
	UserAgent string

	// NavigationTimeout bounds page navigation
	NavigationTimeout time.Duration
}

var _ interfaces.BrowserSession = (*Session)(nil)

// Session is a single live Chrome tab
type Session struct {
	cfg         Config
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewSession starts a Chrome instance and opens one tab
func NewSession(cfg Config) (*Session, error) {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaultNavigationTimeout
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1920, 1080),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so a missing Chrome binary surfaces here
	// rather than on first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Session{
		cfg:         cfg,
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Navigate loads the given URL and waits for the document to be ready
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, s.cfg.NavigationTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// CollectHrefs returns the href of every element matching the CSS selector
func (s *Session) CollectHrefs(ctx context.Context, selector string) ([]string, error) {
	var hrefs []string
	expr := fmt.Sprintf(
		"Array.from(document.querySelectorAll(%q)).map(a => a.href || '')", selector)
	if err := s.run(ctx, s.cfg.NavigationTimeout, chromedp.Evaluate(expr, &hrefs)); err != nil {
		return nil, err
	}
	return hrefs, nil
}

// CountMatches returns how many elements currently match the CSS selector
func (s *Session) CountMatches(ctx context.Context, selector string) (int, error) {
	var count int
	expr := fmt.Sprintf("document.querySelectorAll(%q).length", selector)
	if err := s.run(ctx, s.cfg.NavigationTimeout, chromedp.Evaluate(expr, &count)); err != nil {
		return 0, err
	}
	return count, nil
}

// Exists reports whether at least one element matches the selector
func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, 5*time.Second,
		chromedp.Nodes(selector, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

// Click clicks the first element matching the selector within timeout
func (s *Session) Click(ctx context.Context, selector string, timeout time.Duration) error {
	return s.run(ctx, timeout, chromedp.Click(selector, chromedp.BySearch))
}

// ScrollIntoView scrolls the first matching element into the viewport
func (s *Session) ScrollIntoView(ctx context.Context, selector string, timeout time.Duration) error {
	return s.run(ctx, timeout, chromedp.ScrollIntoView(selector, chromedp.BySearch))
}

// ScrollToBottom scrolls the page to the bottom of the document body
func (s *Session) ScrollToBottom(ctx context.Context) error {
	return s.run(ctx, 5*time.Second,
		chromedp.Evaluate("window.scrollTo(0, document.body.scrollHeight)", nil))
}

// PressEscape sends an Escape key event to the page
func (s *Session) PressEscape(ctx context.Context) error {
	return s.run(ctx, 5*time.Second, chromedp.KeyEvent(kb.Escape))
}

// WaitForCondition polls the JavaScript predicate until true or timeout
func (s *Session) WaitForCondition(ctx context.Context, expr string, timeout time.Duration) error {
	err := s.run(ctx, timeout,
		chromedp.Poll(expr, nil, chromedp.WithPollingTimeout(timeout)))
	if errors.Is(err, chromedp.ErrPollingTimeout) {
		return fmt.Errorf("condition not met within %s", timeout)
	}
	return err
}

// Sleep pauses for the given duration, honoring context cancellation
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Close releases the tab and the browser process
func (s *Session) Close() error {
	s.cancelTab()
	s.cancelAlloc()
	return nil
}

// run executes actions against the tab with a deadline, aborting early if the
// caller's context is cancelled. chromedp actions require the tab's context,
// so the caller's cancellation is bridged rather than passed through.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(runCtx, actions...)
	}()

	select {
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}
