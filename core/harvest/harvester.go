// ABOUTME: Pagination harvester drives "load more" interactions against a live listing
// ABOUTME: Collects deduplicated article locations until target, stall, or click bounds

package harvest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"news-harvester-api/core/domain"
	"news-harvester-api/core/interfaces"
)

// Config holds the harvester's termination bounds and listing selectors
type Config struct {
	// TargetCount is the number of unique locations to collect
	TargetCount int

	// MaxClicks is the ceiling on reveal interactions, a safety bound
	// against runaway loops
	MaxClicks int

	// StallLimit is how many consecutive no-progress rounds are allowed
	StallLimit int

	// LinkSelector matches article links in the listing
	LinkSelector string

	// LoadMoreTexts are the visible labels of the reveal control; the button
	// has no stable class so it is located by text
	LoadMoreTexts []string

	// OverlayTexts are labels of consent/popup buttons dismissed best-effort
	// before clicking the reveal control
	OverlayTexts []string

	// ControlWait bounds the initial wait for the reveal control to render
	ControlWait time.Duration

	// ChangeWait bounds the wait for the link count to change after a click
	ChangeWait time.Duration

	// SettleDelay is a short pause after each interaction for rendering
	SettleDelay time.Duration

	// InteractionTimeout bounds each scroll and click
	InteractionTimeout time.Duration
}

// DefaultConfig returns the default harvester configuration
func DefaultConfig() Config {
	return Config{
		TargetCount:        1000,
		MaxClicks:          10000,
		StallLimit:         10,
		LinkSelector:       "a[href*='/online/news/']",
		LoadMoreTexts:      []string{"Показать еще", "Показать ещё"},
		OverlayTexts:       []string{"Принять", "Согласен", "Согласиться", "ОК"},
		ControlWait:        30 * time.Second,
		ChangeWait:         25 * time.Second,
		SettleDelay:        600 * time.Millisecond,
		InteractionTimeout: 10 * time.Second,
	}
}

// Harvester traverses one dynamically-paginated listing. It is sequential:
// each interaction must complete and the DOM must settle before the next.
type Harvester struct {
	cfg    Config
	logger interfaces.Logger
}

// NewHarvester creates a new harvester with the given configuration
func NewHarvester(cfg Config, logger interfaces.Logger) *Harvester {
	if cfg.TargetCount <= 0 {
		cfg.TargetCount = DefaultConfig().TargetCount
	}
	if cfg.MaxClicks <= 0 {
		cfg.MaxClicks = DefaultConfig().MaxClicks
	}
	if cfg.StallLimit <= 0 {
		cfg.StallLimit = DefaultConfig().StallLimit
	}
	return &Harvester{cfg: cfg, logger: logger}
}

// traversal state, owned by one Harvest call and destroyed when it returns
type state struct {
	seen    map[domain.ArticleLocation]struct{}
	ordered []domain.ArticleLocation
	clicks  int
	stalls  int
}

// add records a location if unseen; reports whether it was new
func (s *state) add(loc domain.ArticleLocation) bool {
	if _, ok := s.seen[loc]; ok {
		return false
	}
	s.seen[loc] = struct{}{}
	s.ordered = append(s.ordered, loc)
	return true
}

// Harvest navigates the session to the listing and collects up to target
// unique article locations in discovery order. The session is released on
// every exit path. A shorter-than-requested result is not an error: the
// control disappearing and the stall/click bounds are legitimate termination.
func (h *Harvester) Harvest(ctx context.Context, session interfaces.BrowserSession, listingURL string) ([]domain.ArticleLocation, error) {
	defer func() {
		if err := session.Close(); err != nil {
			h.logger.Warn("Failed to close browser session", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	if err := session.Navigate(ctx, listingURL); err != nil {
		return nil, fmt.Errorf("navigate to listing: %w", err)
	}

	// The control may render late; collect whatever is there even if it
	// never shows up.
	_ = session.WaitForCondition(ctx, h.controlProbe(), h.cfg.ControlWait)

	st := &state{seen: make(map[domain.ArticleLocation]struct{})}

	if err := h.collect(ctx, session, st); err != nil {
		return nil, fmt.Errorf("initial link collection: %w", err)
	}

	for len(st.ordered) < h.cfg.TargetCount && st.clicks < h.cfg.MaxClicks && st.stalls < h.cfg.StallLimit {
		prevUnique := len(st.ordered)

		prevCount, err := session.CountMatches(ctx, h.cfg.LinkSelector)
		if err != nil {
			h.logger.Warn("Failed to count listing links", map[string]interface{}{
				"error": err.Error(),
			})
			break
		}

		if !h.expand(ctx, session, prevCount) {
			break
		}
		st.clicks++

		if err := h.collect(ctx, session, st); err != nil {
			h.logger.Warn("Failed to re-collect listing links", map[string]interface{}{
				"error": err.Error(),
			})
			break
		}

		if len(st.ordered) == prevUnique {
			st.stalls++
		} else {
			st.stalls = 0
		}

		if st.clicks%10 == 0 {
			h.logger.Info("Collecting unique locations", map[string]interface{}{
				"collected": len(st.ordered),
				"target":    h.cfg.TargetCount,
				"clicks":    st.clicks,
				"stalls":    st.stalls,
			})
		}
	}

	h.logger.Info("Listing traversal finished", map[string]interface{}{
		"collected": len(st.ordered),
		"target":    h.cfg.TargetCount,
		"clicks":    st.clicks,
	})

	if len(st.ordered) > h.cfg.TargetCount {
		st.ordered = st.ordered[:h.cfg.TargetCount]
	}
	return st.ordered, nil
}

// collect reads all currently-rendered matching links from the live DOM and
// adds unseen ones in DOM order, stopping once the target is reached. New
// items are injected client-side, so the DOM must be re-queried after every
// interaction; no static document contains all content.
func (h *Harvester) collect(ctx context.Context, session interfaces.BrowserSession, st *state) error {
	hrefs, err := session.CollectHrefs(ctx, h.cfg.LinkSelector)
	if err != nil {
		return err
	}
	for _, href := range hrefs {
		loc := domain.NormalizeLocation(href)
		if loc == "" {
			continue
		}
		if st.add(loc) && len(st.ordered) >= h.cfg.TargetCount {
			break
		}
	}
	return nil
}

// expand performs one reveal interaction. Returns false when the control is
// absent or not actionable, which ends the traversal gracefully.
func (h *Harvester) expand(ctx context.Context, session interfaces.BrowserSession, prevCount int) bool {
	control := h.controlXPath()

	exists, err := session.Exists(ctx, control)
	if err != nil || !exists {
		return false
	}

	h.dismissOverlays(ctx, session)

	if err := session.ScrollIntoView(ctx, control, h.cfg.InteractionTimeout); err != nil {
		if err := session.ScrollToBottom(ctx); err != nil {
			return false
		}
	}

	if err := session.Click(ctx, control, h.cfg.InteractionTimeout); err != nil {
		return false
	}

	// Wait for the link count to change. The count sometimes stays the same
	// even though content was replaced, so a timeout here is tolerated.
	expr := fmt.Sprintf("document.querySelectorAll(%q).length !== %d", h.cfg.LinkSelector, prevCount)
	_ = session.WaitForCondition(ctx, expr, h.cfg.ChangeWait)

	_ = session.Sleep(ctx, h.cfg.SettleDelay)

	return true
}

// dismissOverlays tries to clear banners/popups that intercept the click.
// Every step is best-effort; failures never abort the traversal.
func (h *Harvester) dismissOverlays(ctx context.Context, session interfaces.BrowserSession) {
	_ = session.PressEscape(ctx)

	for _, text := range h.cfg.OverlayTexts {
		sel := buttonXPath([]string{text})
		exists, err := session.Exists(ctx, sel)
		if err != nil || !exists {
			continue
		}
		if err := session.Click(ctx, sel, 1500*time.Millisecond); err == nil {
			break
		}
	}
}

// controlXPath locates the reveal control by its visible text
func (h *Harvester) controlXPath() string {
	return buttonXPath(h.cfg.LoadMoreTexts)
}

// controlProbe is a JavaScript predicate matching the reveal control
func (h *Harvester) controlProbe() string {
	var checks []string
	for _, text := range h.cfg.LoadMoreTexts {
		checks = append(checks, fmt.Sprintf("b.textContent.includes(%q)", text))
	}
	return fmt.Sprintf(
		"Array.from(document.querySelectorAll('button')).some(b => %s)",
		strings.Join(checks, " || "),
	)
}

// buttonXPath builds an XPath matching a button by any of the given labels
func buttonXPath(texts []string) string {
	var parts []string
	for _, text := range texts {
		parts = append(parts, fmt.Sprintf(`//button[contains(., %q)]`, text))
	}
	return strings.Join(parts, " | ")
}
