// ABOUTME: BrowserSession abstracts the rendering/navigation engine behind a narrow interface
// ABOUTME: The harvester never assumes a static document; all queries run against the live DOM

package interfaces

import (
	"context"
	"time"
)

// BrowserSession is a live rendered browsing session capable of executing
// scripts and simulating user interactions. Implementations must tolerate
// being driven headlessly. A session is exclusively owned by one listing
// traversal and must be closed by its owner on every exit path.
type BrowserSession interface {
	// Navigate loads the given URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error

	// CollectHrefs returns the href of every element currently matching the
	// CSS selector, in DOM order. Rendered state, not the initial document.
	CollectHrefs(ctx context.Context, selector string) ([]string, error)

	// CountMatches returns how many elements currently match the CSS selector.
	CountMatches(ctx context.Context, selector string) (int, error)

	// Exists reports whether at least one element matches the selector.
	// The selector may be an XPath expression (leading "//").
	Exists(ctx context.Context, selector string) (bool, error)

	// Click clicks the first element matching the selector within timeout.
	Click(ctx context.Context, selector string, timeout time.Duration) error

	// ScrollIntoView scrolls the first matching element into the viewport.
	ScrollIntoView(ctx context.Context, selector string, timeout time.Duration) error

	// ScrollToBottom scrolls the page to the bottom of the document body.
	ScrollToBottom(ctx context.Context) error

	// PressEscape sends an Escape key event to the page.
	PressEscape(ctx context.Context) error

	// WaitForCondition evaluates the JavaScript predicate expression until it
	// returns true or the timeout elapses. A timeout is returned as an error;
	// callers decide whether it is fatal.
	WaitForCondition(ctx context.Context, expr string, timeout time.Duration) error

	// Sleep pauses for the given duration, honoring context cancellation.
	Sleep(ctx context.Context, d time.Duration) error

	// Close releases the session and its browser resources.
	Close() error
}
