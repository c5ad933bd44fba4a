// internal/form/page.go
package form

import (
	"context"
	"time"
)

// Page is the set of browser primitives the form engine needs. The
// chromedp-backed implementation lives in internal/browser; tests
// substitute a scriptable fake. A Page is bound to one browser
// instance and is not safe for concurrent use.
type Page interface {
	// Navigate loads the URL and waits for the form container to
	// appear, bounded by the driver's navigation timeout.
	Navigate(ctx context.Context, url string) error

	// FindAll returns the absolute XPath of every element matching the
	// query, in document order. An empty slice is not an error.
	FindAll(ctx context.Context, xpath string) ([]string, error)

	// Attribute reads an attribute from the first element matching the
	// XPath. The bool reports whether the attribute is present.
	Attribute(ctx context.Context, xpath, name string) (string, bool, error)

	// Text returns the trimmed text content of the first match.
	Text(ctx context.Context, xpath string) (string, error)

	// Visible reports whether the first match is rendered and visible.
	Visible(ctx context.Context, xpath string) (bool, error)

	// Click dispatches a native (trusted) click on the first match.
	Click(ctx context.Context, xpath string) error

	// ClickScript dispatches element.click() from page script. Used as
	// the fallback when a native click is intercepted by an overlay.
	ClickScript(ctx context.Context, xpath string) error

	// ScrollIntoView smooth-scrolls the first match to viewport center.
	ScrollIntoView(ctx context.Context, xpath string) error

	// ScrollToBottom scrolls the window to the document end.
	ScrollToBottom(ctx context.Context) error

	// ClearAndFill empties the first matching field and types value.
	ClearAndFill(ctx context.Context, xpath, value string) error

	// Evaluate runs the script in page context, unmarshalling the
	// result into out when out is non-nil.
	Evaluate(ctx context.Context, script string, out any) error

	// Location returns the current page URL.
	Location(ctx context.Context) (string, error)

	// Screenshot captures a full-page PNG.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close tears down the underlying browser instance.
	Close(ctx context.Context) error
}

// settle pauses for the given duration, respecting context cancellation.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
