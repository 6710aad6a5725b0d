package browser

import (
	"context"
	"time"
)

// Page is one open browser tab. The scanner drives the WAVE report page
// exclusively through this interface, so the concrete automation backend
// stays swappable and the scan pipeline is testable without a browser.
type Page interface {
	// Navigate loads the given address and waits for the initial load.
	Navigate(ctx context.Context, url string) error

	// WaitVisible blocks until an element matching the CSS selector is
	// visible, or the timeout expires.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// WaitGone blocks until no element matching the CSS selector is
	// visible, or the timeout expires. An element removed from the DOM
	// and an element hidden via display:none both count as gone.
	WaitGone(ctx context.Context, selector string, timeout time.Duration) error

	// HTML returns the rendered document's outer HTML.
	HTML(ctx context.Context) (string, error)

	// Screenshot captures the full page as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the tab.
	Close() error
}

// Browser opens pages. Implementations own the underlying browser
// process; Close shuts it down.
type Browser interface {
	// NewPage opens a fresh tab.
	NewPage(ctx context.Context) (Page, error)

	// Close terminates the browser process.
	Close() error
}
