package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// spinnerPollInterval is how often WaitGone re-evaluates the selector.
const spinnerPollInterval = 500 * time.Millisecond

// Chrome drives a headless Chrome/Chromium process via the DevTools
// protocol. One process is shared across all pages opened from it.
type Chrome struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChrome prepares a headless browser launcher using the executable at
// execPath. The process itself starts lazily with the first page. The
// given context is the parent for the whole browser lifetime; cancelling
// it tears down the process and every open page.
func NewChrome(ctx context.Context, execPath string, width, height int) *Chrome {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.WindowSize(width, height),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	return &Chrome{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

// NewPage opens a fresh tab. The first call also launches the browser
// process, so a bad executable path surfaces here.
func (c *Chrome) NewPage(_ context.Context) (Page, error) {
	pageCtx, pageCancel := chromedp.NewContext(c.allocCtx)

	// Running an empty task forces the target to exist now rather than on
	// the first navigation.
	if err := chromedp.Run(pageCtx); err != nil {
		pageCancel()
		return nil, fmt.Errorf("failed to open browser tab: %w", err)
	}

	return &chromePage{ctx: pageCtx, cancel: pageCancel}, nil
}

// Close terminates the browser process and all open pages.
func (c *Chrome) Close() error {
	c.allocCancel()
	return nil
}

// chromePage is a single chromedp tab.
type chromePage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Navigate loads the given address and waits for the load event.
func (p *chromePage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := chromedp.Run(p.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// WaitVisible blocks until the selector matches a visible element.
func (p *chromePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("timed out waiting for %q: %w", selector, err)
	}
	return nil
}

// WaitGone polls until the selector matches nothing visible. An element
// absent from the DOM and an element with display:none both count.
// chromedp's own wait actions require a matching node, so absence is
// checked with an evaluated expression instead.
func (p *chromePage) WaitGone(ctx context.Context, selector string, timeout time.Duration) error {
	expr := fmt.Sprintf(
		`(function() {
			const el = document.querySelector(%q);
			return !el || window.getComputedStyle(el).display === "none";
		})()`, selector)

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(spinnerPollInterval)
	defer ticker.Stop()

	for {
		var gone bool
		if err := chromedp.Run(p.ctx, chromedp.Evaluate(expr, &gone)); err != nil {
			return fmt.Errorf("failed to check %q: %w", selector, err)
		}
		if gone {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("element %q still visible after %s", selector, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.ctx.Done():
			return p.ctx.Err()
		case <-ticker.C:
		}
	}
}

// HTML returns the rendered document's outer HTML.
func (p *chromePage) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var html string
	if err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

// Screenshot captures the full page as PNG bytes.
func (p *chromePage) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf []byte
	// Quality 100 selects lossless PNG encoding in the DevTools capture.
	if err := chromedp.Run(p.ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

// Close releases the tab.
func (p *chromePage) Close() error {
	p.cancel()
	return nil
}
