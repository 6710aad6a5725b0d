// Package browser defines the narrow browser-automation interface the
// scanner depends on and provides the chromedp-backed implementation.
// The scanner only ever needs to open a page, wait for a condition in the
// rendered content, read that content, and capture a screenshot, so the
// interface is limited to exactly that.
package browser
