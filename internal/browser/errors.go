package browser

import "errors"

// ErrBrowserNotFound is returned when no Chrome or Chromium executable
// can be located. This is a fatal startup error: the run command reports
// remediation guidance and exits before any URL is processed.
var ErrBrowserNotFound = errors.New("no Chrome or Chromium executable found")
