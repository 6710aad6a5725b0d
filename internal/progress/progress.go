package progress

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// Tracker receives scan progress at two levels of granularity: one event
// stream for the overall URL list and one for the steps inside each URL.
// The scanner reports through this interface so the display (progress
// bars by default, log lines in verbose mode) is swappable.
type Tracker interface {
	// Start begins a run over the given number of targets.
	Start(total int)

	// StartTarget begins one URL with the given number of steps.
	StartTarget(url string, steps int)

	// Step reports that the named step is running.
	Step(name string)

	// FinishTarget completes the current URL. err is non-nil when the
	// target's record was marked failed.
	FinishTarget(url string, err error)

	// Finish completes the run.
	Finish()
}

// BarTracker renders two nested terminal progress bars: an outer bar
// across the URL list and an inner, self-clearing bar across the steps of
// the current URL. While a URL is in flight the inner bar owns the
// terminal line; clearing it lets the outer bar redraw on advance.
type BarTracker struct {
	out   io.Writer
	outer *progressbar.ProgressBar
	inner *progressbar.ProgressBar
}

// NewBarTracker creates a tracker drawing to out (normally stderr, so the
// bars never mix into redirected output).
func NewBarTracker(out io.Writer) *BarTracker {
	return &BarTracker{out: out}
}

// Start begins the outer bar.
func (t *BarTracker) Start(total int) {
	t.outer = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(t.out),
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
	)
}

// StartTarget begins the inner bar for one URL.
func (t *BarTracker) StartTarget(url string, steps int) {
	t.inner = progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(t.out),
		progressbar.OptionSetDescription(url),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionClearOnFinish(),
	)
}

// Step labels the inner bar with the running step and advances it.
func (t *BarTracker) Step(name string) {
	if t.inner == nil {
		return
	}
	t.inner.Describe(name)
	_ = t.inner.Add(1) //nolint:errcheck // Display only
}

// FinishTarget clears the inner bar, notes failures inline, and advances
// the outer bar.
func (t *BarTracker) FinishTarget(url string, err error) {
	if t.inner != nil {
		_ = t.inner.Finish() //nolint:errcheck // Display only
		t.inner = nil
	}
	if err != nil {
		fmt.Fprintf(t.out, "failed: %s (%v)\n", url, err)
	}
	if t.outer != nil {
		_ = t.outer.Add(1) //nolint:errcheck // Display only
	}
}

// Finish completes the outer bar.
func (t *BarTracker) Finish() {
	if t.outer != nil {
		_ = t.outer.Finish() //nolint:errcheck // Display only
		fmt.Fprintln(t.out)
	}
}

// LogTracker reports progress as structured log lines instead of bars.
// Used in verbose mode, where bars would interleave with debug output.
type LogTracker struct {
	logger *slog.Logger
	total  int
	done   int
}

// NewLogTracker creates a tracker logging through the given logger.
func NewLogTracker(logger *slog.Logger) *LogTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTracker{logger: logger}
}

// Start records the target count.
func (t *LogTracker) Start(total int) {
	t.total = total
	t.logger.Info("starting scan", "targets", total)
}

// StartTarget logs the URL being scanned.
func (t *LogTracker) StartTarget(url string, _ int) {
	t.logger.Info("scanning", "url", url, "position", t.done+1, "of", t.total)
}

// Step logs the running step.
func (t *LogTracker) Step(name string) {
	t.logger.Debug("step", "name", name)
}

// FinishTarget logs the outcome for one URL.
func (t *LogTracker) FinishTarget(url string, err error) {
	t.done++
	if err != nil {
		t.logger.Warn("scan failed", "url", url, "error", err)
		return
	}
	t.logger.Info("scan complete", "url", url)
}

// Finish logs run completion.
func (t *LogTracker) Finish() {
	t.logger.Info("run complete", "targets", t.total)
}
