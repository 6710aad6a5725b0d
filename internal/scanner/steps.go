package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/greg-randall/wave-report/internal/browser"
	"github.com/greg-randall/wave-report/internal/config"
	"github.com/greg-randall/wave-report/internal/imaging"
	"github.com/greg-randall/wave-report/internal/model"
)

// Step is one stage of the per-URL scan. Steps run in sequence against
// the open page and accumulate their results on the record. A failing
// step marks the URL's record failed without aborting the batch.
type Step interface {
	// Do executes the step against the page, updating the record.
	Do(ctx context.Context, page browser.Page, rec *model.ScanRecord) error

	// Name returns the step's name for progress display and failure
	// attribution in the record's error field.
	Name() string
}

// navigateStep composes the report address and loads it.
type navigateStep struct {
	endpoint string
}

func (s *navigateStep) Name() string { return "navigate" }

func (s *navigateStep) Do(ctx context.Context, page browser.Page, rec *model.ScanRecord) error {
	return page.Navigate(ctx, s.endpoint+rec.URL)
}

// waitReadyStep waits for the external analysis to finish: first for the
// completion marker to appear, then for the loading overlay to clear,
// then a short render grace. Only the marker wait is fatal; a stuck
// spinner usually still leaves a usable page behind it.
type waitReadyStep struct {
	readySelector   string
	spinnerSelector string
	readyTimeout    time.Duration
	spinnerTimeout  time.Duration
	grace           time.Duration
	sleep           SleepFunc
	logger          *slog.Logger
}

func (s *waitReadyStep) Name() string { return "wait for analysis" }

func (s *waitReadyStep) Do(ctx context.Context, page browser.Page, rec *model.ScanRecord) error {
	if err := page.WaitVisible(ctx, s.readySelector, s.readyTimeout); err != nil {
		return fmt.Errorf("analysis did not complete: %w", err)
	}

	if err := page.WaitGone(ctx, s.spinnerSelector, s.spinnerTimeout); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("loading overlay did not clear, continuing",
			"url", rec.URL, "error", err)
	}

	return s.sleep(ctx, s.grace)
}

// settleStep waits a randomized delay before the capture so scan traffic
// does not hit the external service on a fixed cadence.
type settleStep struct {
	min    time.Duration
	max    time.Duration
	intn   IntN
	sleep  SleepFunc
	logger *slog.Logger
}

func (s *settleStep) Name() string { return "settle" }

func (s *settleStep) Do(ctx context.Context, _ browser.Page, rec *model.ScanRecord) error {
	d := SettleDelay(s.min, s.max, s.intn)
	s.logger.Debug("settling before capture", "url", rec.URL, "delay", d)
	return s.sleep(ctx, d)
}

// screenshotStep captures the full page, compresses it, and writes it
// under the screenshot directory. The filename combines the run id, the
// sanitized URL, and a random id, so records can never collide even when
// one run scans the same URL twice.
type screenshotStep struct {
	dir      string
	maxWidth int
	newID    func() string
}

func (s *screenshotStep) Name() string { return "screenshot" }

func (s *screenshotStep) Do(ctx context.Context, page browser.Page, rec *model.ScanRecord) error {
	raw, err := page.Screenshot(ctx)
	if err != nil {
		return err
	}

	compressed, err := imaging.Compress(raw, s.maxWidth)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	name := fmt.Sprintf("%d_%s_%s.png", rec.RunID, SanitizeURL(rec.URL), s.newID())
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, compressed, 0644); err != nil { //nolint:gosec // Screenshots are not sensitive
		return fmt.Errorf("failed to write screenshot: %w", err)
	}

	rec.ScreenshotPath = path
	return nil
}

// extractStep reads the rendered page and pulls the configured metrics.
type extractStep struct {
	mapping []config.MetricSelector
}

func (s *extractStep) Name() string { return "extract metrics" }

func (s *extractStep) Do(ctx context.Context, page browser.Page, rec *model.ScanRecord) error {
	doc, err := page.HTML(ctx)
	if err != nil {
		return err
	}

	metrics, err := ExtractMetrics(doc, s.mapping)
	if err != nil {
		return err
	}

	rec.Metrics = metrics
	return nil
}
