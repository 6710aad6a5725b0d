package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/greg-randall/wave-report/internal/browser"
	"github.com/greg-randall/wave-report/internal/config"
	"github.com/greg-randall/wave-report/internal/model"
	"github.com/greg-randall/wave-report/internal/progress"
	"github.com/greg-randall/wave-report/internal/store"
)

// ErrNoTargets is returned when Run is called with an empty URL list.
var ErrNoTargets = errors.New("no targets to scan")

// Scanner drives the per-URL scan pipeline: one browser page per URL,
// one appended record per URL, success or failure. URLs are processed
// strictly in order; the only suspension points are the bounded
// completion wait and the randomized settle delay.
type Scanner struct {
	cfg     *config.Config
	browser browser.Browser
	store   store.Appender
	logger  *slog.Logger
	tracker progress.Tracker
	intn    IntN
	sleep   SleepFunc
	now     func() time.Time
	newID   func() string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithTracker sets the progress display.
func WithTracker(tracker progress.Tracker) Option {
	return func(s *Scanner) {
		s.tracker = tracker
	}
}

// WithRandom injects the random source behind the settle delay.
// Tests use this to pin the delay and assert its inclusive bounds.
func WithRandom(intn IntN) Option {
	return func(s *Scanner) {
		s.intn = intn
	}
}

// WithSleeper injects the blocking wait used for delays, so tests run
// without real sleeps.
func WithSleeper(sleep SleepFunc) Option {
	return func(s *Scanner) {
		s.sleep = sleep
	}
}

// WithClock injects the time source used for the run id and record
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		s.now = now
	}
}

// WithIDSource injects the random-id generator used in screenshot names.
func WithIDSource(newID func() string) Option {
	return func(s *Scanner) {
		s.newID = newID
	}
}

// New creates a Scanner writing records through the given store.
func New(cfg *config.Config, b browser.Browser, st store.Appender, opts ...Option) *Scanner {
	s := &Scanner{
		cfg:     cfg,
		browser: b,
		store:   st,
		intn:    rand.Intn,
		sleep:   sleepContext,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracker == nil {
		s.tracker = progress.NewLogTracker(s.logger)
	}
	return s
}

// buildSteps assembles the per-URL pipeline in execution order.
func (s *Scanner) buildSteps() []Step {
	return []Step{
		&navigateStep{endpoint: s.cfg.ReportEndpoint},
		&waitReadyStep{
			readySelector:   s.cfg.ReadySelector,
			spinnerSelector: s.cfg.SpinnerSelector,
			readyTimeout:    s.cfg.ReadyTimeout,
			spinnerTimeout:  s.cfg.SpinnerTimeout,
			grace:           s.cfg.RenderGrace,
			sleep:           s.sleep,
			logger:          s.logger,
		},
		&settleStep{
			min:    s.cfg.MinSleep,
			max:    s.cfg.MaxSleep,
			intn:   s.intn,
			sleep:  s.sleep,
			logger: s.logger,
		},
		&screenshotStep{
			dir:      s.cfg.ScreenshotDir,
			maxWidth: s.cfg.MaxScreenshotWidth,
			newID:    s.newID,
		},
		&extractStep{mapping: s.cfg.Metrics},
	}
}

// Run scans every URL in order, appending exactly one record per URL.
// Per-URL failures are recorded and the batch continues; only store
// failures and cancellation abort the run. On cancellation all
// previously appended records stay intact and the record in flight is
// dropped rather than half-written.
func (s *Scanner) Run(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return ErrNoTargets
	}

	runID := s.now().UTC().Unix()
	steps := s.buildSteps()

	s.logger.Info("starting run",
		"run_id", runID,
		"run_label", model.FormatRunLabel(runID),
		"targets", len(urls),
	)

	s.tracker.Start(len(urls))
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec := model.NewScanRecord(runID, url, s.now())
		s.tracker.StartTarget(url, len(steps))

		scanErr := s.scanOne(ctx, steps, rec)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rec.Stamp(s.now())
		if err := s.store.Append(ctx, rec); err != nil {
			return fmt.Errorf("failed to append record for %s: %w", url, err)
		}
		s.tracker.FinishTarget(url, scanErr)
	}
	s.tracker.Finish()

	return nil
}

// scanOne runs the step pipeline for one URL on a fresh page.
// Any failure marks the record and is returned for display; the caller
// still appends the record.
func (s *Scanner) scanOne(ctx context.Context, steps []Step, rec *model.ScanRecord) error {
	page, err := s.browser.NewPage(ctx)
	if err != nil {
		rec.MarkFailed("open page", err)
		return err
	}
	defer page.Close() //nolint:errcheck // Tab cleanup

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.tracker.Step(step.Name())
		s.logger.Debug("executing step", "step", step.Name(), "url", rec.URL)

		if err := step.Do(ctx, page, rec); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("step failed",
				"step", step.Name(), "url", rec.URL, "error", err)
			rec.MarkFailed(step.Name(), err)
			return err
		}
	}

	return nil
}
