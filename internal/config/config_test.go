package config

import (
	"errors"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values. The test doubles as living documentation of the defaults:
// changing one must be a deliberate act.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default ReportEndpoint is the WAVE report prefix", func(t *testing.T) {
		t.Parallel()
		if cfg.ReportEndpoint != "https://wave.webaim.org/report#/" {
			t.Errorf("expected ReportEndpoint to be the WAVE prefix, got '%s'", cfg.ReportEndpoint)
		}
	})

	t.Run("default sleep bounds are 5s and 35s", func(t *testing.T) {
		t.Parallel()
		if cfg.MinSleep != 5*time.Second {
			t.Errorf("expected MinSleep to be 5s, got %v", cfg.MinSleep)
		}
		if cfg.MaxSleep != 35*time.Second {
			t.Errorf("expected MaxSleep to be 35s, got %v", cfg.MaxSleep)
		}
	})

	t.Run("default ReadyTimeout is 60 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.ReadyTimeout != 60*time.Second {
			t.Errorf("expected ReadyTimeout to be 60s, got %v", cfg.ReadyTimeout)
		}
	})

	t.Run("default SpinnerTimeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.SpinnerTimeout != 30*time.Second {
			t.Errorf("expected SpinnerTimeout to be 30s, got %v", cfg.SpinnerTimeout)
		}
	})

	t.Run("default selectors match the WAVE page", func(t *testing.T) {
		t.Parallel()
		if cfg.ReadySelector != "span#aim-score-value" {
			t.Errorf("expected ReadySelector to be 'span#aim-score-value', got '%s'", cfg.ReadySelector)
		}
		if cfg.SpinnerSelector != "#wave5_loading" {
			t.Errorf("expected SpinnerSelector to be '#wave5_loading', got '%s'", cfg.SpinnerSelector)
		}
	})

	t.Run("default file locations", func(t *testing.T) {
		t.Parallel()
		if cfg.InputPath != "urls.txt" {
			t.Errorf("expected InputPath to be 'urls.txt', got '%s'", cfg.InputPath)
		}
		if cfg.CSVPath != "results.csv" {
			t.Errorf("expected CSVPath to be 'results.csv', got '%s'", cfg.CSVPath)
		}
		if cfg.JSONLPath != "results.jsonl" {
			t.Errorf("expected JSONLPath to be 'results.jsonl', got '%s'", cfg.JSONLPath)
		}
		if cfg.ScreenshotDir != "screenshots" {
			t.Errorf("expected ScreenshotDir to be 'screenshots', got '%s'", cfg.ScreenshotDir)
		}
	})

	t.Run("default viewport is desktop sized", func(t *testing.T) {
		t.Parallel()
		if cfg.ViewportWidth != 1920 || cfg.ViewportHeight != 1080 {
			t.Errorf("expected 1920x1080 viewport, got %dx%d", cfg.ViewportWidth, cfg.ViewportHeight)
		}
	})

	t.Run("default metrics cover the seven WAVE numbers", func(t *testing.T) {
		t.Parallel()
		if len(cfg.Metrics) != 7 {
			t.Fatalf("expected 7 default metrics, got %d", len(cfg.Metrics))
		}
		if cfg.Metrics[0].Label != "Errors" {
			t.Errorf("expected first metric to be 'Errors', got '%s'", cfg.Metrics[0].Label)
		}
		last := cfg.Metrics[len(cfg.Metrics)-1]
		if last.Label != "AIM Score" || !last.Score {
			t.Errorf("expected last metric to be the 'AIM Score' score, got %+v", last)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case exercises one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid default config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := NewConfig().Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("negative MinSleep returns ErrNegativeSleep", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.MinSleep = -1 * time.Second

		if err := cfg.Validate(); !errors.Is(err, ErrNegativeSleep) {
			t.Errorf("expected ErrNegativeSleep, got %v", err)
		}
	})

	t.Run("MinSleep above MaxSleep returns ErrSleepOrder", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.MinSleep = 40 * time.Second
		cfg.MaxSleep = 10 * time.Second

		if err := cfg.Validate(); !errors.Is(err, ErrSleepOrder) {
			t.Errorf("expected ErrSleepOrder, got %v", err)
		}
	})

	t.Run("equal sleep bounds are valid", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.MinSleep = 10 * time.Second
		cfg.MaxSleep = 10 * time.Second

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("zero ReadyTimeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ReadyTimeout = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("empty endpoint returns ErrNoEndpoint", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ReportEndpoint = ""

		if err := cfg.Validate(); !errors.Is(err, ErrNoEndpoint) {
			t.Errorf("expected ErrNoEndpoint, got %v", err)
		}
	})

	t.Run("empty CSV path returns ErrMissingPath", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.CSVPath = ""

		if err := cfg.Validate(); !errors.Is(err, ErrMissingPath) {
			t.Errorf("expected ErrMissingPath, got %v", err)
		}
	})

	t.Run("no metrics returns ErrNoMetrics", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Metrics = nil

		if err := cfg.Validate(); !errors.Is(err, ErrNoMetrics) {
			t.Errorf("expected ErrNoMetrics, got %v", err)
		}
	})

	t.Run("metric without selector returns ErrInvalidMetric", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Metrics = []MetricSelector{{Label: "Errors"}}

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMetric) {
			t.Errorf("expected ErrInvalidMetric, got %v", err)
		}
	})

	t.Run("duplicate metric labels return ErrDuplicateMetric", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Metrics = []MetricSelector{
			{Label: "Errors", Selector: "li#error span"},
			{Label: "Errors", Selector: "li#alert span"},
		}

		if err := cfg.Validate(); !errors.Is(err, ErrDuplicateMetric) {
			t.Errorf("expected ErrDuplicateMetric, got %v", err)
		}
	})
}

// TestMetricLabels verifies that MetricLabels preserves mapping order.
func TestMetricLabels(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.Metrics = []MetricSelector{
		{Label: "B", Selector: "li#b span"},
		{Label: "A", Selector: "li#a span"},
	}

	labels := cfg.MetricLabels()
	if len(labels) != 2 || labels[0] != "B" || labels[1] != "A" {
		t.Errorf("expected labels in mapping order [B A], got %v", labels)
	}
}
