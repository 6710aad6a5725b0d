package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror the behavior of the WAVE report page and are
// deliberately conservative about how often the external service is hit.
const (
	// DefaultReportEndpoint is the WAVE report page prefix. The target URL
	// is appended after the hash, so the report for https://example.com/
	// lives at https://wave.webaim.org/report#/https://example.com/.
	DefaultReportEndpoint = "https://wave.webaim.org/report#/"

	// DefaultMinSleep and DefaultMaxSleep bound the randomized settle delay
	// applied after the report finishes loading and before the screenshot
	// is captured. The jitter makes scan traffic look less mechanical and
	// reduces the chance of being rate-limited by the external service.
	DefaultMinSleep = 5 * time.Second
	DefaultMaxSleep = 35 * time.Second

	// DefaultReadyTimeout is how long to wait for the WAVE analysis to
	// complete. The report page renders the score element only once the
	// analysis is done, and slow target pages can take close to a minute.
	DefaultReadyTimeout = 60 * time.Second

	// DefaultSpinnerTimeout bounds the wait for the loading spinner to
	// disappear after the score appears. Expiry is not fatal; the page is
	// usually usable even when the spinner sticks around.
	DefaultSpinnerTimeout = 30 * time.Second

	// DefaultRenderGrace is a short extra wait after the spinner clears so
	// the final layout settles before the screenshot.
	DefaultRenderGrace = 1 * time.Second

	// DefaultReadySelector matches the AIM score value element. Its
	// presence is the completion marker for the WAVE analysis.
	DefaultReadySelector = "span#aim-score-value"

	// DefaultSpinnerSelector matches the WAVE loading overlay.
	DefaultSpinnerSelector = "#wave5_loading"

	// Default file locations. The scanner appends to the CSV and JSONL
	// files across runs; the reporter reads the CSV.
	DefaultInputPath     = "urls.txt"
	DefaultCSVPath       = "results.csv"
	DefaultJSONLPath     = "results.jsonl"
	DefaultScreenshotDir = "screenshots"
	DefaultReportPath    = "report.html"

	// DefaultViewportWidth and DefaultViewportHeight describe a standard
	// desktop viewport. WAVE renders a different layout on narrow screens.
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080

	// DefaultMaxScreenshotWidth caps the stored screenshot width.
	// Full-page captures of long reports are large; downscaling to this
	// width keeps the screenshot directory manageable with no real loss
	// for visual review.
	DefaultMaxScreenshotWidth = 1600

	// AppName is the application name used for XDG directory paths.
	AppName = "wavereport"
)

// MetricSelector maps one metric in the rendered WAVE report to a record
// field. The metric schema is configuration, not a fixed contract: the
// external tool defines which numbers exist and where they live in the
// page, and a page redesign is handled by editing the mapping rather than
// the code.
type MetricSelector struct {
	// Label is the column name used in the CSV header and report output.
	Label string `yaml:"label"`

	// Selector locates the element holding the value. The supported form
	// is "tag#id" optionally followed by a descendant tag, for example
	// "li#error span".
	Selector string `yaml:"selector"`

	// Score marks the metric as a decimal score rather than an integer
	// count. Scores are parsed as floats and keep their decimal part;
	// counts must parse as integers.
	Score bool `yaml:"score,omitempty"`
}

// DefaultMetrics returns the extraction mapping for the current WAVE
// report page layout.
func DefaultMetrics() []MetricSelector {
	return []MetricSelector{
		{Label: "Errors", Selector: "li#error span"},
		{Label: "Contrast Errors", Selector: "li#contrastnum span"},
		{Label: "Alerts", Selector: "li#alert span"},
		{Label: "Features", Selector: "li#feature span"},
		{Label: "Structure", Selector: "li#structure span"},
		{Label: "ARIA", Selector: "li#aria span"},
		{Label: "AIM Score", Selector: "span#aim-score-value", Score: true},
	}
}

// Config holds all configuration options for wavereport.
// It is populated from CLI flags and the optional .wavereport file, then
// passed through the application via dependency injection rather than
// global state.
type Config struct {
	// ReportEndpoint is the prefix the target URL is appended to when
	// composing the report page address.
	ReportEndpoint string

	// MinSleep and MaxSleep bound the randomized settle delay before each
	// screenshot. MinSleep must not exceed MaxSleep and neither may be
	// negative. The drawn delay is inclusive of both bounds.
	MinSleep time.Duration
	MaxSleep time.Duration

	// ReadyTimeout is the maximum wait for the analysis completion marker.
	// Expiry marks the URL's record as failed without aborting the batch.
	ReadyTimeout time.Duration

	// SpinnerTimeout bounds the non-fatal wait for the loading overlay to
	// disappear once the completion marker is present.
	SpinnerTimeout time.Duration

	// RenderGrace is the fixed wait applied after the spinner clears.
	RenderGrace time.Duration

	// ReadySelector and SpinnerSelector locate the completion marker and
	// the loading overlay in the rendered report page.
	ReadySelector   string
	SpinnerSelector string

	// InputPath is the URL list file: plain text, one URL per non-empty line.
	InputPath string

	// CSVPath and JSONLPath are the two append-only record stores. Both
	// carry the same per-scan rows; the CSV is the reporter's input.
	CSVPath   string
	JSONLPath string

	// ScreenshotDir is where compressed report screenshots are written.
	ScreenshotDir string

	// ReportPath is the rendered HTML report location.
	ReportPath string

	// BrowserPath points at a browser executable. When empty, the
	// WAVE_BROWSER environment variable is honored and then well-known
	// Chrome/Chromium names are searched on PATH.
	BrowserPath string

	// ViewportWidth and ViewportHeight describe the emulated browser window.
	ViewportWidth  int
	ViewportHeight int

	// MaxScreenshotWidth caps stored screenshot width; larger captures are
	// downscaled preserving aspect ratio. Zero disables downscaling.
	MaxScreenshotWidth int

	// Metrics is the extraction mapping applied to the rendered page.
	// The mapping order determines CSV column order.
	Metrics []MetricSelector

	// Verbose switches the progress bars to detailed log lines and raises
	// the log level to debug.
	Verbose bool

	// ConfigFilePath is an explicit .wavereport location. When empty, the
	// current directory and then the home directory are searched.
	ConfigFilePath string

	// HistoryDir is the directory holding the SQLite scan history
	// database. Defaults to the XDG data directory.
	HistoryDir string
}

// NewConfig creates a Config with default values. Most defaults are
// non-zero, so callers should always start from this constructor rather
// than a zero struct.
func NewConfig() *Config {
	return &Config{
		ReportEndpoint:     DefaultReportEndpoint,
		MinSleep:           DefaultMinSleep,
		MaxSleep:           DefaultMaxSleep,
		ReadyTimeout:       DefaultReadyTimeout,
		SpinnerTimeout:     DefaultSpinnerTimeout,
		RenderGrace:        DefaultRenderGrace,
		ReadySelector:      DefaultReadySelector,
		SpinnerSelector:    DefaultSpinnerSelector,
		InputPath:          DefaultInputPath,
		CSVPath:            DefaultCSVPath,
		JSONLPath:          DefaultJSONLPath,
		ScreenshotDir:      DefaultScreenshotDir,
		ReportPath:         DefaultReportPath,
		ViewportWidth:      DefaultViewportWidth,
		ViewportHeight:     DefaultViewportHeight,
		MaxScreenshotWidth: DefaultMaxScreenshotWidth,
		Metrics:            DefaultMetrics(),
		HistoryDir:         XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for wavereport.
// On Linux: ~/.local/share/wavereport
// On macOS: ~/Library/Application Support/wavereport
// On Windows: %LOCALAPPDATA%\wavereport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It is called once after CLI parsing and config file loading, before any
// browser work begins, so bad values fail fast with a specific error.
func (c *Config) Validate() error {
	if c.MinSleep < 0 || c.MaxSleep < 0 {
		return ErrNegativeSleep
	}
	if c.MinSleep > c.MaxSleep {
		return ErrSleepOrder
	}
	if c.ReadyTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ReportEndpoint == "" {
		return ErrNoEndpoint
	}
	if c.InputPath == "" || c.CSVPath == "" || c.JSONLPath == "" {
		return ErrMissingPath
	}
	if len(c.Metrics) == 0 {
		return ErrNoMetrics
	}
	seen := make(map[string]bool, len(c.Metrics))
	for _, m := range c.Metrics {
		if m.Label == "" || m.Selector == "" {
			return ErrInvalidMetric
		}
		if seen[m.Label] {
			return ErrDuplicateMetric
		}
		seen[m.Label] = true
	}
	return nil
}

// MetricLabels returns the configured metric labels in mapping order.
// This order is the CSV column order and the report column order.
func (c *Config) MetricLabels() []string {
	labels := make([]string, len(c.Metrics))
	for i, m := range c.Metrics {
		labels[i] = m.Label
	}
	return labels
}
