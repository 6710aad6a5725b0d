package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".wavereport"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .wavereport configuration file.
// Every field is optional; zero values leave the corresponding Config
// field untouched. Durations are written in Go syntax ("30s", "2m").
type File struct {
	ReportEndpoint     string           `yaml:"reportEndpoint,omitempty"`
	MinSleep           time.Duration    `yaml:"minSleep,omitempty"`
	MaxSleep           time.Duration    `yaml:"maxSleep,omitempty"`
	ReadyTimeout       time.Duration    `yaml:"readyTimeout,omitempty"`
	SpinnerTimeout     time.Duration    `yaml:"spinnerTimeout,omitempty"`
	ReadySelector      string           `yaml:"readySelector,omitempty"`
	SpinnerSelector    string           `yaml:"spinnerSelector,omitempty"`
	InputPath          string           `yaml:"input,omitempty"`
	CSVPath            string           `yaml:"csv,omitempty"`
	JSONLPath          string           `yaml:"jsonl,omitempty"`
	ScreenshotDir      string           `yaml:"screenshots,omitempty"`
	ReportPath         string           `yaml:"report,omitempty"`
	BrowserPath        string           `yaml:"browser,omitempty"`
	ViewportWidth      int              `yaml:"viewportWidth,omitempty"`
	ViewportHeight     int              `yaml:"viewportHeight,omitempty"`
	MaxScreenshotWidth int              `yaml:"maxScreenshotWidth,omitempty"`
	Metrics            []MetricSelector `yaml:"metrics,omitempty"`
}

// LoadConfigFile loads overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// treat that as fatal only when the path was explicitly specified.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies the file's non-zero fields onto cfg.
// CLI flags are applied after this, so explicit flags win over the file.
func (cf *File) Apply(cfg *Config) {
	if cf.ReportEndpoint != "" {
		cfg.ReportEndpoint = cf.ReportEndpoint
	}
	if cf.MinSleep > 0 {
		cfg.MinSleep = cf.MinSleep
	}
	if cf.MaxSleep > 0 {
		cfg.MaxSleep = cf.MaxSleep
	}
	if cf.ReadyTimeout > 0 {
		cfg.ReadyTimeout = cf.ReadyTimeout
	}
	if cf.SpinnerTimeout > 0 {
		cfg.SpinnerTimeout = cf.SpinnerTimeout
	}
	if cf.ReadySelector != "" {
		cfg.ReadySelector = cf.ReadySelector
	}
	if cf.SpinnerSelector != "" {
		cfg.SpinnerSelector = cf.SpinnerSelector
	}
	if cf.InputPath != "" {
		cfg.InputPath = cf.InputPath
	}
	if cf.CSVPath != "" {
		cfg.CSVPath = cf.CSVPath
	}
	if cf.JSONLPath != "" {
		cfg.JSONLPath = cf.JSONLPath
	}
	if cf.ScreenshotDir != "" {
		cfg.ScreenshotDir = cf.ScreenshotDir
	}
	if cf.ReportPath != "" {
		cfg.ReportPath = cf.ReportPath
	}
	if cf.BrowserPath != "" {
		cfg.BrowserPath = cf.BrowserPath
	}
	if cf.ViewportWidth > 0 {
		cfg.ViewportWidth = cf.ViewportWidth
	}
	if cf.ViewportHeight > 0 {
		cfg.ViewportHeight = cf.ViewportHeight
	}
	if cf.MaxScreenshotWidth > 0 {
		cfg.MaxScreenshotWidth = cf.MaxScreenshotWidth
	}
	if len(cf.Metrics) > 0 {
		cfg.Metrics = cf.Metrics
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .wavereport in the current directory
// 3. Look for .wavereport in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
