package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/greg-randall/wave-report/internal/browser"
	"github.com/greg-randall/wave-report/internal/config"
	"github.com/greg-randall/wave-report/internal/log"
	"github.com/greg-randall/wave-report/internal/progress"
	"github.com/greg-randall/wave-report/internal/scanner"
	"github.com/greg-randall/wave-report/internal/store"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the URL list through WAVE and record the results",
		Long: `Run reads a list of URLs (one per line, blank lines ignored), visits the
WAVE accessibility report page for each one, waits for the analysis to
finish, captures a compressed full-page screenshot, extracts the report
metrics, and appends one record per URL to results.csv and results.jsonl.

A failed URL is recorded as a failed row and the batch continues; the
command exits non-zero only on fatal startup errors such as a missing
browser.

Examples:
  # Scan the default urls.txt
  wavereport run

  # Scan a different list with tighter pacing
  wavereport run -i sites.txt --min-sleep 2 --max-sleep 10

  # Point at a custom Chrome binary
  wavereport run --browser /opt/chrome/chrome

Configuration file (.wavereport) example:
  minSleep: 10s
  maxSleep: 60s
  screenshots: shots
  metrics:
    - label: Errors
      selector: "li#error span"
    - label: AIM Score
      selector: "span#aim-score-value"
      score: true`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	cmd.Flags().StringP("input", "i", config.DefaultInputPath,
		"Input file with one URL per line")
	cmd.Flags().Int("min-sleep", int(config.DefaultMinSleep/time.Second),
		"Minimum settle time in seconds before each capture")
	cmd.Flags().Int("max-sleep", int(config.DefaultMaxSleep/time.Second),
		"Maximum settle time in seconds before each capture")
	cmd.Flags().String("browser", "",
		"Path to a Chrome/Chromium executable (default: search PATH and $WAVE_BROWSER)")
	cmd.Flags().String("screenshots", config.DefaultScreenshotDir,
		"Directory for captured screenshots")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wavereport in current or home directory)")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.New(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown.
	// Cancellation between steps leaves every already-appended record
	// intact; only the record in flight is lost.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// buildRunConfig creates a Config from defaults, the optional config
// file, and finally the command flags, in that precedence order.
func buildRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file, it must exist.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Flags override the file, but only when actually set, so a file
	// value is not clobbered by a flag default.
	if cmd.Flags().Changed("input") || cfg.InputPath == "" {
		if cfg.InputPath, err = cmd.Flags().GetString("input"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("min-sleep") {
		seconds, err := cmd.Flags().GetInt("min-sleep")
		if err != nil {
			return nil, err
		}
		cfg.MinSleep = time.Duration(seconds) * time.Second
	}
	if cmd.Flags().Changed("max-sleep") {
		seconds, err := cmd.Flags().GetInt("max-sleep")
		if err != nil {
			return nil, err
		}
		cfg.MaxSleep = time.Duration(seconds) * time.Second
	}
	if cmd.Flags().Changed("browser") {
		if cfg.BrowserPath, err = cmd.Flags().GetString("browser"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("screenshots") {
		if cfg.ScreenshotDir, err = cmd.Flags().GetString("screenshots"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// runScan wires up the browser, the stores, and the scanner, then runs
// the batch.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	urls, err := scanner.ReadURLList(cfg.InputPath)
	if err != nil {
		return err
	}

	execPath, err := browser.ResolveExecPath(cfg.BrowserPath)
	if err != nil {
		if errors.Is(err, browser.ErrBrowserNotFound) {
			printBrowserHelp()
		}
		return err
	}
	logger.Info("using browser", "path", execPath)

	b := browser.NewChrome(ctx, execPath, cfg.ViewportWidth, cfg.ViewportHeight)
	defer b.Close() //nolint:errcheck // Browser teardown

	appender, err := openStores(cfg, logger)
	if err != nil {
		return err
	}
	// Closing flushes the stores on every exit path, interrupts included.
	defer func() {
		if err := appender.Close(); err != nil {
			logger.Error("failed to close stores", "error", err)
		}
	}()

	var tracker progress.Tracker
	if cfg.Verbose {
		tracker = progress.NewLogTracker(logger)
	} else {
		tracker = progress.NewBarTracker(os.Stderr)
	}

	sc := scanner.New(cfg, b, appender,
		scanner.WithLogger(logger),
		scanner.WithTracker(tracker),
	)

	if err := sc.Run(ctx, urls); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Scan interrupted; recorded results are intact.")
			return nil
		}
		return err
	}

	fmt.Printf("Scan complete: %d URL(s) processed, results appended to %s\n",
		len(urls), cfg.CSVPath)
	return nil
}

// openStores opens the CSV and JSONL mirrors plus the history database.
// The flat files are required; the history database is best effort so a
// broken XDG directory never blocks a scan.
func openStores(cfg *config.Config, logger *slog.Logger) (store.Appender, error) {
	csvStore, err := store.OpenCSV(cfg.CSVPath, cfg.MetricLabels())
	if err != nil {
		return nil, err
	}

	jsonlStore, err := store.OpenJSONL(cfg.JSONLPath)
	if err != nil {
		_ = csvStore.Close() //nolint:errcheck // Best effort cleanup
		return nil, err
	}

	stores := []store.Appender{csvStore, jsonlStore}

	history, err := store.OpenHistory(cfg.HistoryDir, store.HistoryOptions{CreateIfNotExists: true})
	if err != nil {
		logger.Warn("scan history database unavailable, continuing without it", "error", err)
	} else {
		stores = append(stores, history)
	}

	return store.NewMultiStore(stores...), nil
}

// printBrowserHelp prints remediation guidance for a missing browser.
func printBrowserHelp() {
	fmt.Fprintln(os.Stderr, "============================================================")
	fmt.Fprintln(os.Stderr, "No Chrome or Chromium installation was found.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "wavereport needs Google Chrome or Chromium to render the WAVE")
	fmt.Fprintln(os.Stderr, "report page. Download it from https://www.google.com/chrome/")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "If Chrome is installed in a custom location, point at it with:")
	fmt.Fprintln(os.Stderr, "  wavereport run --browser /path/to/chrome")
	fmt.Fprintln(os.Stderr, "or set the WAVE_BROWSER environment variable.")
	fmt.Fprintln(os.Stderr, "============================================================")
}
