package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/greg-randall/wave-report/internal/config"
	"github.com/greg-randall/wave-report/internal/log"
	"github.com/greg-randall/wave-report/internal/report"
	"github.com/greg-randall/wave-report/internal/store"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a trend report from accumulated scan results",
		Long: `Report reads the accumulated results.csv, aggregates every recorded run,
and writes a self-contained HTML report: the latest metrics per URL with
change indicators against the previous scan, per-run averages charted
over time, and a per-URL drill-down with metric history and the latest
screenshot.

The report is a static file with no external requests; it can be opened
from disk or dropped onto any web server as is.

Examples:
  # Render report.html from results.csv
  wavereport report

  # Render from a different dataset
  wavereport report -i archive/results.csv -o archive/report.html

  # Emit a markdown summary instead
  wavereport report --markdown`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("input", "i", config.DefaultCSVPath,
		"Results CSV file to aggregate")
	cmd.Flags().StringP("output", "o", "",
		"Output file (default report.html, or report.md with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Write a markdown summary instead of the HTML report")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	markdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if output == "" {
		output = config.DefaultReportPath
		if markdown {
			output = "report.md"
		}
	}

	logger := log.New(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	records, labels, err := store.ReadCSV(input, logger)
	if err != nil {
		return err
	}

	dataset, err := report.Aggregate(records, labels)
	if err != nil {
		return fmt.Errorf("no usable records in %s: %w", input, err)
	}

	var buf bytes.Buffer
	var writer report.Writer
	if markdown {
		writer = report.NewMarkdownWriter(&buf)
	} else {
		writer = report.NewHTMLWriter(&buf)
	}
	if _, err := writer.Write(dataset); err != nil {
		return err
	}

	if err := atomicWrite(output, buf.Bytes()); err != nil {
		return err
	}

	fmt.Printf("Report written to %s (%d run(s), %d URL(s), %d record(s))\n",
		output, len(dataset.Runs), len(dataset.URLs), len(dataset.Records))
	return nil
}

// atomicWrite writes data to path via a temporary file and a rename, so
// a report being viewed in a browser is never seen half-written.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temporary report file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()        //nolint:errcheck // Best effort cleanup
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
