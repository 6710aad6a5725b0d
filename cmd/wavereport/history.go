package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greg-randall/wave-report/internal/config"
	"github.com/greg-randall/wave-report/internal/model"
	"github.com/greg-randall/wave-report/internal/store"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show scan history from the local database",
		Long: `History queries the local scan history database and prints past runs.
Without flags it lists every recorded run with its record and failure
counts. With --url it prints the metric trend for one URL across runs,
and with --run it prints every record from one run.

The database lives in the XDG data directory and is populated
automatically by the run command.

Examples:
  # List all recorded runs
  wavereport history

  # Show one URL's metrics over time
  wavereport history --url https://example.com

  # Show every record from a specific run
  wavereport history --run 1756600000`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("url", "", "Show the metric trend for this URL")
	cmd.Flags().Int64("run", 0, "Show every record from this run ID")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	url, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}

	history, err := store.OpenHistory(config.XDGDataDir(), store.HistoryOptions{})
	if err != nil {
		if errors.Is(err, store.ErrHistoryNotFound) {
			return fmt.Errorf("no scan history yet; run a scan first: %w", err)
		}
		return err
	}
	defer history.Close() //nolint:errcheck // Read-only database

	ctx := context.Background()
	switch {
	case url != "":
		return printURLHistory(ctx, history, url)
	case runID != 0:
		return printRunRecords(ctx, history, runID)
	default:
		return printRunList(ctx, history)
	}
}

// printRunList prints a summary line per recorded run.
func printRunList(ctx context.Context, history *store.History) error {
	runs, err := history.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTARTED\tRECORDS\tFAILED")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", r.RunID, r.Label, r.Records, r.Failed)
	}
	return w.Flush()
}

// printURLHistory prints the metric trend of one URL across runs.
func printURLHistory(ctx context.Context, history *store.History, url string) error {
	records, err := history.HistoryForURL(ctx, url)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No records for %s.\n", url)
		return nil
	}

	fmt.Printf("History for %s (%d scan(s)):\n\n", url, len(records))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "SCANNED\tSTATUS"
	for _, m := range records[0].Metrics {
		header += "\t" + m.Label
	}
	fmt.Fprintln(w, header)
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s", rec.TimestampHuman, rec.Status)
		if rec.Failed() {
			fmt.Fprintf(w, "\t(%s)", rec.Error)
		} else {
			for _, m := range rec.Metrics {
				fmt.Fprintf(w, "\t%s", store.FormatMetric(m.Value))
			}
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// printRunRecords prints every record captured in one run.
func printRunRecords(ctx context.Context, history *store.History, runID int64) error {
	records, err := history.RecordsForRun(ctx, runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No records for run %d.\n", runID)
		return nil
	}

	fmt.Printf("Run %d (%s), %d record(s):\n\n",
		runID, model.FormatRunLabel(runID), len(records))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s", rec.URL, rec.Status)
		if rec.Failed() {
			fmt.Fprintf(w, "\t%s", rec.Error)
		} else {
			for _, m := range rec.Metrics {
				fmt.Fprintf(w, "\t%s=%s", m.Label, store.FormatMetric(m.Value))
			}
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
