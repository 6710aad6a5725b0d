package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/greg-randall/wave-report/internal/model"
)

// historyFileName is the SQLite database file inside the history directory.
const historyFileName = "wavereport.db"

// ErrHistoryNotFound is returned when the history database does not exist
// and the caller asked not to create it.
var ErrHistoryNotFound = errors.New("scan history database not found")

// History provides SQLite-backed storage of the scan record stream.
// It duplicates what the CSV and JSONL mirrors hold, but with indexes,
// so the history command can answer per-URL and per-run questions without
// re-reading the whole flat files.
type History struct {
	db   *sql.DB
	path string
}

// HistoryOptions configures History behavior.
type HistoryOptions struct {
	// CreateIfNotExists creates the directory and database file if absent.
	// The run command sets this; the read-only history command does not,
	// so asking for history before any scan gives a clear error instead
	// of a silently empty database.
	CreateIfNotExists bool
}

// OpenHistory opens or creates the scan history database in dir.
func OpenHistory(dir string, opts HistoryOptions) (*History, error) {
	path := filepath.Join(dir, historyFileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		dsn = path + "?mode=rwc"
	} else {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s (run a scan first)", ErrHistoryNotFound, path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check history path: %w", err)
		}
		dsn = path + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite supports one writer; keep the pool at a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &History{db: db, path: path}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := h.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return h, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	return h.db.Close()
}

// createTables creates the schema if it does not exist.
func (h *History) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scan_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		url TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		screenshot TEXT NOT NULL DEFAULT '',
		metrics TEXT NOT NULL,
		UNIQUE(run_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_records_url ON scan_records(url);
	CREATE INDEX IF NOT EXISTS idx_records_run ON scan_records(run_id);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Append inserts one scan record. Records sharing (run_id, url) with an
// existing row are ignored rather than replaced, preserving the
// append-only invariant when an input list repeats a URL within one run.
func (h *History) Append(ctx context.Context, rec *model.ScanRecord) error {
	metricsJSON, err := json.Marshal(rec.Metrics)
	if err != nil {
		return fmt.Errorf("failed to serialize metrics: %w", err)
	}

	query := `
	INSERT OR IGNORE INTO scan_records (run_id, url, timestamp, status, error, screenshot, metrics)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := h.db.ExecContext(ctx, query,
		rec.RunID, rec.URL, rec.Timestamp, string(rec.Status),
		rec.Error, rec.ScreenshotPath, string(metricsJSON),
	); err != nil {
		return fmt.Errorf("failed to insert record for %s: %w", rec.URL, err)
	}
	return nil
}

// RunSummary describes one scanner run in the history.
type RunSummary struct {
	// RunID is the run's shared identifier.
	RunID int64

	// Label is the run's human-readable UTC start time.
	Label string

	// Records is the number of records the run produced.
	Records int

	// Failed is the number of failed records in the run.
	Failed int
}

// ListRuns returns a summary of every run, newest first.
func (h *History) ListRuns(ctx context.Context) ([]RunSummary, error) {
	query := `
	SELECT run_id,
	       COUNT(*),
	       SUM(CASE WHEN status = ? THEN 1 ELSE 0 END)
	FROM scan_records
	GROUP BY run_id
	ORDER BY run_id DESC
	`
	rows, err := h.db.QueryContext(ctx, query, string(model.StatusFailed))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Records, &r.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		r.Label = model.FormatRunLabel(r.RunID)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// HistoryForURL returns every record for one target, oldest run first,
// which is the order trend output wants.
func (h *History) HistoryForURL(ctx context.Context, url string) ([]model.ScanRecord, error) {
	query := `
	SELECT run_id, url, timestamp, status, error, screenshot, metrics
	FROM scan_records
	WHERE url = ?
	ORDER BY run_id ASC
	`
	return h.queryRecords(ctx, query, url)
}

// RecordsForRun returns every record of one run, ordered by URL.
func (h *History) RecordsForRun(ctx context.Context, runID int64) ([]model.ScanRecord, error) {
	query := `
	SELECT run_id, url, timestamp, status, error, screenshot, metrics
	FROM scan_records
	WHERE run_id = ?
	ORDER BY url ASC
	`
	return h.queryRecords(ctx, query, runID)
}

// queryRecords runs a record query and decodes the rows.
func (h *History) queryRecords(ctx context.Context, query string, args ...any) ([]model.ScanRecord, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows

	var records []model.ScanRecord
	for rows.Next() {
		var rec model.ScanRecord
		var status, metricsJSON string
		if err := rows.Scan(&rec.RunID, &rec.URL, &rec.Timestamp,
			&status, &rec.Error, &rec.ScreenshotPath, &metricsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.Status = model.Status(status)
		rec.TimestampHuman = rec.Time().Format(model.HumanTimeFormat)
		if err := json.Unmarshal([]byte(metricsJSON), &rec.Metrics); err != nil {
			return nil, fmt.Errorf("failed to decode metrics for %s: %w", rec.URL, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
