package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/greg-randall/wave-report/internal/model"
)

// ErrInvalidHeader is returned when the CSV header does not start with
// the expected fixed columns.
var ErrInvalidHeader = errors.New("csv header does not match the scan record layout")

// ReadCSV loads the full accumulated dataset from the tabular store.
// It returns the records, the metric labels taken from the header, and
// an error for unreadable files. Malformed rows (wrong column count,
// unparseable numeric fields) are skipped with a warning rather than
// aborting the whole load, because one corrupt row must not make years
// of history unreadable.
func ReadCSV(path string, logger *slog.Logger) ([]model.ScanRecord, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path) //nolint:gosec // User-provided dataset path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // Read-only file

	reader := csv.NewReader(file)
	// Column counts are validated per row so one bad row is skippable.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("dataset %s is empty", path)
		}
		return nil, nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	if len(header) < len(baseColumns) {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidHeader, path)
	}
	for i, col := range baseColumns {
		if header[i] != col {
			return nil, nil, fmt.Errorf("%w: expected column %q, found %q", ErrInvalidHeader, col, header[i])
		}
	}
	labels := header[len(baseColumns):]

	var records []model.ScanRecord
	line := 1
	for {
		line++
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn("skipping unreadable row", "line", line, "error", err)
			continue
		}
		if len(row) != len(header) {
			logger.Warn("skipping row with wrong column count",
				"line", line, "columns", len(row), "expected", len(header))
			continue
		}

		rec, err := parseRow(row, labels)
		if err != nil {
			logger.Warn("skipping malformed row", "line", line, "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, labels, nil
}

// parseRow converts one CSV row into a ScanRecord.
func parseRow(row []string, labels []string) (model.ScanRecord, error) {
	runID, err := strconv.ParseInt(row[1], 10, 64)
	if err != nil {
		return model.ScanRecord{}, fmt.Errorf("bad run_id %q: %w", row[1], err)
	}
	timestamp, err := strconv.ParseInt(row[2], 10, 64)
	if err != nil {
		return model.ScanRecord{}, fmt.Errorf("bad timestamp %q: %w", row[2], err)
	}

	rec := model.ScanRecord{
		URL:            row[0],
		RunID:          runID,
		Timestamp:      timestamp,
		TimestampHuman: row[3],
		ScreenshotPath: row[4],
		Status:         model.Status(row[5]),
		Error:          row[6],
		Metrics:        make([]model.Metric, 0, len(labels)),
	}

	for i, label := range labels {
		raw := row[len(baseColumns)+i]
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.ScanRecord{}, fmt.Errorf("bad value %q for %s: %w", raw, label, err)
		}
		rec.Metrics = append(rec.Metrics, model.Metric{Label: label, Value: value})
	}

	return rec, nil
}
