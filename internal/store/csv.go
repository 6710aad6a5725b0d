package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/greg-randall/wave-report/internal/model"
)

// baseColumns are the fixed leading CSV columns. Metric columns follow in
// extraction-mapping order.
var baseColumns = []string{
	"url", "run_id", "timestamp", "timestamp_h",
	"screenshot_file", "status", "error",
}

// CSVStore appends scan records to a row-oriented tabular file.
// The header is written once when the file is created; subsequent runs
// append below the existing rows. Each record is flushed individually so
// an interrupt loses at most the record in flight.
type CSVStore struct {
	file   *os.File
	writer *csv.Writer
	labels []string
}

// OpenCSV opens the CSV store at path for appending, creating the file
// and writing the header if it does not exist yet. labels are the metric
// column names, in order.
func OpenCSV(path string, labels []string) (*CSVStore, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // Results file is not sensitive
	if err != nil {
		return nil, fmt.Errorf("failed to open csv store %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to stat csv store %s: %w", path, err)
	}

	s := &CSVStore{
		file:   file,
		writer: csv.NewWriter(file),
		labels: labels,
	}

	// Empty file: this is the first run against this dataset.
	if info.Size() == 0 {
		header := append(append([]string{}, baseColumns...), labels...)
		if err := s.writer.Write(header); err != nil {
			_ = file.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to write csv header: %w", err)
		}
		s.writer.Flush()
		if err := s.writer.Error(); err != nil {
			_ = file.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to flush csv header: %w", err)
		}
	}

	return s, nil
}

// Append writes one record as a CSV row and flushes it to the file.
func (s *CSVStore) Append(_ context.Context, rec *model.ScanRecord) error {
	row := make([]string, 0, len(baseColumns)+len(s.labels))
	row = append(row,
		rec.URL,
		strconv.FormatInt(rec.RunID, 10),
		strconv.FormatInt(rec.Timestamp, 10),
		rec.TimestampHuman,
		rec.ScreenshotPath,
		string(rec.Status),
		rec.Error,
	)
	for _, label := range s.labels {
		value, _ := rec.Metric(label)
		row = append(row, FormatMetric(value))
	}

	if err := s.writer.Write(row); err != nil {
		return fmt.Errorf("failed to append csv row for %s: %w", rec.URL, err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv row for %s: %w", rec.URL, err)
	}
	return nil
}

// Close flushes pending rows and closes the file.
func (s *CSVStore) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		_ = s.file.Close() //nolint:errcheck // Best effort cleanup
		return err
	}
	return s.file.Close()
}

// FormatMetric renders a metric value without a trailing decimal part for
// whole numbers, so counts stay "12" while scores keep "7.5".
func FormatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
