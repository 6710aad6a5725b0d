package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/greg-randall/wave-report/internal/model"
)

// JSONLStore appends scan records to a line-delimited JSON file.
// It mirrors the CSV store row for row but keeps the structured metric
// list, so downstream tooling does not have to re-split columns.
type JSONLStore struct {
	file *os.File
}

// OpenJSONL opens the JSONL store at path for appending, creating the
// file if needed.
func OpenJSONL(path string) (*JSONLStore, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // Results file is not sensitive
	if err != nil {
		return nil, fmt.Errorf("failed to open jsonl store %s: %w", path, err)
	}
	return &JSONLStore{file: file}, nil
}

// Append writes one record as a single JSON line.
// The line is written with one Write call so a concurrent reader never
// observes a torn record boundary.
func (s *JSONLStore) Append(_ context.Context, rec *model.ScanRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record for %s: %w", rec.URL, err)
	}
	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append jsonl record for %s: %w", rec.URL, err)
	}
	return nil
}

// Close closes the file.
func (s *JSONLStore) Close() error {
	return s.file.Close()
}
