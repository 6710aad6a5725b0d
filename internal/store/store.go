package store

import (
	"context"
	"errors"

	"github.com/greg-randall/wave-report/internal/model"
)

// Appender receives finished scan records. The CSV file, the JSONL file,
// and the SQLite history all implement it, and the scanner writes through
// a MultiStore so the encodings stay row-for-row in sync.
type Appender interface {
	// Append durably writes one record. A record is appended exactly once,
	// at the end of its scan attempt, and is never updated afterwards.
	Append(ctx context.Context, rec *model.ScanRecord) error

	// Close flushes and releases the underlying resource.
	Close() error
}

// MultiStore fans every append out to all member stores.
//
// Unlike a stop-on-first-error fan-out, MultiStore always attempts every
// member: the stores are independent mirrors, and a failure of one must
// not leave the others missing a row they could have taken.
type MultiStore struct {
	stores []Appender
}

// NewMultiStore creates an Appender writing to all given stores.
func NewMultiStore(stores ...Appender) *MultiStore {
	return &MultiStore{stores: stores}
}

// Append writes the record to every member store and joins any errors.
func (m *MultiStore) Append(ctx context.Context, rec *model.ScanRecord) error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every member store and joins any errors.
func (m *MultiStore) Close() error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
