package store

import (
	"context"
	"errors"
	"testing"

	"github.com/greg-randall/wave-report/internal/model"
)

// countingStore records appends and can be told to fail.
type countingStore struct {
	appends   int
	closes    int
	appendErr error
	closeErr  error
}

func (s *countingStore) Append(_ context.Context, _ *model.ScanRecord) error {
	s.appends++
	return s.appendErr
}

func (s *countingStore) Close() error {
	s.closes++
	return s.closeErr
}

// TestMultiStore tests the fan-out semantics keeping the mirrors in sync.
func TestMultiStore(t *testing.T) {
	t.Parallel()

	t.Run("append reaches every member", func(t *testing.T) {
		t.Parallel()

		a, b := &countingStore{}, &countingStore{}
		m := NewMultiStore(a, b)

		if err := m.Append(context.Background(), testRecord(100, "https://example.com")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if a.appends != 1 || b.appends != 1 {
			t.Errorf("expected one append per member, got %d and %d", a.appends, b.appends)
		}
	})

	t.Run("one failing member does not starve the others", func(t *testing.T) {
		t.Parallel()

		broken := &countingStore{appendErr: errors.New("disk full")}
		healthy := &countingStore{}
		m := NewMultiStore(broken, healthy)

		err := m.Append(context.Background(), testRecord(100, "https://example.com"))
		if err == nil {
			t.Fatal("expected the member failure to surface")
		}
		if healthy.appends != 1 {
			t.Errorf("expected the healthy member to still receive the record, got %d appends", healthy.appends)
		}
	})

	t.Run("close closes every member and joins errors", func(t *testing.T) {
		t.Parallel()

		a := &countingStore{closeErr: errors.New("flush failed")}
		b := &countingStore{}
		m := NewMultiStore(a, b)

		if err := m.Close(); err == nil {
			t.Error("expected the close failure to surface")
		}
		if a.closes != 1 || b.closes != 1 {
			t.Errorf("expected one close per member, got %d and %d", a.closes, b.closes)
		}
	})
}
