package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/greg-randall/wave-report/internal/model"
)

// openTestHistory creates a history database in a temp directory.
func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(t.TempDir(), HistoryOptions{CreateIfNotExists: true})
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	t.Cleanup(func() {
		if err := h.Close(); err != nil {
			t.Errorf("failed to close history: %v", err)
		}
	})
	return h
}

// TestOpenHistory tests database creation semantics.
func TestOpenHistory(t *testing.T) {
	t.Parallel()

	t.Run("creates the database when asked to", func(t *testing.T) {
		t.Parallel()
		openTestHistory(t)
	})

	t.Run("missing database without create returns ErrHistoryNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := OpenHistory(t.TempDir(), HistoryOptions{})
		if !errors.Is(err, ErrHistoryNotFound) {
			t.Errorf("expected ErrHistoryNotFound, got %v", err)
		}
	})
}

// TestHistoryAppend tests inserts and the (run_id, url) uniqueness rule.
func TestHistoryAppend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("round trips a record", func(t *testing.T) {
		t.Parallel()

		h := openTestHistory(t)
		if err := h.Append(ctx, testRecord(100, "https://example.com")); err != nil {
			t.Fatal(err)
		}

		records, err := h.HistoryForURL(ctx, "https://example.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		rec := records[0]
		if rec.RunID != 100 || rec.Failed() {
			t.Errorf("unexpected record: %+v", rec)
		}
		if v, ok := rec.Metric("AIM Score"); !ok || v != 8.6 {
			t.Errorf("expected AIM Score 8.6, got (%v, %v)", v, ok)
		}
	})

	t.Run("repeated url within one run is ignored, not replaced", func(t *testing.T) {
		t.Parallel()

		h := openTestHistory(t)
		first := testRecord(100, "https://example.com")
		if err := h.Append(ctx, first); err != nil {
			t.Fatal(err)
		}

		second := testRecord(100, "https://example.com")
		second.Metrics[0].Value = 99
		if err := h.Append(ctx, second); err != nil {
			t.Fatal(err)
		}

		records, err := h.HistoryForURL(ctx, "https://example.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 {
			t.Fatalf("expected the duplicate to be ignored, got %d records", len(records))
		}
		if v, _ := records[0].Metric("Errors"); v != 3 {
			t.Errorf("expected the first record to survive, got Errors=%v", v)
		}
	})

	t.Run("same url across runs accumulates", func(t *testing.T) {
		t.Parallel()

		h := openTestHistory(t)
		for _, run := range []int64{100, 200, 300} {
			if err := h.Append(ctx, testRecord(run, "https://example.com")); err != nil {
				t.Fatal(err)
			}
		}

		records, err := h.HistoryForURL(ctx, "https://example.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}
		for i, want := range []int64{100, 200, 300} {
			if records[i].RunID != want {
				t.Errorf("expected oldest-first ordering, got run %d at index %d", records[i].RunID, i)
			}
		}
	})
}

// TestListRuns tests the per-run summary query.
func TestListRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := openTestHistory(t)

	if err := h.Append(ctx, testRecord(100, "https://a.example")); err != nil {
		t.Fatal(err)
	}
	if err := h.Append(ctx, testRecord(100, "https://b.example")); err != nil {
		t.Fatal(err)
	}
	failed := model.NewScanRecord(200, "https://a.example", time.Unix(200, 0))
	failed.MarkFailed("navigate", errors.New("timeout"))
	if err := h.Append(ctx, failed); err != nil {
		t.Fatal(err)
	}

	runs, err := h.ListRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	// Newest first.
	if runs[0].RunID != 200 || runs[1].RunID != 100 {
		t.Errorf("expected runs [200 100], got [%d %d]", runs[0].RunID, runs[1].RunID)
	}
	if runs[0].Records != 1 || runs[0].Failed != 1 {
		t.Errorf("expected run 200 to have 1 record and 1 failure, got %+v", runs[0])
	}
	if runs[1].Records != 2 || runs[1].Failed != 0 {
		t.Errorf("expected run 100 to have 2 records and no failures, got %+v", runs[1])
	}
}

// TestRecordsForRun tests per-run record retrieval ordering.
func TestRecordsForRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := openTestHistory(t)

	for _, url := range []string{"https://b.example", "https://a.example"} {
		if err := h.Append(ctx, testRecord(100, url)); err != nil {
			t.Fatal(err)
		}
	}

	records, err := h.RecordsForRun(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].URL != "https://a.example" || records[1].URL != "https://b.example" {
		t.Errorf("expected URL ordering, got [%s %s]", records[0].URL, records[1].URL)
	}

	if empty, err := h.RecordsForRun(ctx, 999); err != nil || len(empty) != 0 {
		t.Errorf("expected no records for an unknown run, got (%v, %v)", empty, err)
	}
}
