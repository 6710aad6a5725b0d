package report

import (
	"bytes"
	"strings"
	"testing"
)

// TestMarkdownWriter tests the markdown summary output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders title, latest results, and averages", func(t *testing.T) {
		t.Parallel()

		ds, err := Aggregate(sampleRecords(), testLabels)
		if err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf, WithMarkdownClock(fixedClock))
		n, err := w.Write(ds)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n == 0 {
			t.Error("expected a non-zero reported size")
		}

		out := buf.String()
		for _, want := range []string{
			"# WAVE Accessibility Report",
			"## Latest Results",
			"## Run Averages",
			"2025-03-14 15:09:00 UTC",
			"https://example.com",
			"failed",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("output is identical across renders", func(t *testing.T) {
		t.Parallel()

		ds, err := Aggregate(sampleRecords(), testLabels)
		if err != nil {
			t.Fatal(err)
		}

		var first, second bytes.Buffer
		if _, err := NewMarkdownWriter(&first, WithMarkdownClock(fixedClock)).Write(ds); err != nil {
			t.Fatal(err)
		}
		if _, err := NewMarkdownWriter(&second, WithMarkdownClock(fixedClock)).Write(ds); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first.Bytes(), second.Bytes()) {
			t.Error("expected identical output for an unchanged dataset")
		}
	})
}
