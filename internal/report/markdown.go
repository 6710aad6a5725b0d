package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs a summary of the dataset as GitHub-flavored
// Markdown, for sharing scan results in docs or pull requests without
// attaching the full interactive report.
type MarkdownWriter struct {
	baseWriter
	now func() time.Time
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// MarkdownOption configures a MarkdownWriter.
type MarkdownOption func(*MarkdownWriter)

// WithMarkdownClock injects the time source for the generated-at field.
func WithMarkdownClock(now func() time.Time) MarkdownOption {
	return func(w *MarkdownWriter) {
		w.now = now
	}
}

// Write renders the dataset summary.
func (w *MarkdownWriter) Write(ds *Dataset) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, ds)
	w.writeLatest(md, ds)
	w.writeAverages(md, ds)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and dataset overview.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, ds *Dataset) {
	md.H1("WAVE Accessibility Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", w.now().UTC().Format("2006-01-02 15:04:05 MST")},
			{"Runs", strconv.Itoa(len(ds.Runs))},
			{"Targets", strconv.Itoa(len(ds.URLs))},
			{"Records", strconv.Itoa(len(ds.Records))},
		},
	})
	md.PlainText("")
}

// writeLatest writes each target's newest result.
func (w *MarkdownWriter) writeLatest(md *markdown.Markdown, ds *Dataset) {
	md.H2("Latest Results")
	md.PlainText("")

	header := append([]string{"URL"}, ds.Labels...)
	header = append(header, "Status")

	rows := make([][]string, 0, len(ds.Latest))
	for _, snap := range ds.Latest {
		row := []string{snap.Record.URL}
		for _, label := range ds.Labels {
			if v, ok := snap.Record.Metric(label); ok && !snap.Record.Failed() {
				row = append(row, formatValue(v))
			} else {
				row = append(row, "-")
			}
		}
		if snap.Record.Failed() {
			row = append(row, "failed")
		} else {
			row = append(row, "ok")
		}
		rows = append(rows, row)
	}

	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
}

// writeAverages writes the per-run averages behind the trend charts.
func (w *MarkdownWriter) writeAverages(md *markdown.Markdown, ds *Dataset) {
	md.H2("Run Averages")
	md.PlainText("")

	header := append([]string{"Run"}, ds.Labels...)
	header = append(header, "Scanned", "Failed")

	rows := make([][]string, 0, len(ds.Overall))
	for _, run := range ds.Overall {
		row := []string{run.Label}
		for i := range ds.Labels {
			if i < len(run.Values) {
				row = append(row, strconv.FormatFloat(run.Values[i], 'f', 1, 64))
			} else {
				row = append(row, "-")
			}
		}
		row = append(row, strconv.Itoa(run.Scanned), strconv.Itoa(run.Failed))
		rows = append(rows, row)
	}

	md.Table(markdown.TableSet{Header: header, Rows: rows})
}
