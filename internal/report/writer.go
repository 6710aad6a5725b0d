package report

import "io"

// Writer renders an aggregated dataset to a destination.
// The HTML and Markdown writers share this interface so the report
// command treats the output format as a detail.
type Writer interface {
	// Write renders the dataset. Returns the number of bytes written and
	// any error encountered.
	Write(ds *Dataset) (int, error)
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
