package model

import "time"

// Status indicates whether a scan attempt produced usable metrics.
type Status string

const (
	// StatusOK marks a record whose metrics were extracted successfully.
	StatusOK Status = "ok"

	// StatusFailed marks a record where navigation, the completion wait,
	// or extraction failed. Failed records still occupy their row in the
	// stores so every input URL accounts for exactly one record per run.
	StatusFailed Status = "failed"
)

// HumanTimeFormat is the layout for the human-readable timestamp column.
const HumanTimeFormat = "01/02/2006 03:04 PM"

// Metric is one extracted value from the rendered report page.
// Counts and scores share this shape; a count is simply a metric whose
// value has no fractional part.
type Metric struct {
	// Label is the metric name as configured in the extraction mapping,
	// e.g. "Errors" or "AIM Score".
	Label string `json:"label"`

	// Value is the extracted numeric value.
	Value float64 `json:"value"`
}

// ScanRecord is the row of data produced for one URL in one run.
// Records are append-only: a rescan of the same URL in a later run
// produces a new record with a new RunID, never an update in place.
type ScanRecord struct {
	// RunID identifies the scanner invocation that produced this record.
	// All records of one run share it. It is the run's UTC unix timestamp.
	RunID int64 `json:"run_id"`

	// URL is the scanned target.
	URL string `json:"url"`

	// Timestamp is the capture time as a UTC unix timestamp.
	Timestamp int64 `json:"timestamp"`

	// TimestampHuman is the capture time rendered with HumanTimeFormat.
	TimestampHuman string `json:"timestamp_h"`

	// ScreenshotPath is the relative path to the stored screenshot,
	// empty for records that failed before the capture step.
	ScreenshotPath string `json:"screenshot_file"`

	// Status is StatusOK or StatusFailed.
	Status Status `json:"status"`

	// Error carries the failure detail for StatusFailed records.
	Error string `json:"error,omitempty"`

	// Metrics holds the extracted values in extraction-mapping order.
	Metrics []Metric `json:"results"`
}

// NewScanRecord creates a pending record for one URL in the given run.
// The record starts as StatusOK; a failing scan step downgrades it via
// MarkFailed before it is appended.
func NewScanRecord(runID int64, url string, at time.Time) *ScanRecord {
	at = at.UTC()
	return &ScanRecord{
		RunID:          runID,
		URL:            url,
		Timestamp:      at.Unix(),
		TimestampHuman: at.Format(HumanTimeFormat),
		Status:         StatusOK,
	}
}

// Failed reports whether the record represents a failed scan attempt.
func (r *ScanRecord) Failed() bool {
	return r.Status == StatusFailed
}

// MarkFailed downgrades the record to StatusFailed. The step name gives
// the reader enough context to tell a navigation timeout from an
// extraction error.
func (r *ScanRecord) MarkFailed(step string, err error) {
	r.Status = StatusFailed
	if err != nil {
		r.Error = step + ": " + err.Error()
	} else {
		r.Error = step
	}
}

// Stamp sets the capture time. The scanner re-stamps the record after
// the scan attempt so the timestamp reflects capture, not queueing.
func (r *ScanRecord) Stamp(at time.Time) {
	at = at.UTC()
	r.Timestamp = at.Unix()
	r.TimestampHuman = at.Format(HumanTimeFormat)
}

// Metric returns the value for the given label and whether it exists.
func (r *ScanRecord) Metric(label string) (float64, bool) {
	for _, m := range r.Metrics {
		if m.Label == label {
			return m.Value, true
		}
	}
	return 0, false
}

// Time returns the capture time.
func (r *ScanRecord) Time() time.Time {
	return time.Unix(r.Timestamp, 0).UTC()
}

// RunTime returns the run's shared start time.
func (r *ScanRecord) RunTime() time.Time {
	return time.Unix(r.RunID, 0).UTC()
}

// FormatRunLabel renders a run identifier as a human-readable UTC label
// for run selectors and history listings.
func FormatRunLabel(runID int64) string {
	return time.Unix(runID, 0).UTC().Format("2006-01-02 03:04 PM")
}
