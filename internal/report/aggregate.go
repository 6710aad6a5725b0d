package report

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/greg-randall/wave-report/internal/model"
)

// ErrEmptyDataset is returned when aggregation receives no usable
// records. The reporter writes nothing in that case.
var ErrEmptyDataset = errors.New("dataset contains no usable records")

// Run identifies one scanner invocation in the dataset.
type Run struct {
	ID    int64  `json:"run_id"`
	Label string `json:"label"`
}

// Delta is the change of one metric against the URL's previous run.
type Delta struct {
	Label string `json:"label"`

	// Change is latest minus previous. Meaningless when HasPrev is false.
	Change float64 `json:"change"`

	// HasPrev is false for a URL's first successful appearance, where
	// there is nothing to compare against.
	HasPrev bool `json:"has_prev"`
}

// Snapshot is one URL's latest record plus its change-since-last-run
// indicators.
type Snapshot struct {
	Record model.ScanRecord `json:"record"`
	Deltas []Delta          `json:"deltas"`
}

// RunAverages holds the per-run mean of every metric across successful
// records, aligned index-for-index with the dataset's Labels. Runs where
// every record failed report no values.
type RunAverages struct {
	RunID  int64     `json:"run_id"`
	Label  string    `json:"label"`
	Values []float64 `json:"values"`

	// Scanned and Failed count the run's records either way, so the
	// report can surface partially failed runs.
	Scanned int `json:"scanned"`
	Failed  int `json:"failed"`
}

// Dataset is the aggregated view the report templates render from.
type Dataset struct {
	// Labels are the metric column names in dataset order.
	Labels []string

	// Records is the normalized, de-duplicated record set, ordered by
	// run then URL. This ordering makes rendering deterministic.
	Records []model.ScanRecord

	// Runs lists every run, newest first, for the run selector.
	Runs []Run

	// URLs lists every scanned target, sorted.
	URLs []string

	// Latest holds each URL's newest record with deltas, sorted by URL.
	Latest []Snapshot

	// Overall holds per-run metric averages, oldest run first, for the
	// trend charts.
	Overall []RunAverages
}

// Aggregate builds the report dataset from the accumulated records.
//
// Normalization follows the accumulated file's quirks: trailing slashes
// are stripped so "example.com/" and "example.com" are one target, and
// within a run the first record for a (run, url) pair wins; later ones
// are the same attempt seen through the normalization.
func Aggregate(records []model.ScanRecord, labels []string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	normalized := make([]model.ScanRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		rec.URL = normalizeURL(rec.URL)
		key := recordKey(rec.RunID, rec.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		normalized = append(normalized, rec)
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		if normalized[i].RunID != normalized[j].RunID {
			return normalized[i].RunID < normalized[j].RunID
		}
		return normalized[i].URL < normalized[j].URL
	})

	ds := &Dataset{
		Labels:  labels,
		Records: normalized,
	}
	ds.buildRuns()
	ds.buildLatest()
	ds.buildOverall()

	return ds, nil
}

// buildRuns collects the unique runs, newest first.
func (ds *Dataset) buildRuns() {
	seen := make(map[int64]bool)
	for _, rec := range ds.Records {
		if seen[rec.RunID] {
			continue
		}
		seen[rec.RunID] = true
		ds.Runs = append(ds.Runs, Run{ID: rec.RunID, Label: model.FormatRunLabel(rec.RunID)})
	}
	sort.Slice(ds.Runs, func(i, j int) bool { return ds.Runs[i].ID > ds.Runs[j].ID })
}

// buildLatest picks each URL's newest record and computes deltas against
// the previous successful record for the same URL.
func (ds *Dataset) buildLatest() {
	// Records are ordered by run ascending, so the last record seen per
	// URL is the latest one.
	history := make(map[string][]model.ScanRecord)
	for _, rec := range ds.Records {
		history[rec.URL] = append(history[rec.URL], rec)
	}

	ds.URLs = make([]string, 0, len(history))
	for url := range history {
		ds.URLs = append(ds.URLs, url)
	}
	sort.Strings(ds.URLs)

	for _, url := range ds.URLs {
		recs := history[url]
		latest := recs[len(recs)-1]

		// Previous successful record, if any, for change indicators.
		var prev *model.ScanRecord
		for i := len(recs) - 2; i >= 0; i-- {
			if !recs[i].Failed() {
				prev = &recs[i]
				break
			}
		}

		snap := Snapshot{Record: latest}
		if !latest.Failed() {
			for _, label := range ds.Labels {
				d := Delta{Label: label}
				if prev != nil {
					cur, okCur := latest.Metric(label)
					old, okOld := prev.Metric(label)
					if okCur && okOld {
						d.Change = cur - old
						d.HasPrev = true
					}
				}
				snap.Deltas = append(snap.Deltas, d)
			}
		}
		ds.Latest = append(ds.Latest, snap)
	}
}

// buildOverall computes per-run metric averages across successful records.
func (ds *Dataset) buildOverall() {
	for i := len(ds.Runs) - 1; i >= 0; i-- {
		run := ds.Runs[i]
		avg := RunAverages{RunID: run.ID, Label: run.Label}

		sums := make([]float64, len(ds.Labels))
		ok := 0
		for _, rec := range ds.Records {
			if rec.RunID != run.ID {
				continue
			}
			avg.Scanned++
			if rec.Failed() {
				avg.Failed++
				continue
			}
			ok++
			for li, label := range ds.Labels {
				if v, found := rec.Metric(label); found {
					sums[li] += v
				}
			}
		}

		if ok > 0 {
			avg.Values = make([]float64, len(ds.Labels))
			for li := range sums {
				avg.Values[li] = sums[li] / float64(ok)
			}
		}
		ds.Overall = append(ds.Overall, avg)
	}
}

// normalizeURL strips trailing slashes so path variants collapse to one
// target across runs.
func normalizeURL(url string) string {
	return strings.TrimRight(url, "/")
}

// recordKey is the (run, url) de-duplication key.
func recordKey(runID int64, url string) string {
	return strconv.FormatInt(runID, 10) + "\x00" + url
}
