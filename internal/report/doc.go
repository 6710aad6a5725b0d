// Package report aggregates the accumulated scan record history into
// per-URL trends and latest-run snapshots, and renders the result as a
// self-contained interactive HTML document or a Markdown summary.
package report
