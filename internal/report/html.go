package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"
)

// HTMLWriter renders the dataset as one self-contained interactive HTML
// document: inline CSS and JS, canvas-drawn trend charts, a sortable
// results table, and a run selector. Screenshots are referenced by their
// stored relative paths, so the document needs no server to view.
type HTMLWriter struct {
	baseWriter
	now func() time.Time
}

// HTMLOption configures an HTMLWriter.
type HTMLOption func(*HTMLWriter)

// WithClock injects the time source for the generated-at field. Apart
// from that field, output for an unchanged dataset is byte-identical
// across renders.
func WithClock(now func() time.Time) HTMLOption {
	return func(w *HTMLWriter) {
		w.now = now
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLOption) *HTMLWriter {
	w := &HTMLWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// htmlRow is one server-rendered table row for the default (latest) view.
type htmlRow struct {
	URL        string
	Screenshot string
	Failed     bool
	Error      string
	RunLabel   string
	Cells      []htmlCell
}

// htmlCell is one metric cell with its change-since-last-run indicator.
type htmlCell struct {
	Value string
	Delta string
	Class string
}

// htmlContext is the template's data.
type htmlContext struct {
	GeneratedAt string
	Labels      []string
	Runs        []Run
	Rows        []htmlRow
	RecordCount int
	FailedCount int

	// JSON blobs for the client-side run selector and charts.
	FullJSON    template.JS
	RunsJSON    template.JS
	OverallJSON template.JS
	LabelsJSON  template.JS
}

// Write renders the dataset as a complete HTML document.
// The document is built fully in memory before anything reaches the
// output, so a render failure leaves the destination untouched.
func (w *HTMLWriter) Write(ds *Dataset) (int, error) {
	ctx, err := w.buildContext(ds)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, ctx); err != nil {
		return 0, fmt.Errorf("failed to render report: %w", err)
	}
	return w.output.Write(buf.Bytes())
}

// buildContext converts the dataset into template data.
func (w *HTMLWriter) buildContext(ds *Dataset) (*htmlContext, error) {
	ctx := &htmlContext{
		GeneratedAt: w.now().UTC().Format("2006-01-02 15:04:05 MST"),
		Labels:      ds.Labels,
		Runs:        ds.Runs,
		RecordCount: len(ds.Records),
	}

	for _, rec := range ds.Records {
		if rec.Failed() {
			ctx.FailedCount++
		}
	}

	for _, snap := range ds.Latest {
		row := htmlRow{
			URL:        snap.Record.URL,
			Screenshot: snap.Record.ScreenshotPath,
			Failed:     snap.Record.Failed(),
			Error:      snap.Record.Error,
			RunLabel:   FormatRunLabelShort(snap.Record.RunID),
		}
		for i, label := range ds.Labels {
			cell := htmlCell{Value: "–", Class: "none"}
			if v, ok := snap.Record.Metric(label); ok && !row.Failed {
				cell.Value = formatValue(v)
				if i < len(snap.Deltas) && snap.Deltas[i].HasPrev {
					cell.Delta, cell.Class = formatDelta(snap.Deltas[i].Change)
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		ctx.Rows = append(ctx.Rows, row)
	}

	var err error
	if ctx.FullJSON, err = marshalJS(ds.Records); err != nil {
		return nil, err
	}
	if ctx.RunsJSON, err = marshalJS(ds.Runs); err != nil {
		return nil, err
	}
	if ctx.OverallJSON, err = marshalJS(ds.Overall); err != nil {
		return nil, err
	}
	if ctx.LabelsJSON, err = marshalJS(ds.Labels); err != nil {
		return nil, err
	}

	return ctx, nil
}

// marshalJS encodes v for embedding in an inline script.
// json.Marshal escapes "<" and ">", so the blob cannot break out of the
// script element.
func marshalJS(v any) (template.JS, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode report data: %w", err)
	}
	return template.JS(data), nil //nolint:gosec // Marshal output is script-safe
}

// formatValue renders a metric without a trailing decimal part for whole
// numbers.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatDelta renders a signed change indicator and its CSS class.
func formatDelta(change float64) (string, string) {
	switch {
	case change > 0:
		return "+" + formatValue(change), "up"
	case change < 0:
		return formatValue(change), "down"
	default:
		return "±0", "flat"
	}
}

// FormatRunLabelShort renders a run id compactly for table cells.
func FormatRunLabelShort(runID int64) string {
	return time.Unix(runID, 0).UTC().Format("2006-01-02")
}

// reportTemplate is the self-contained report document.
var reportTemplate = template.Must(template.New("report").Parse(reportTemplateText))

const reportTemplateText = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>WAVE Accessibility Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2em auto; max-width: 1200px; padding: 0 1em; color: #222; }
h1 { font-size: 1.6em; } h2 { font-size: 1.2em; margin-top: 2em; }
.meta { color: #666; font-size: 0.9em; }
table { border-collapse: collapse; width: 100%; margin-top: 1em; }
th, td { border: 1px solid #ddd; padding: 0.45em 0.6em; text-align: left; font-size: 0.9em; }
th { background: #f5f5f5; cursor: pointer; user-select: none; white-space: nowrap; }
tr.failed td { background: #fff3f3; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
.delta { font-size: 0.8em; margin-left: 0.4em; }
.delta.up { color: #b00020; } .delta.down { color: #1a7f37; } .delta.flat { color: #999; }
.charts { display: flex; flex-wrap: wrap; gap: 1.5em; margin-top: 1em; }
.chart { width: 260px; } .chart h3 { font-size: 0.85em; margin: 0 0 0.3em; color: #444; }
canvas { border: 1px solid #eee; background: #fff; }
select { padding: 0.3em; font-size: 0.9em; }
#detail { margin-top: 2em; } #detail img { max-width: 100%; border: 1px solid #ddd; margin-top: 0.5em; }
a.shot { font-size: 0.8em; }
.err { color: #b00020; font-size: 0.85em; }
</style>
</head>
<body>
<h1>WAVE Accessibility Report</h1>
<p class="meta">Generated {{.GeneratedAt}} &middot; {{len .Runs}} run(s) &middot; {{len .Rows}} target(s) &middot; {{.RecordCount}} record(s){{if .FailedCount}} &middot; {{.FailedCount}} failed{{end}}</p>

<h2>Overall trend</h2>
<p class="meta">Average across all successfully scanned targets, per run.</p>
<div class="charts" id="charts"></div>

<h2>Results</h2>
<label>Run:
<select id="run-select">
<option value="">Latest per target</option>
{{range .Runs}}<option value="{{.ID}}">{{.Label}}</option>
{{end}}</select>
</label>
<table id="results">
<thead><tr><th data-col="-1">URL</th>{{range $i, $label := .Labels}}<th data-col="{{$i}}">{{$label}}</th>{{end}}<th>Run</th><th>Screenshot</th></tr></thead>
<tbody>
{{range .Rows}}<tr{{if .Failed}} class="failed"{{end}} data-url="{{.URL}}">
<td>{{.URL}}{{if .Failed}}<div class="err">{{.Error}}</div>{{end}}</td>
{{range .Cells}}<td class="num">{{.Value}}{{if .Delta}}<span class="delta {{.Class}}">{{.Delta}}</span>{{end}}</td>
{{end}}<td>{{.RunLabel}}</td>
<td>{{if .Screenshot}}<a class="shot" href="{{.Screenshot}}">view</a>{{end}}</td>
</tr>
{{end}}</tbody>
</table>

<div id="detail"></div>

<script>
var fullData = {{.FullJSON}};
var runs = {{.RunsJSON}};
var overall = {{.OverallJSON}};
var labels = {{.LabelsJSON}};

function esc(s) {
  var d = document.createElement("div");
  d.textContent = s == null ? "" : String(s);
  return d.innerHTML;
}

function metricOf(rec, label) {
  if (!rec.results) { return null; }
  for (var i = 0; i < rec.results.length; i++) {
    if (rec.results[i].label === label) { return rec.results[i].value; }
  }
  return null;
}

function fmt(v) {
  if (v == null) { return "–"; }
  return Number.isInteger(v) ? String(v) : v.toFixed(1);
}

// Latest record per URL, or the record from one specific run.
function snapshotFor(runId) {
  var byUrl = {};
  fullData.forEach(function (rec) {
    if (runId && rec.run_id !== runId) { return; }
    var cur = byUrl[rec.url];
    if (!cur || rec.run_id > cur.run_id) { byUrl[rec.url] = rec; }
  });
  return Object.keys(byUrl).sort().map(function (u) { return byUrl[u]; });
}

function renderRows(runId) {
  var body = document.querySelector("#results tbody");
  body.innerHTML = snapshotFor(runId).map(function (rec) {
    var failed = rec.status === "failed";
    var cells = labels.map(function (label) {
      return '<td class="num">' + (failed ? "–" : esc(fmt(metricOf(rec, label)))) + "</td>";
    }).join("");
    var runDay = new Date(rec.run_id * 1000).toISOString().slice(0, 10);
    var shot = rec.screenshot_file
      ? '<a class="shot" href="' + esc(rec.screenshot_file) + '">view</a>' : "";
    var err = failed ? '<div class="err">' + esc(rec.error || "failed") + "</div>" : "";
    return "<tr" + (failed ? ' class="failed"' : "") + ' data-url="' + esc(rec.url) + '">'
      + "<td>" + esc(rec.url) + err + "</td>" + cells
      + "<td>" + runDay + "</td><td>" + shot + "</td></tr>";
  }).join("");
  bindRowClicks();
}

function sortTable(col) {
  var body = document.querySelector("#results tbody");
  var rows = Array.prototype.slice.call(body.rows);
  rows.sort(function (a, b) {
    if (col < 0) { return a.cells[0].textContent.localeCompare(b.cells[0].textContent); }
    var av = parseFloat(a.cells[col + 1].textContent) || 0;
    var bv = parseFloat(b.cells[col + 1].textContent) || 0;
    return bv - av;
  });
  rows.forEach(function (r) { body.appendChild(r); });
}

function drawSeries(canvas, points, color) {
  var ctx = canvas.getContext("2d");
  var w = canvas.width, h = canvas.height, pad = 6;
  ctx.clearRect(0, 0, w, h);
  var vals = points.filter(function (p) { return p != null; });
  if (!vals.length) { return; }
  var max = Math.max.apply(null, vals), min = Math.min.apply(null, vals);
  if (max === min) { max = min + 1; }
  ctx.strokeStyle = color;
  ctx.lineWidth = 2;
  ctx.beginPath();
  points.forEach(function (v, i) {
    if (v == null) { return; }
    var x = points.length === 1 ? w / 2 : pad + (w - 2 * pad) * i / (points.length - 1);
    var y = h - pad - (h - 2 * pad) * (v - min) / (max - min);
    if (i === 0) { ctx.moveTo(x, y); } else { ctx.lineTo(x, y); }
    ctx.fillStyle = color;
    ctx.fillRect(x - 2, y - 2, 4, 4);
  });
  ctx.stroke();
}

function drawCharts() {
  var holder = document.getElementById("charts");
  labels.forEach(function (label, li) {
    var div = document.createElement("div");
    div.className = "chart";
    div.innerHTML = "<h3>" + esc(label) + "</h3><canvas width='260' height='90'></canvas>";
    holder.appendChild(div);
    var points = overall.map(function (run) {
      return run.values && run.values.length ? run.values[li] : null;
    });
    drawSeries(div.querySelector("canvas"), points, "#3366cc");
  });
}

function showDetail(url) {
  var recs = fullData.filter(function (r) { return r.url === url; })
    .sort(function (a, b) { return a.run_id - b.run_id; });
  if (!recs.length) { return; }
  var latest = recs[recs.length - 1];
  var html = "<h2>" + esc(url) + "</h2><div class='charts'>";
  labels.forEach(function (label) {
    html += "<div class='chart'><h3>" + esc(label)
      + "</h3><canvas width='260' height='90' data-label='" + esc(label) + "'></canvas></div>";
  });
  html += "</div>";
  if (latest.screenshot_file) {
    html += "<p class='meta'>Latest screenshot (" + esc(latest.timestamp_h) + ")</p>"
      + "<img src='" + esc(latest.screenshot_file) + "' alt='WAVE report screenshot'>";
  }
  var detail = document.getElementById("detail");
  detail.innerHTML = html;
  detail.querySelectorAll("canvas").forEach(function (canvas) {
    var label = canvas.getAttribute("data-label");
    var points = recs.map(function (r) {
      return r.status === "failed" ? null : metricOf(r, label);
    });
    drawSeries(canvas, points, "#cc6633");
  });
}

function bindRowClicks() {
  document.querySelectorAll("#results tbody tr").forEach(function (row) {
    row.addEventListener("click", function (ev) {
      if (ev.target.tagName === "A") { return; }
      showDetail(row.getAttribute("data-url"));
    });
  });
}

document.getElementById("run-select").addEventListener("change", function () {
  renderRows(this.value ? parseInt(this.value, 10) : null);
});
document.querySelectorAll("#results th[data-col]").forEach(function (th) {
  th.addEventListener("click", function () {
    sortTable(parseInt(th.getAttribute("data-col"), 10));
  });
});

drawCharts();
bindRowClicks();
</script>
</body>
</html>
`
