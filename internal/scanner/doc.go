// Package scanner turns a list of URLs into scan records and screenshot
// artifacts. Each URL runs through a fixed step pipeline (navigate, wait
// for the external analysis, settle, screenshot, extract) against a
// browser page; every URL yields exactly one appended record per run,
// whether the scan succeeded or failed.
package scanner
