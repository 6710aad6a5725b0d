// Package main provides the entry point for the wavereport CLI.
//
// wavereport scans a list of URLs through the WAVE web accessibility
// evaluation tool, records per-run metrics and screenshots, and renders
// an aggregated interactive report showing trends across runs.
//
// Usage:
//
//	wavereport run
//	wavereport report
//
// See --help for all available options.
package main

// main is the entry point for wavereport.
func main() {
	Execute()
}
