// Package progress renders scan progress, either as nested terminal
// progress bars or as structured log lines in verbose mode.
package progress
