package config

import "errors"

// Configuration validation errors returned by Config.Validate().
// Package-level sentinel errors let callers use errors.Is() while still
// carrying a human-readable message.
var (
	// ErrNegativeSleep is returned when either sleep bound is negative.
	ErrNegativeSleep = errors.New("sleep times cannot be negative")

	// ErrSleepOrder is returned when min-sleep exceeds max-sleep.
	ErrSleepOrder = errors.New("--min-sleep cannot be greater than --max-sleep")

	// ErrInvalidTimeout is returned when the ready timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid ready timeout: must be positive")

	// ErrNoEndpoint is returned when the report endpoint is empty.
	ErrNoEndpoint = errors.New("report endpoint must not be empty")

	// ErrMissingPath is returned when an input or output path is empty.
	ErrMissingPath = errors.New("input, csv, and jsonl paths must not be empty")

	// ErrNoMetrics is returned when the extraction mapping is empty.
	// A scan with no metrics to extract is meaningless.
	ErrNoMetrics = errors.New("metric extraction mapping must not be empty")

	// ErrInvalidMetric is returned when a mapping entry lacks a label or selector.
	ErrInvalidMetric = errors.New("metric mapping entries need both a label and a selector")

	// ErrDuplicateMetric is returned when two mapping entries share a label.
	// Labels are CSV column names and must be unique.
	ErrDuplicateMetric = errors.New("metric labels must be unique")
)
