// Package store persists the scan record stream. Three encodings carry
// the same rows: an append-only CSV file (the reporter's input), an
// append-only JSONL mirror, and an indexed SQLite history database used
// by the history command. The scanner writes all three through one
// MultiStore so they cannot drift apart within a run.
package store
