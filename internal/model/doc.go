// Package model defines the data structures shared by the scanner and
// the reporter, most importantly ScanRecord, the append-only row produced
// for one URL in one scanner run.
package model
