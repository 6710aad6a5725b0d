// Package config provides configuration structures and utilities for
// wavereport. It defines defaults for the scanner's timing and browser
// behavior, the file locations shared by the scanner and reporter, and
// the metric extraction mapping applied to the rendered WAVE report page.
package config
