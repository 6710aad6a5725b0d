// Package log builds the application logger: structured text output at
// warn level by default, debug level in verbose mode.
package log
