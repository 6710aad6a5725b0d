package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrNoURLs is returned when the input file contains no usable URLs.
var ErrNoURLs = errors.New("no URLs found in input file")

// ReadURLList reads the target list: plain text, one URL per line.
// Blank lines and surrounding whitespace are ignored. Duplicates are kept;
// they are independent scan attempts.
func ReadURLList(path string) ([]string, error) {
	file, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // Read-only file

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoURLs, path)
	}
	return urls, nil
}

var (
	protocolPattern = regexp.MustCompile(`^https?://`)
	unsafePattern   = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)
)

// SanitizeURL turns a URL into a filesystem-safe fragment for screenshot
// names: the protocol is dropped and runs of invalid characters collapse
// to a single underscore.
func SanitizeURL(url string) string {
	s := protocolPattern.ReplaceAllString(url, "")
	return unsafePattern.ReplaceAllString(s, "_")
}
