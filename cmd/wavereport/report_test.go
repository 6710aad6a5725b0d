package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDataset = `url,run_id,timestamp,timestamp_h,screenshot_file,status,error,Errors,AIM Score
https://example.com,100,100,01/01/1970 12:01 AM,,ok,,5,7
https://example.com,200,200,01/01/1970 12:03 AM,,ok,,3,8.5
`

// TestRunReportCmd tests the report command end to end against a small
// dataset on disk.
func TestRunReportCmd(t *testing.T) {
	t.Parallel()

	t.Run("renders an HTML report from the CSV", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := filepath.Join(dir, "results.csv")
		output := filepath.Join(dir, "report.html")
		if err := os.WriteFile(input, []byte(testDataset), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewReportCmd()
		cmd.SetArgs([]string{"-i", input, "-o", output})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(output) //nolint:gosec // Test-owned path
		if err != nil {
			t.Fatal(err)
		}
		content := string(data)
		if !strings.Contains(content, "<!DOCTYPE html>") {
			t.Error("expected an HTML document")
		}
		if !strings.Contains(content, "https://example.com") {
			t.Error("expected the scanned URL in the report")
		}
	})

	t.Run("renders a markdown summary with --markdown", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := filepath.Join(dir, "results.csv")
		output := filepath.Join(dir, "report.md")
		if err := os.WriteFile(input, []byte(testDataset), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewReportCmd()
		cmd.SetArgs([]string{"-i", input, "-o", output, "--markdown"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(output) //nolint:gosec // Test-owned path
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "# WAVE Accessibility Report") {
			t.Error("expected a markdown report")
		}
	})

	t.Run("missing dataset fails without writing output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		output := filepath.Join(dir, "report.html")

		cmd := NewReportCmd()
		cmd.SetArgs([]string{"-i", filepath.Join(dir, "missing.csv"), "-o", output})
		if err := cmd.Execute(); err == nil {
			t.Error("expected an error for a missing dataset")
		}
		if _, err := os.Stat(output); !os.IsNotExist(err) {
			t.Error("expected no output file to be written")
		}
	})

	t.Run("dataset with only a header fails without writing output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := filepath.Join(dir, "results.csv")
		output := filepath.Join(dir, "report.html")
		header := strings.SplitAfter(testDataset, "\n")[0]
		if err := os.WriteFile(input, []byte(header), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewReportCmd()
		cmd.SetArgs([]string{"-i", input, "-o", output})
		if err := cmd.Execute(); err == nil {
			t.Error("expected an error for an empty dataset")
		}
		if _, err := os.Stat(output); !os.IsNotExist(err) {
			t.Error("expected no output file to be written")
		}
	})
}
