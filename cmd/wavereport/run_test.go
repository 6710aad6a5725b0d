package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/greg-randall/wave-report/internal/config"
)

// TestNewRunCmd tests the run command creation.
func TestNewRunCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRunCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "run" {
			t.Errorf("expected use 'run', got %q", cmd.Use)
		}
	})

	t.Run("has input flag defaulting to urls.txt", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("input")
		if flag == nil {
			t.Fatal("expected input flag")
		}
		if flag.Shorthand != "i" {
			t.Errorf("expected shorthand 'i', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultInputPath {
			t.Errorf("expected default %q, got %q", config.DefaultInputPath, flag.DefValue)
		}
	})

	t.Run("has sleep bound flags in seconds", func(t *testing.T) {
		t.Parallel()
		if flag := cmd.Flags().Lookup("min-sleep"); flag == nil || flag.DefValue != "5" {
			t.Errorf("expected min-sleep defaulting to 5, got %v", flag)
		}
		if flag := cmd.Flags().Lookup("max-sleep"); flag == nil || flag.DefValue != "35" {
			t.Errorf("expected max-sleep defaulting to 35, got %v", flag)
		}
	})

	t.Run("has browser and screenshots flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("browser") == nil {
			t.Error("expected browser flag")
		}
		if cmd.Flags().Lookup("screenshots") == nil {
			t.Error("expected screenshots flag")
		}
	})
}

// TestBuildRunConfig tests the defaults, config file, flags precedence
// chain.
func TestBuildRunConfig(t *testing.T) {
	t.Parallel()

	t.Run("explicit missing config file fails", func(t *testing.T) {
		t.Parallel()

		cmd := NewRunCmd()
		if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
			t.Fatal(err)
		}

		if _, err := buildRunConfig(cmd); err == nil {
			t.Error("expected an explicit missing config file to fail")
		}
	})

	t.Run("flags override the config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "minSleep: 10s\nmaxSleep: 20s\ninput: fromfile.txt\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewRunCmd()
		if err := cmd.Flags().Set("config", path); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("min-sleep", "2"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildRunConfig(cmd)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// Flag wins for min-sleep, file wins where no flag was set.
		if cfg.MinSleep != 2*time.Second {
			t.Errorf("expected MinSleep 2s from the flag, got %v", cfg.MinSleep)
		}
		if cfg.MaxSleep != 20*time.Second {
			t.Errorf("expected MaxSleep 20s from the file, got %v", cfg.MaxSleep)
		}
		if cfg.InputPath != "fromfile.txt" {
			t.Errorf("expected InputPath from the file, got %q", cfg.InputPath)
		}
	})

	t.Run("inverted sleep bounds fail validation", func(t *testing.T) {
		t.Parallel()

		cmd := NewRunCmd()
		if err := cmd.Flags().Set("min-sleep", "30"); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("max-sleep", "10"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildRunConfig(cmd)
		if err != nil {
			t.Fatalf("expected config building to succeed, got %v", err)
		}
		if err := cfg.Validate(); err == nil {
			t.Error("expected validation to reject min above max")
		}
	})
}
