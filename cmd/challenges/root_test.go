package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "challenges" {
			t.Errorf("expected use 'challenges', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()
		verbose := cmd.PersistentFlags().Lookup("verbose")
		if verbose == nil {
			t.Fatal("expected verbose flag")
		}
		if verbose.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", verbose.Shorthand)
		}
		if cmd.PersistentFlags().Lookup("config") == nil {
			t.Error("expected config flag")
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{
			"guess": false, "generate": false, "serve": false,
			"leaderboard": false, "init": false, "version": false,
		}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected SilenceUsage and SilenceErrors to be true")
		}
	})
}

// emptyConfig writes an empty .challenges so tests never read the
// developer's own configuration.
func emptyConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".challenges")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "guess", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
