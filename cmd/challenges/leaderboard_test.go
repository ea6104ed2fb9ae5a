package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/challenges/internal/challenge"
	"github.com/nao1215/challenges/internal/config"
	"github.com/nao1215/challenges/internal/database"
	"github.com/nao1215/challenges/internal/model"
)

// seedDB creates a database with one solved and one searching player.
func seedDB(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	joined := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, name := range []string{"winner", "searcher"} {
		if err := db.CreateUser(ctx, challenge.NewUser(name, joined)); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	winner, err := db.GetUser(ctx, "winner")
	if err != nil {
		t.Fatalf("failed to get user: %v", err)
	}
	if _, err := db.RecordCheck(ctx, "winner", "nope", joined.Add(time.Minute)); err != nil {
		t.Fatalf("failed to record check: %v", err)
	}
	if _, err := db.RecordCheck(ctx, "winner", winner.Secret, joined.Add(90*time.Minute)); err != nil {
		t.Fatalf("failed to record check: %v", err)
	}
	return dir
}

func TestLeaderboardCmd(t *testing.T) {
	t.Parallel()

	dbDir := seedDB(t)

	// Subtests share one database file, so they run in sequence.
	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "leaderboard", "--config", emptyConfig(t), "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "LOST PASSWORD LEADERBOARD") || !strings.Contains(out, "winner") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "leaderboard", "--config", emptyConfig(t), "--db-dir", dbDir, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var lb model.Leaderboard
		if err := json.Unmarshal([]byte(out), &lb); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if lb.Stats.Users != 2 || lb.Stats.Solved != 1 || lb.Stats.TotalHits != 2 {
			t.Errorf("unexpected stats %+v", lb.Stats)
		}
		if len(lb.Completions) != 1 || lb.Completions[0].Attempts != 2 {
			t.Errorf("unexpected completions %+v", lb.Completions)
		}
		if !strings.Contains(out, `"time_to_solve": "1h30m0s"`) {
			t.Errorf("expected time_to_solve in output:\n%s", out)
		}
	})

	t.Run("markdown to file", func(t *testing.T) {
		outFile := filepath.Join(t.TempDir(), "results", "LEADERBOARD.md")
		if _, err := execute(t, "leaderboard", "--config", emptyConfig(t),
			"--db-dir", dbDir, "--markdown", "-o", outFile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outFile) //nolint:gosec // Test file
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		if !strings.Contains(string(content), "# Lost Password Leaderboard") {
			t.Errorf("unexpected markdown:\n%s", content)
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		_, err := execute(t, "leaderboard", "--config", emptyConfig(t), "--db-dir", dbDir, "--json", "--markdown")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}

func TestLeaderboardCmd_NoDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := execute(t, "leaderboard", "--config", emptyConfig(t), "--db-dir", dir)
	if err == nil {
		t.Fatal("expected error when the database does not exist")
	}
	if _, statErr := os.Stat(filepath.Join(dir, database.FileName)); !os.IsNotExist(statErr) {
		t.Error("leaderboard must not create a database")
	}
}
