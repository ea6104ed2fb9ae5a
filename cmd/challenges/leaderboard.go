package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/challenges/internal/config"
	"github.com/nao1215/challenges/internal/database"
	"github.com/nao1215/challenges/internal/report"
)

// NewLeaderboardCmd creates the leaderboard command.
func NewLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show who found their password, in solve order",
		Long: `Leaderboard reads the server database and prints every player who
solved the challenge with their place, attempts and time to solve.

Examples:
  # Text table on the terminal
  challenges leaderboard

  # Markdown for a README or an issue
  challenges leaderboard --markdown -o results/LEADERBOARD.md

  # JSON for scripts
  challenges leaderboard --json`,
		Args: cobra.NoArgs,
		RunE: runLeaderboardCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write to the given file instead of stdout (creates directories if needed)")
	cmd.Flags().IntP("limit", "n", 0,
		"Show only the first n places in text output")

	return cmd
}

// buildLeaderboardConfig layers leaderboard flags over the loaded configuration.
func buildLeaderboardConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := overrideString(cmd, "db-dir", &cfg.DBDir); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	if err := cfg.ValidateReport(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildLeaderboardConfig(cmd)
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database (has the server run yet?): %w", err)
	}
	defer db.Close()

	lb, err := db.Leaderboard(context.Background())
	if err != nil {
		return err
	}

	var output io.Writer = cmd.OutOrStdout()
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewWriter(report.FormatJSON, output)
	case cfg.MarkdownReport:
		w = report.NewWriter(report.FormatMarkdown, output)
	default:
		w = report.NewSimpleWriter(output, report.WithLimit(limit))
	}

	_, err = w.Write(lb)
	return err
}
