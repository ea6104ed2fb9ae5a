package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/challenges/internal/config"
	"github.com/nao1215/challenges/internal/log"
)

// NewRootCmd creates the root command for challenges.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenges",
		Short: "Host and solve the lost password challenge",
		Long: `challenges hosts and solves the "lost password" brute-force challenge.

The server gives every player a list of 50,000 passwords that hides exactly
one secret. Players find it by checking candidates one request at a time.
The guess command automates that search, and generate builds randomized
sample files from a text corpus.

Settings are read from .challenges (current directory, then home directory),
then from CHALLENGES_* environment variables, then from flags.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("config", "",
		"Configuration file path (default: .challenges in current or home directory)")

	cmd.AddCommand(NewGuessCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewLeaderboardCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadConfig builds a Config from the config file and the environment.
// Flags are applied on top by each command.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path = ""
	}

	cfg, err := config.Load(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// setupLogger creates the redacting logger used by every command and makes
// it the default. Commands log at Warn, or Debug with --verbose.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	logger := log.NewSecureLogger(w, verbose)
	slog.SetDefault(logger)
	return logger
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Changed-flag helpers copy a flag onto dst only when the user set it, so
// values from the config file survive.

func overrideString(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func overrideInt(cmd *cobra.Command, name string, dst *int) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func overrideUint64(cmd *cobra.Command, name string, dst *uint64) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetUint64(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func overrideBool(cmd *cobra.Command, name string, dst *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func overrideDuration(cmd *cobra.Command, name string, dst *time.Duration) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetDuration(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
