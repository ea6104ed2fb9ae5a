package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/challenges/internal/config"
	"github.com/nao1215/challenges/internal/database"
	"github.com/nao1215/challenges/internal/log"
	"github.com/nao1215/challenges/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the lost password challenge server",
		Long: `Serve runs the challenge over HTTP.

  GET    /                          how to play
  POST   /u/{user}                  join
  GET    /u/{user}/passwords.txt    your 50,000 passwords
  GET    /u/{user}/check/{password} "True" or "False"
  GET    /status                    leaderboard as JSON
  DELETE /u/{user}                  remove a player (admin token if configured)

Players are stored in challenges.db under --db-dir. Set
CHALLENGES_SERVER__ADMIN_TOKEN_HASH to a bcrypt hash to protect deletion.

Examples:
  # Listen on 127.0.0.1:3000
  challenges serve

  # Listen on every interface with JSON logs
  challenges serve --host 0.0.0.0 -p 8080 --json-logs`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("host", config.DefaultHost,
		"Address to bind")
	cmd.Flags().IntP("port", "p", config.DefaultPort,
		"Port to listen on")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().Bool("json-logs", false,
		"Write logs as JSON lines")
	cmd.Flags().Duration("shutdown-timeout", config.DefaultShutdownTimeout,
		"Time allowed for in-flight requests on shutdown")

	return cmd
}

// buildServeConfig layers serve flags over the loaded configuration.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := overrideString(cmd, "host", &cfg.Host); err != nil {
		return nil, err
	}
	if err := overrideInt(cmd, "port", &cfg.Port); err != nil {
		return nil, err
	}
	if err := overrideString(cmd, "db-dir", &cfg.DBDir); err != nil {
		return nil, err
	}
	if err := overrideBool(cmd, "json-logs", &cfg.JSONLogs); err != nil {
		return nil, err
	}
	if err := overrideDuration(cmd, "shutdown-timeout", &cfg.ShutdownTimeout); err != nil {
		return nil, err
	}

	if err := cfg.ValidateServe(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := log.NewSecureLoggerAt(cmd.ErrOrStderr(), level, cfg.JSONLogs)
	slog.SetDefault(logger)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "path", db.Path())

	if cfg.AdminTokenHash == "" {
		logger.Warn("no admin token hash configured, anyone can delete users")
	}

	srv := server.New(db,
		server.WithLogger(logger),
		server.WithAdminTokenHash(cfg.AdminTokenHash),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
	)

	ctx, stop := signalContext()
	defer stop()

	return srv.Run(ctx, cfg.Addr())
}
