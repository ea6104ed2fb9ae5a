package main

import (
	"errors"
	"testing"
	"time"

	"github.com/nao1215/challenges/internal/config"
)

func TestBuildServeConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "flags override defaults",
			args: []string{"--host", "0.0.0.0", "-p", "8080", "--json-logs", "--shutdown-timeout", "3s"},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				if cfg.Addr() != "0.0.0.0:8080" {
					t.Errorf("Addr() = %q", cfg.Addr())
				}
				if !cfg.JSONLogs {
					t.Error("expected JSONLogs")
				}
				if cfg.ShutdownTimeout != 3*time.Second {
					t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
				}
			},
		},
		{
			name:    "port out of range",
			args:    []string{"-p", "70000"},
			wantErr: config.ErrInvalidPort,
		},
		{
			name:    "zero shutdown timeout",
			args:    []string{"--shutdown-timeout", "0s"},
			wantErr: config.ErrInvalidTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewServeCmd()
			cmd.Flags().String("config", "", "")
			args := append([]string{"--config", emptyConfig(t), "--db-dir", t.TempDir()}, tt.args...)
			if err := cmd.ParseFlags(args); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}

			cfg, err := buildServeConfig(cmd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
