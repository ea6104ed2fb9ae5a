package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/challenges/internal/guess"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"PasswordList", cfg.PasswordList, "passwords.txt"},
		{"URLTemplate", cfg.URLTemplate, "http://127.0.0.1:3000/u/{username}/check/{password}"},
		{"Sentinel", cfg.Sentinel, "True"},
		{"Concurrency", cfg.Concurrency, 1},
		{"Timeout", cfg.Timeout, 30 * time.Second},
		{"SourcePattern", cfg.SourcePattern, "corpus.txt"},
		{"SampleCount", cfg.SampleCount, 10000},
		{"LinesPerFile", cfg.LinesPerFile, 10},
		{"Prefix", cfg.Prefix, "sample"},
		{"OutDir", cfg.OutDir, "."},
		{"Host", cfg.Host, "127.0.0.1"},
		{"Port", cfg.Port, 3000},
		{"DBDir", cfg.DBDir, XDGDataDir()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.want {
				t.Errorf("default %s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestValidateGuess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"valid config returns nil", func(c *Config) {}, nil},
		{"template without username needs no user", func(c *Config) {
			c.URLTemplate = "https://example.com/check?pw={password}"
			c.Username = ""
		}, nil},
		{"empty list", func(c *Config) { c.PasswordList = "" }, ErrNoPasswordList},
		{"empty template", func(c *Config) { c.URLTemplate = "" }, ErrNoURLTemplate},
		{"username in host", func(c *Config) {
			c.URLTemplate = "http://{username}.example.com/check/{password}"
		}, nil},
		{"username in host without user", func(c *Config) {
			c.URLTemplate = "http://{username}.example.com/check/{password}"
			c.Username = ""
		}, ErrNoUsername},
		{"missing password placeholder", func(c *Config) { c.URLTemplate = "http://h/u/{username}" }, guess.ErrMissingPasswordPlaceholder},
		{"ftp scheme", func(c *Config) { c.URLTemplate = "ftp://h/{password}" }, guess.ErrInvalidTemplate},
		{"relative url", func(c *Config) { c.URLTemplate = "/check/{password}" }, guess.ErrInvalidTemplate},
		{"password in fragment", func(c *Config) { c.URLTemplate = "http://h/check#{password}" }, guess.ErrInvalidTemplate},
		{"username placeholder without user", func(c *Config) { c.Username = "" }, ErrNoUsername},
		{"empty sentinel", func(c *Config) { c.Sentinel = "" }, ErrEmptySentinel},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, ErrInvalidConcurrency},
		{"too much concurrency", func(c *Config) { c.Concurrency = MaxConcurrency + 1 }, ErrInvalidConcurrency},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative delay", func(c *Config) { c.Delay = -time.Second }, ErrInvalidDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.Username = "alice"
			tt.modify(cfg)

			err := cfg.ValidateGuess()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"defaults are valid", func(c *Config) {}, nil},
		{"empty source", func(c *Config) { c.SourcePattern = "" }, ErrNoSource},
		{"zero count", func(c *Config) { c.SampleCount = 0 }, ErrInvalidSampleCount},
		{"zero lines", func(c *Config) { c.LinesPerFile = 0 }, ErrInvalidLinesPerFile},
		{"empty prefix", func(c *Config) { c.Prefix = "" }, ErrInvalidPrefix},
		{"prefix with separator", func(c *Config) { c.Prefix = "a/b" }, ErrInvalidPrefix},
		{"prefix with glob", func(c *Config) { c.Prefix = "s*" }, ErrInvalidPrefix},
		{"empty out dir", func(c *Config) { c.OutDir = "" }, ErrNoOutDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.ValidateGenerate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("expected nil error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateServe(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"defaults are valid", func(c *Config) {}, nil},
		{"bcrypt admin hash", func(c *Config) { c.AdminTokenHash = string(hash) }, nil},
		{"port zero picks a free port", func(c *Config) { c.Port = 0 }, nil},
		{"port too large", func(c *Config) { c.Port = 70000 }, ErrInvalidPort},
		{"empty db dir", func(c *Config) { c.DBDir = "" }, ErrNoDBDir},
		{"plain text admin token", func(c *Config) { c.AdminTokenHash = "admin" }, ErrInvalidAdminTokenHash},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.ValidateServe()
			if tt.wantErr == nil && err != nil {
				t.Errorf("expected nil error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateReport(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if err := cfg.ValidateReport(); err != nil {
		t.Errorf("defaults: unexpected error %v", err)
	}

	cfg.JSONReport = true
	cfg.MarkdownReport = true
	if err := cfg.ValidateReport(); !errors.Is(err, ErrConflictingReportFormats) {
		t.Errorf("expected ErrConflictingReportFormats, got %v", err)
	}
}

func TestAddr(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.Host = "0.0.0.0"
	cfg.Port = 8080
	if got := cfg.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("applies every section", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
guess:
  list: words.txt
  url: https://ctf.example/u/{username}/check/{password}
  user: alice
  sentinel: "OK"
  concurrency: 4
  timeout: 5s
  delay: 250ms
  proxy: 127.0.0.1:9050
generate:
  source: "books/**/*.txt"
  count: 20
  lines: 3
  prefix: part
  out: out
  seed: 42
  compress: true
server:
  host: 0.0.0.0
  port: 8080
  json_logs: true
  shutdown_timeout: 1m
database:
  dir: /var/lib/challenges
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		file, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		cfg := NewConfig()
		if err := file.Apply(cfg); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}

		if cfg.PasswordList != "words.txt" || cfg.Username != "alice" || cfg.Sentinel != "OK" {
			t.Errorf("guess section not applied: %+v", cfg)
		}
		if cfg.Concurrency != 4 || cfg.Timeout != 5*time.Second || cfg.Delay != 250*time.Millisecond {
			t.Errorf("guess numbers not applied: %d %v %v", cfg.Concurrency, cfg.Timeout, cfg.Delay)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("ProxyAddress = %q", cfg.ProxyAddress)
		}
		if cfg.SourcePattern != "books/**/*.txt" || cfg.SampleCount != 20 || cfg.LinesPerFile != 3 {
			t.Errorf("generate section not applied: %+v", cfg)
		}
		if cfg.Prefix != "part" || cfg.OutDir != "out" || cfg.Seed != 42 || !cfg.Compress {
			t.Errorf("generate options not applied: %+v", cfg)
		}
		if cfg.Host != "0.0.0.0" || cfg.Port != 8080 || !cfg.JSONLogs || cfg.ShutdownTimeout != time.Minute {
			t.Errorf("server section not applied: %+v", cfg)
		}
		if cfg.DBDir != "/var/lib/challenges" {
			t.Errorf("DBDir = %q", cfg.DBDir)
		}
	})

	t.Run("empty sections keep defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("server:\n  port: 4000\n"), 0600); err != nil {
			t.Fatal(err)
		}

		file, err := LoadConfigFile(path)
		if err != nil {
			t.Fatal(err)
		}
		cfg := NewConfig()
		if err := file.Apply(cfg); err != nil {
			t.Fatal(err)
		}
		if cfg.Port != 4000 {
			t.Errorf("Port = %d, want 4000", cfg.Port)
		}
		if cfg.Host != DefaultHost || cfg.SampleCount != DefaultSampleCount {
			t.Error("defaults were overwritten")
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("guess: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Parallel()

		file := &File{Guess: GuessSection{Timeout: "soon"}}
		err := file.Apply(NewConfig())
		if err == nil || !strings.Contains(err.Error(), "guess.timeout") {
			t.Errorf("expected guess.timeout error, got %v", err)
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path that exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("explicit path that does not exist", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing")); got != "" {
			t.Errorf("FindConfigFile() = %q, want empty", got)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("file then env", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cfg.yaml")
		if err := os.WriteFile(path, []byte("server:\n  host: 10.0.0.1\n  port: 4000\n"), 0600); err != nil {
			t.Fatal(err)
		}

		env := map[string]string{EnvServerPort: "5000"}
		cfg, err := Load(path, mapLookup(env))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Host != "10.0.0.1" {
			t.Errorf("Host = %q, want file value", cfg.Host)
		}
		if cfg.Port != 5000 {
			t.Errorf("Port = %d, want env value 5000", cfg.Port)
		}
		if cfg.ConfigFilePath != path {
			t.Errorf("ConfigFilePath = %q", cfg.ConfigFilePath)
		}
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "missing"), mapLookup(nil))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	t.Run("overrides server and database", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		err := ApplyEnv(cfg, mapLookup(map[string]string{
			EnvServerHost:     "0.0.0.0",
			EnvServerPort:     "8443",
			EnvAdminTokenHash: "$2a$10$hash",
			EnvDatabaseDir:    "/data",
		}))
		if err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if cfg.Host != "0.0.0.0" || cfg.Port != 8443 || cfg.AdminTokenHash != "$2a$10$hash" || cfg.DBDir != "/data" {
			t.Errorf("env not applied: %+v", cfg)
		}
	})

	t.Run("empty values are ignored", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := ApplyEnv(cfg, mapLookup(map[string]string{EnvServerHost: ""})); err != nil {
			t.Fatal(err)
		}
		if cfg.Host != DefaultHost {
			t.Errorf("Host = %q, want default", cfg.Host)
		}
	})

	t.Run("bad port", func(t *testing.T) {
		t.Parallel()

		err := ApplyEnv(NewConfig(), mapLookup(map[string]string{EnvServerPort: "http"}))
		if !errors.Is(err, ErrInvalidPort) {
			t.Errorf("expected ErrInvalidPort, got %v", err)
		}
	})
}

func TestXDGDataDir(t *testing.T) {
	t.Parallel()

	if !strings.HasSuffix(XDGDataDir(), AppName) {
		t.Errorf("XDGDataDir() = %q", XDGDataDir())
	}
}

func mapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}
