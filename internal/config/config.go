package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/challenges/internal/guess"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "challenges"

	// DefaultPasswordList is the candidate list the guesser reads.
	DefaultPasswordList = "passwords.txt"

	// DefaultURLTemplate points at a challenge server on the local machine.
	DefaultURLTemplate = "http://127.0.0.1:3000/u/{username}/check/{password}"

	// DefaultSentinel is the first response line that marks a hit.
	DefaultSentinel = "True"

	// DefaultConcurrency keeps the guesser strictly sequential.
	DefaultConcurrency = 1

	// DefaultTimeout bounds each check request.
	DefaultTimeout = 30 * time.Second

	// DefaultSource is the text the generator samples from.
	DefaultSource = "corpus.txt"

	// DefaultSampleCount is the number of files the generator writes.
	DefaultSampleCount = 10000

	// DefaultLinesPerFile is the number of encoded lines in each file.
	DefaultLinesPerFile = 10

	// DefaultPrefix names generated files "{prefix}_{index}".
	DefaultPrefix = "sample"

	// DefaultOutDir is where generated files are written.
	DefaultOutDir = "."

	// DefaultHost is the address the server binds to.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the port the server listens on.
	DefaultPort = 3000

	// DefaultShutdownTimeout bounds graceful server shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// MaxConcurrency caps parallel guess requests.
	MaxConcurrency = 256
)

// Config holds every option of the challenges commands. Each command reads
// the fields it needs and validates them with its Validate method.
type Config struct {
	// Verbose enables Debug logging.
	Verbose bool

	// ConfigFilePath is an explicit config file. If empty, .challenges is
	// searched in the current directory and then the home directory.
	ConfigFilePath string

	// PasswordList is the candidate file; "-" reads stdin.
	PasswordList string

	// URLTemplate contains {password} and optionally {username}.
	URLTemplate string

	// Username fills the {username} placeholder.
	Username string

	// Sentinel is the expected first line of a successful response.
	Sentinel string

	// Concurrency is the number of in-flight check requests.
	Concurrency int

	// Timeout bounds each check request.
	Timeout time.Duration

	// Delay is waited between requests by each worker.
	Delay time.Duration

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// SourcePattern is a file or doublestar glob for the generator's corpus.
	SourcePattern string

	// SampleCount is the number of files to generate.
	SampleCount int

	// LinesPerFile is the number of lines drawn into each file.
	LinesPerFile int

	// Prefix is the generated file name prefix.
	Prefix string

	// OutDir receives generated files.
	OutDir string

	// Seed makes generation reproducible; zero picks a time-based seed.
	Seed uint64

	// Compress writes each generated file as an lz4 frame.
	Compress bool

	// Force removes earlier "{prefix}_*" files before generating.
	Force bool

	// Host is the server bind address.
	Host string

	// Port is the server port.
	Port int

	// AdminTokenHash is a bcrypt hash guarding DELETE /u/:user. Empty leaves
	// deletion open, matching a local playground.
	AdminTokenHash string

	// JSONLogs switches the server to JSON log lines.
	JSONLogs bool

	// ShutdownTimeout bounds graceful server shutdown.
	ShutdownTimeout time.Duration

	// DBDir holds challenges.db. Defaults to the XDG data directory.
	DBDir string

	// JSONReport prints the leaderboard as JSON.
	JSONReport bool

	// MarkdownReport prints the leaderboard as Markdown.
	MarkdownReport bool

	// ReportFile writes the leaderboard to a file instead of stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		PasswordList:    DefaultPasswordList,
		URLTemplate:     DefaultURLTemplate,
		Sentinel:        DefaultSentinel,
		Concurrency:     DefaultConcurrency,
		Timeout:         DefaultTimeout,
		SourcePattern:   DefaultSource,
		SampleCount:     DefaultSampleCount,
		LinesPerFile:    DefaultLinesPerFile,
		Prefix:          DefaultPrefix,
		OutDir:          DefaultOutDir,
		Host:            DefaultHost,
		Port:            DefaultPort,
		ShutdownTimeout: DefaultShutdownTimeout,
		DBDir:           XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for challenges.
// On Linux: ~/.local/share/challenges
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ValidateGuess checks the options used by the guess command.
func (c *Config) ValidateGuess() error {
	if c.PasswordList == "" {
		return ErrNoPasswordList
	}
	if c.URLTemplate == "" {
		return ErrNoURLTemplate
	}
	tmpl, err := guess.ParseTemplate(c.URLTemplate)
	if err != nil {
		return err
	}
	if tmpl.HasUsername() && c.Username == "" {
		return ErrNoUsername
	}
	if c.Sentinel == "" {
		return ErrEmptySentinel
	}
	if c.Concurrency < 1 || c.Concurrency > MaxConcurrency {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	return nil
}

// ValidateGenerate checks the options used by the generate command.
func (c *Config) ValidateGenerate() error {
	if c.SourcePattern == "" {
		return ErrNoSource
	}
	if c.SampleCount <= 0 {
		return ErrInvalidSampleCount
	}
	if c.LinesPerFile <= 0 {
		return ErrInvalidLinesPerFile
	}
	if c.Prefix == "" || strings.ContainsAny(c.Prefix, `/\`) || strings.ContainsAny(c.Prefix, "*?[") {
		return ErrInvalidPrefix
	}
	if c.OutDir == "" {
		return ErrNoOutDir
	}
	return nil
}

// ValidateServe checks the options used by the serve command.
func (c *Config) ValidateServe() error {
	if c.Port < 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.DBDir == "" {
		return ErrNoDBDir
	}
	if c.AdminTokenHash != "" {
		if _, err := bcrypt.Cost([]byte(c.AdminTokenHash)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAdminTokenHash, err)
		}
	}
	if c.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// ValidateReport checks the options used by the leaderboard command.
func (c *Config) ValidateReport() error {
	if c.DBDir == "" {
		return ErrNoDBDir
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
