package config

import (
	"fmt"
	"time"
)

// File represents the structure of the .challenges configuration file.
// Every field is optional; only fields present in the file override defaults.
type File struct {
	Guess    GuessSection    `yaml:"guess,omitempty"`
	Generate GenerateSection `yaml:"generate,omitempty"`
	Server   ServerSection   `yaml:"server,omitempty"`
	Database DatabaseSection `yaml:"database,omitempty"`
}

// GuessSection configures the guess command.
type GuessSection struct {
	List        string `yaml:"list,omitempty"`
	URL         string `yaml:"url,omitempty"`
	User        string `yaml:"user,omitempty"`
	Sentinel    string `yaml:"sentinel,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
	// Timeout and Delay use Go duration syntax, e.g. "30s" or "250ms".
	Timeout string `yaml:"timeout,omitempty"`
	Delay   string `yaml:"delay,omitempty"`
	Proxy   string `yaml:"proxy,omitempty"`
}

// GenerateSection configures the generate command.
type GenerateSection struct {
	Source   string `yaml:"source,omitempty"`
	Count    int    `yaml:"count,omitempty"`
	Lines    int    `yaml:"lines,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Out      string `yaml:"out,omitempty"`
	Seed     uint64 `yaml:"seed,omitempty"`
	Compress *bool  `yaml:"compress,omitempty"`
}

// ServerSection configures the serve command.
type ServerSection struct {
	Host            string `yaml:"host,omitempty"`
	Port            int    `yaml:"port,omitempty"`
	AdminTokenHash  string `yaml:"admin_token_hash,omitempty"`
	JSONLogs        *bool  `yaml:"json_logs,omitempty"`
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`
}

// DatabaseSection configures where challenges.db lives.
type DatabaseSection struct {
	Dir string `yaml:"dir,omitempty"`
}

// Apply copies the values set in the file onto cfg.
func (f *File) Apply(cfg *Config) error {
	g := f.Guess
	setString(&cfg.PasswordList, g.List)
	setString(&cfg.URLTemplate, g.URL)
	setString(&cfg.Username, g.User)
	setString(&cfg.Sentinel, g.Sentinel)
	setInt(&cfg.Concurrency, g.Concurrency)
	setString(&cfg.ProxyAddress, g.Proxy)
	if err := setDuration(&cfg.Timeout, "guess.timeout", g.Timeout); err != nil {
		return err
	}
	if err := setDuration(&cfg.Delay, "guess.delay", g.Delay); err != nil {
		return err
	}

	gen := f.Generate
	setString(&cfg.SourcePattern, gen.Source)
	setInt(&cfg.SampleCount, gen.Count)
	setInt(&cfg.LinesPerFile, gen.Lines)
	setString(&cfg.Prefix, gen.Prefix)
	setString(&cfg.OutDir, gen.Out)
	if gen.Seed != 0 {
		cfg.Seed = gen.Seed
	}
	setBool(&cfg.Compress, gen.Compress)

	s := f.Server
	setString(&cfg.Host, s.Host)
	setInt(&cfg.Port, s.Port)
	setString(&cfg.AdminTokenHash, s.AdminTokenHash)
	setBool(&cfg.JSONLogs, s.JSONLogs)
	if err := setDuration(&cfg.ShutdownTimeout, "server.shutdown_timeout", s.ShutdownTimeout); err != nil {
		return err
	}

	setString(&cfg.DBDir, f.Database.Dir)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, field, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, v, err)
	}
	*dst = d
	return nil
}
