package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables. A double underscore separates section and key.
const (
	EnvPrefix         = "CHALLENGES_"
	EnvServerHost     = EnvPrefix + "SERVER__HOST"
	EnvServerPort     = EnvPrefix + "SERVER__PORT"
	EnvAdminTokenHash = EnvPrefix + "SERVER__ADMIN_TOKEN_HASH"
	EnvDatabaseDir    = EnvPrefix + "DATABASE__DIR"
)

// LookupFunc reports the value of an environment variable.
// os.LookupEnv satisfies it; tests pass a map-backed function.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg with CHALLENGES_* environment variables.
// A nil lookup reads the process environment.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvServerHost); ok && v != "" {
		cfg.Host = v
	}
	if v, ok := lookup(EnvServerPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidPort, EnvServerPort, v)
		}
		cfg.Port = port
	}
	if v, ok := lookup(EnvAdminTokenHash); ok && v != "" {
		cfg.AdminTokenHash = v
	}
	if v, ok := lookup(EnvDatabaseDir); ok && v != "" {
		cfg.DBDir = v
	}
	return nil
}
