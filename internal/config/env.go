package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// Environment variables understood by parseEnv.
const (
	EnvDatabaseDriver = "LOCLLOCK_DATABASE_DRIVER"
	EnvDatabaseDSN    = "LOCLLOCK_DATABASE_DSN"
	EnvAutoLockAfter  = "LOCLLOCK_AUTO_LOCK_AFTER"
	EnvLogLevel       = "LOCLLOCK_LOG_LEVEL"
	EnvLogBackend     = "LOCLLOCK_LOG_BACKEND"
)

// parseEnv overlays cfg with LOCLLOCK_* values. The file at envFile is read
// if it exists; variables set in the process take precedence over it. The
// process environment itself is never modified.
func parseEnv(cfg *Config, envFile string) error {
	fileVars, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: read %s: %w", envFile, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	if v, ok := lookup(EnvDatabaseDriver); ok {
		cfg.DatabaseDriver = v
	}
	if v, ok := lookup(EnvDatabaseDSN); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := lookup(EnvAutoLockAfter); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvAutoLockAfter, err)
		}
		cfg.AutoLockAfter = d
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvLogBackend); ok {
		cfg.LogBackend = v
	}
	return nil
}
