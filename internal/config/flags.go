package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/devberatzengin/LoclLock/internal/flagx"
)

var ownFlags = []string{
	"driver", "dsn", "kdf", "kdf-iterations", "auto-lock", "log-level", "log-backend",
}

// parseFlags populates cfg from the flags it owns in args:
//
//	-driver string          sqlite or postgres
//	-dsn string             database file or connection string
//	-kdf string             pbkdf2-sha256 or argon2id (new vaults only)
//	-kdf-iterations uint    iteration count or argon2id time cost
//	-auto-lock duration     idle time before the vault locks, 0 disables
//	-log-level string       debug, info, warn or error
//	-log-backend string     slog or zap
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("locllock", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabaseDriver, "driver", cfg.DatabaseDriver, "database driver")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "database file or connection string")
	fs.StringVar(&cfg.KDFAlgorithm, "kdf", cfg.KDFAlgorithm, "key derivation algorithm")
	iterations := fs.Uint("kdf-iterations", uint(cfg.KDFIterations), "key derivation iterations")
	fs.DurationVar(&cfg.AutoLockAfter, "auto-lock", cfg.AutoLockAfter, "idle auto-lock interval")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogBackend, "log-backend", cfg.LogBackend, "log backend")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if uint64(*iterations) > uint64(^uint32(0)) {
		return fmt.Errorf("config: kdf-iterations out of range")
	}
	cfg.KDFIterations = uint32(*iterations)
	return nil
}
