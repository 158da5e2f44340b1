package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/devberatzengin/LoclLock/internal/flagx"
	"github.com/devberatzengin/LoclLock/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. It is pre-filled
// from the current Config before decoding, so keys missing from the file
// keep their earlier value.
type JsonConfig struct {
	DatabaseDriver          string         `json:"database_driver"`
	DatabaseDSN             string         `json:"database_dsn"`
	KDFAlgorithm            string         `json:"kdf_algorithm"`
	KDFIterations           uint32         `json:"kdf_iterations"`
	KDFMemoryKiB            uint32         `json:"kdf_memory_kib"`
	KDFThreads              uint8          `json:"kdf_threads"`
	KeyLength               uint32         `json:"key_length"`
	SaltLength              int            `json:"salt_length"`
	MinMasterPasswordLength int            `json:"min_master_password_length"`
	MinSecretLength         int            `json:"min_secret_length"`
	AutoLockAfter           timex.Duration `json:"auto_lock_after"`
	LogLevel                string         `json:"log_level"`
	LogBackend              string         `json:"log_backend"`
}

// parseJson overlays cfg with the file given by -c / -config in args. No
// flag means no file and no change.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	jc := JsonConfig{
		DatabaseDriver:          cfg.DatabaseDriver,
		DatabaseDSN:             cfg.DatabaseDSN,
		KDFAlgorithm:            cfg.KDFAlgorithm,
		KDFIterations:           cfg.KDFIterations,
		KDFMemoryKiB:            cfg.KDFMemoryKiB,
		KDFThreads:              cfg.KDFThreads,
		KeyLength:               cfg.KeyLength,
		SaltLength:              cfg.SaltLength,
		MinMasterPasswordLength: cfg.MinMasterPasswordLength,
		MinSecretLength:         cfg.MinSecretLength,
		AutoLockAfter:           timex.Duration{Duration: cfg.AutoLockAfter},
		LogLevel:                cfg.LogLevel,
		LogBackend:              cfg.LogBackend,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.DatabaseDriver = jc.DatabaseDriver
	cfg.DatabaseDSN = jc.DatabaseDSN
	cfg.KDFAlgorithm = jc.KDFAlgorithm
	cfg.KDFIterations = jc.KDFIterations
	cfg.KDFMemoryKiB = jc.KDFMemoryKiB
	cfg.KDFThreads = jc.KDFThreads
	cfg.KeyLength = jc.KeyLength
	cfg.SaltLength = jc.SaltLength
	cfg.MinMasterPasswordLength = jc.MinMasterPasswordLength
	cfg.MinSecretLength = jc.MinSecretLength
	cfg.AutoLockAfter = jc.AutoLockAfter.Duration
	cfg.LogLevel = jc.LogLevel
	cfg.LogBackend = jc.LogBackend
	return nil
}
