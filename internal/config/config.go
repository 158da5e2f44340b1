package config

import (
	"fmt"
	"os"
	"time"

	"github.com/devberatzengin/LoclLock/internal/cryptox"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/logging"
)

// Config holds runtime settings for the LoclLock CLI.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string

	KDFAlgorithm  string
	KDFIterations uint32
	KDFMemoryKiB  uint32
	KDFThreads    uint8
	KeyLength     uint32
	SaltLength    int

	MinMasterPasswordLength int
	MinSecretLength         int

	// AutoLockAfter is the idle time before the vault locks itself. Zero
	// disables the idle lock.
	AutoLockAfter time.Duration

	LogLevel   string
	LogBackend string
}

// LoadDefaults populates c with defaults suitable for a local vault file.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = string(dbx.DialectSQLite)
	c.DatabaseDSN = "locllock.db"
	c.KDFAlgorithm = cryptox.AlgPBKDF2SHA256
	c.KDFIterations = 600_000
	c.KDFMemoryKiB = 64 * 1024
	c.KDFThreads = 4
	c.KeyLength = 32
	c.SaltLength = 16
	c.MinMasterPasswordLength = 8
	c.MinSecretLength = 8
	c.AutoLockAfter = 5 * time.Minute
	c.LogLevel = "info"
	c.LogBackend = logging.BackendSlog
}

// KDFParams returns the derivation parameters for newly created vaults.
// For argon2id KDFIterations is the time cost.
func (c *Config) KDFParams() cryptox.KDFParams {
	p := cryptox.KDFParams{
		Algorithm:  c.KDFAlgorithm,
		Iterations: c.KDFIterations,
		KeyLength:  c.KeyLength,
	}
	if c.KDFAlgorithm == cryptox.AlgArgon2id {
		p.MemoryKiB = c.KDFMemoryKiB
		p.Threads = c.KDFThreads
	}
	return p
}

// Validate rejects settings the vault cannot run with.
func (c *Config) Validate() error {
	switch dbx.Dialect(c.DatabaseDriver) {
	case dbx.DialectSQLite, dbx.DialectPostgres:
	default:
		return fmt.Errorf("config: unknown database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("config: database dsn is empty")
	}
	if err := c.KDFParams().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.SaltLength < 16 {
		return fmt.Errorf("config: salt length must be at least 16 bytes, got %d", c.SaltLength)
	}
	if c.MinMasterPasswordLength < 1 || c.MinSecretLength < 1 {
		return fmt.Errorf("config: minimum lengths must be positive")
	}
	if c.AutoLockAfter < 0 {
		return fmt.Errorf("config: auto lock interval must not be negative")
	}
	switch c.LogBackend {
	case logging.BackendSlog, logging.BackendZap:
	default:
		return fmt.Errorf("config: unknown log backend %q", c.LogBackend)
	}
	return nil
}

// Load builds a Config from defaults, the JSON file named in args, the
// environment and finally the flags in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, defaultEnvFile); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
