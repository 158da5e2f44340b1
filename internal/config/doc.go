// Package config loads runtime configuration for the LoclLock CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment: LOCLLOCK_* variables, read from the process and from an
//     optional .env file in the working directory. The process wins.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "5m" or integer
// nanoseconds. Absent keys keep their earlier value.
//
//	{
//	  "database_driver": "sqlite",
//	  "database_dsn": "locllock.db",
//	  "kdf_algorithm": "pbkdf2-sha256",
//	  "kdf_iterations": 600000,
//	  "key_length": 32,
//	  "salt_length": 16,
//	  "min_master_password_length": 8,
//	  "min_secret_length": 8,
//	  "auto_lock_after": "5m",
//	  "log_level": "info",
//	  "log_backend": "slog"
//	}
//
// KDF settings only affect vaults created afterwards; an existing vault
// keeps the parameters it was set up with.
package config
