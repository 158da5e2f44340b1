package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/devberatzengin/LoclLock/internal/audit"
	"github.com/devberatzengin/LoclLock/internal/config"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/filex"
	"github.com/devberatzengin/LoclLock/internal/logging"
	"github.com/devberatzengin/LoclLock/internal/repositories/repomanager"
	"github.com/devberatzengin/LoclLock/internal/search"
	"github.com/devberatzengin/LoclLock/internal/services"
	"github.com/devberatzengin/LoclLock/internal/session"
	"github.com/devberatzengin/LoclLock/internal/vault"
)

type App struct {
	config *config.Config
	vault  *vault.Vault
	db     *sql.DB
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the vault database described by c, applies migrations and
// builds a locked vault. Diagnostic logs go to logOut.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	log, err := logging.New(c.LogBackend, c.LogLevel, logOut)
	if err != nil {
		return nil, err
	}

	dsn := c.DatabaseDSN
	if dbx.Dialect(c.DatabaseDriver) == dbx.DialectSQLite {
		if dsn, err = filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, repos, err := repomanager.Open(ctx, dbx.Dialect(c.DatabaseDriver), dsn)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	trail := audit.NewSQLLogger(db, repos.Logs, log)
	s := session.New()
	policy := services.KeyPolicy{
		KDF:               c.KDFParams(),
		SaltLength:        c.SaltLength,
		MinPasswordLength: c.MinMasterPasswordLength,
	}

	v := vault.New(vault.Deps{
		Session:       s,
		Registry:      services.NewMasterKeyRegistry(db, repos, s, policy, trail),
		Engine:        services.NewEncryptionEngine(s, c.MinSecretLength),
		Accounts:      services.NewAccountStore(db, repos, trail),
		Categories:    services.NewCategoryStore(db, repos, trail),
		Searcher:      search.SubstringSearcher{},
		Audit:         trail,
		AuditTrail:    repos.Logs(db),
		Log:           log,
		AutoLockAfter: c.AutoLockAfter,
	})

	log.Info(ctx, "vault opened", "driver", c.DatabaseDriver)
	return &App{
		config: c,
		vault:  v,
		db:     db,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run drives the REPL until the user exits, then locks and closes the vault.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)
	a.Root(ctx)
}

// Close locks the vault and releases the database.
func (a *App) Close(ctx context.Context) error {
	a.vault.Close(ctx)
	if s, ok := a.log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return a.db.Close()
}

func (a *App) isUnlocked() bool {
	return a.vault.State() == vault.Unlocked
}
