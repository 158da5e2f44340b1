package vault

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/devberatzengin/LoclLock/internal/audit"
	"github.com/devberatzengin/LoclLock/internal/cryptox"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/logging"
	"github.com/devberatzengin/LoclLock/internal/repositories/repomanager"
	"github.com/devberatzengin/LoclLock/internal/services"
	"github.com/devberatzengin/LoclLock/internal/session"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-1"

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	db       *sql.DB
	session  *session.Session
	registry *services.MasterKeyRegistry
	engine   *services.EncryptionEngine
	clock    *fakeClock
	vault    *Vault
}

type option func(*Deps, *fixture)

func withAutoLock(d time.Duration) option {
	return func(deps *Deps, _ *fixture) { deps.AutoLockAfter = d }
}

func withEngine(wrap func(*services.EncryptionEngine) Encryptor) option {
	return func(deps *Deps, f *fixture) { deps.Engine = wrap(f.engine) }
}

func newFixture(t *testing.T, opts ...option) *fixture {
	t.Helper()
	ctx := context.Background()

	db, repos, err := repomanager.Open(ctx, dbx.DialectSQLite, filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	policy := services.KeyPolicy{
		KDF:               cryptox.KDFParams{Algorithm: cryptox.AlgPBKDF2SHA256, Iterations: 1000, KeyLength: 32},
		SaltLength:        16,
		MinPasswordLength: 8,
	}

	f := &fixture{
		db:      db,
		session: session.New(),
		clock:   &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	a := audit.NewSQLLogger(db, repos.Logs, logging.Nop())
	f.registry = services.NewMasterKeyRegistry(db, repos, f.session, policy, a)
	f.engine = services.NewEncryptionEngine(f.session, 8)

	deps := Deps{
		Session:    f.session,
		Registry:   f.registry,
		Engine:     f.engine,
		Accounts:   services.NewAccountStore(db, repos, a).WithClock(f.clock.Now),
		Categories: services.NewCategoryStore(db, repos, a),
		Audit:      a,
		AuditTrail: repos.Logs(db),
		Log:        logging.Nop(),
		Clock:      f.clock.Now,
		NewRunID:   func() string { return "run-1" },
	}
	for _, o := range opts {
		o(&deps, f)
	}
	f.vault = New(deps)
	return f
}

// unlocked returns a fixture whose vault is set up and unlocked.
func unlocked(t *testing.T, opts ...option) *fixture {
	t.Helper()
	f := newFixture(t, opts...)
	require.NoError(t, f.vault.Setup(context.Background(), []byte(testPassword)))
	return f
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func (f *fixture) countAction(t *testing.T, action string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM logs WHERE action = ?`, action).Scan(&n))
	return n
}

func (f *fixture) storedHash(t *testing.T) []byte {
	t.Helper()
	var h []byte
	require.NoError(t, f.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, services.MetaHash).Scan(&h))
	return h
}

func (f *fixture) addAccount(t *testing.T, site, user, pw string) int64 {
	t.Helper()
	id, err := f.vault.AddAccount(context.Background(), AccountInput{Site: site, Username: user, Password: pw})
	require.NoError(t, err)
	return id
}
