package services

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
	"github.com/devberatzengin/LoclLock/internal/session"
	"github.com/stretchr/testify/require"
)

var testPolicy = KeyPolicy{
	KDF:               cryptox.KDFParams{Algorithm: cryptox.AlgPBKDF2SHA256, Iterations: 1000, KeyLength: 32},
	SaltLength:        16,
	MinPasswordLength: 8,
}

type env struct {
	db       *sql.DB
	repos    *repomanager.SQLRepositoryManager
	audit    *audit.SQLLogger
	session  *session.Session
	registry *MasterKeyRegistry
	engine   *EncryptionEngine
	accounts *AccountStore
	cats     *CategoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	db, repos, err := repomanager.Open(ctx, dbx.DialectSQLite, filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := audit.NewSQLLogger(db, repos.Logs, logging.Nop())
	s := session.New()
	return &env{
		db:       db,
		repos:    repos,
		audit:    a,
		session:  s,
		registry: NewMasterKeyRegistry(db, repos, s, testPolicy, a),
		engine:   NewEncryptionEngine(s, 8),
		accounts: NewAccountStore(db, repos, a),
		cats:     NewCategoryStore(db, repos, a),
	}
}

func countActions(t *testing.T, db *sql.DB, action string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM logs WHERE action = ?`, action).Scan(&n))
	return n
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
