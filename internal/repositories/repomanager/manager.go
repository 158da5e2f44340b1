// Package repomanager vends repositories bound to a database handle and runs
// the embedded goose migrations for the configured SQL dialect.
//
// Repositories are cheap to construct, so callers build them per handle:
// bound to *sql.DB for plain reads, or to the *sql.Tx handed out by
// dbx.WithTx when several writes must commit together.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/migrations"
	"github.com/devberatzengin/LoclLock/internal/repositories/accounts"
	"github.com/devberatzengin/LoclLock/internal/repositories/categories"
	"github.com/devberatzengin/LoclLock/internal/repositories/logs"
	"github.com/devberatzengin/LoclLock/internal/repositories/metadata"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Categories(db dbx.DBTX) categories.Repository
	Metadata(db dbx.DBTX) metadata.Repository
	Logs(db dbx.DBTX) logs.Repository
}

// dialectSpec ties a dbx.Dialect to its database/sql driver, goose dialect
// and migrations directory.
type dialectSpec struct {
	driver       string
	gooseDialect string
	dir          string
}

var dialects = map[dbx.Dialect]dialectSpec{
	dbx.DialectSQLite:   {driver: "sqlite", gooseDialect: "sqlite3", dir: "sqlite"},
	dbx.DialectPostgres: {driver: "pgx", gooseDialect: "postgres", dir: "postgres"},
}

// SQLRepositoryManager serves both dialects; queries are written with "?"
// placeholders and rebound for PostgreSQL.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

// New returns a manager for dialect.
func New(dialect dbx.Dialect) (*SQLRepositoryManager, error) {
	if _, ok := dialects[dialect]; !ok {
		return nil, fmt.Errorf("unsupported database driver %q", dialect)
	}
	return &SQLRepositoryManager{dialect: dialect}, nil
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect { return m.dialect }

func (m *SQLRepositoryManager) bind(db dbx.DBTX) dbx.DBTX {
	return dbx.Rebind(m.dialect, db)
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLRepository(m.bind(db))
}

// Categories returns a categories.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Categories(db dbx.DBTX) categories.Repository {
	return categories.NewSQLRepository(m.bind(db))
}

// Metadata returns a metadata.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLRepository(m.bind(db))
}

// Logs returns a logs.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Logs(db dbx.DBTX) logs.Repository {
	return logs.NewSQLRepository(m.bind(db))
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	spec := dialects[m.dialect]

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(spec.gooseDialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, spec.dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Open connects to dsn with the driver registered for dialect, pings it and
// applies migrations. The caller owns the returned *sql.DB.
func Open(ctx context.Context, dialect dbx.Dialect, dsn string) (*sql.DB, *SQLRepositoryManager, error) {
	m, err := New(dialect)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(dialects[dialect].driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == dbx.DialectSQLite {
		// One writer at a time; also keeps ":memory:" databases on one connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, m, nil
}
