// Package audit records security-relevant events in the logs table.
//
// Recording is fire-and-forget: a failed write is reported to the
// diagnostic logger and swallowed, so it can never mask the error of the
// operation being audited.
package audit

import (
	"context"
	"database/sql"
	"time"

	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/logging"
	"github.com/devberatzengin/LoclLock/internal/models"
	"github.com/devberatzengin/LoclLock/internal/repositories/logs"
)

// Logger accepts audit events.
type Logger interface {
	Record(ctx context.Context, level models.LogLevel, action, detail string)
}

// TxLogger is a Logger that can also write through a caller's transaction,
// so an event commits or rolls back together with the operation it describes.
type TxLogger interface {
	Logger
	InTx(tx dbx.DBTX) Logger
}

// LogsFactory builds a logs repository bound to a handle.
type LogsFactory func(db dbx.DBTX) logs.Repository

// SQLLogger writes events through a logs repository.
type SQLLogger struct {
	db    dbx.DBTX
	repos LogsFactory
	diag  logging.Logger
	now   func() time.Time
}

// NewSQLLogger returns an SQLLogger writing outside any transaction.
func NewSQLLogger(db *sql.DB, repos LogsFactory, diag logging.Logger) *SQLLogger {
	return &SQLLogger{db: db, repos: repos, diag: diag, now: time.Now}
}

// WithClock overrides the timestamp source.
func (l *SQLLogger) WithClock(now func() time.Time) *SQLLogger {
	c := *l
	c.now = now
	return &c
}

// InTx returns a logger whose writes go through tx.
func (l *SQLLogger) InTx(tx dbx.DBTX) Logger {
	c := *l
	c.db = tx
	return &c
}

func (l *SQLLogger) Record(ctx context.Context, level models.LogLevel, action, detail string) {
	entry := &models.LogEntry{Level: level, Action: action, Detail: detail, CreatedAt: l.now()}
	if err := l.repos(l.db).Append(ctx, entry); err != nil {
		l.diag.Error(ctx, "audit write failed", "action", action, "level", string(level), "error", err)
	}
}

type nopLogger struct{}

func (nopLogger) Record(context.Context, models.LogLevel, string, string) {}
func (n nopLogger) InTx(dbx.DBTX) Logger { return n }

// Nop discards every event.
func Nop() TxLogger { return nopLogger{} }
