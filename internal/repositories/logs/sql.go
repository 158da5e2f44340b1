// Package logs persists the append-only audit trail.
package logs

import (
	"context"

	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/models"
)

// Repository appends and reads audit events.
type Repository interface {
	Append(ctx context.Context, e *models.LogEntry) error
	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]models.LogEntry, error)
}

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Append(ctx context.Context, e *models.LogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO logs (level, action, detail, created_at) VALUES (?, ?, ?, ?)`,
		string(e.Level), e.Action, e.Detail, dbx.FormatTime(e.CreatedAt))
	if err != nil {
		return common.StorageErr("failed to append log entry", err)
	}
	return nil
}

func (r *SQLRepository) Recent(ctx context.Context, limit int) ([]models.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, level, action, detail, created_at FROM logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, common.StorageErr("failed to select log entries", err)
	}
	defer rows.Close()

	var result []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		var level, created string
		if err := rows.Scan(&e.ID, &level, &e.Action, &e.Detail, &created); err != nil {
			return nil, common.StorageErr("failed to scan log row", err)
		}
		e.Level = models.LogLevel(level)
		if e.CreatedAt, err = dbx.ParseTime(created); err != nil {
			return nil, common.StorageErr("failed to parse log timestamp", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StorageErr("failed to iterate log rows", err)
	}
	return result, nil
}
