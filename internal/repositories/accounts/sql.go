package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/models"
)

const selectColumns = `SELECT id, site, username, encrypted_password, category_id, created_at, updated_at FROM accounts`

// SQLRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
}

// NewSQLRepository returns a new SQLRepository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*models.Account, error) {
	var a models.Account
	var created, updated string
	if err := s.Scan(&a.ID, &a.Site, &a.Username, &a.EncryptedPassword, &a.CategoryID, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	if a.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, fmt.Errorf("account %d: bad created_at: %w", a.ID, err)
	}
	if a.UpdatedAt, err = dbx.ParseTime(updated); err != nil {
		return nil, fmt.Errorf("account %d: bad updated_at: %w", a.ID, err)
	}
	return &a, nil
}

func (r *SQLRepository) list(ctx context.Context, op, query string, args ...any) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.StorageErr("failed to "+op, err)
	}
	defer rows.Close()

	var result []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, common.StorageErr("failed to scan account row", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StorageErr("failed to iterate account rows", err)
	}
	return result, nil
}

func (r *SQLRepository) Create(ctx context.Context, a *models.Account) (int64, error) {
	query := `INSERT INTO accounts (site, username, encrypted_password, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		a.Site, a.Username, a.EncryptedPassword, a.CategoryID,
		dbx.FormatTime(a.CreatedAt), dbx.FormatTime(a.UpdatedAt)).Scan(&id)
	if err != nil {
		return 0, common.StorageErr("failed to insert account", err)
	}
	return id, nil
}

func (r *SQLRepository) GetAll(ctx context.Context) ([]models.Account, error) {
	return r.list(ctx, "select accounts", selectColumns+` ORDER BY site, username, id`)
}

func (r *SQLRepository) GetByCategory(ctx context.Context, categoryID int64) ([]models.Account, error) {
	return r.list(ctx, "select accounts by category",
		selectColumns+` WHERE category_id = ? ORDER BY site, username, id`, categoryID)
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.StorageErr(fmt.Sprintf("failed to get account %d", id), err)
	}
	return a, nil
}

func (r *SQLRepository) Update(ctx context.Context, a *models.Account) (bool, error) {
	query := `UPDATE accounts
		SET site = ?, username = ?, encrypted_password = ?, category_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.Site, a.Username, a.EncryptedPassword, a.CategoryID, dbx.FormatTime(a.UpdatedAt), a.ID)
	if err != nil {
		return false, common.StorageErr("failed to update account", err)
	}
	return affected(res)
}

func (r *SQLRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return false, common.StorageErr("failed to delete account", err)
	}
	return affected(res)
}

func (r *SQLRepository) ReplaceCiphertext(ctx context.Context, id int64, token string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET encrypted_password = ?, updated_at = ? WHERE id = ?`,
		token, dbx.FormatTime(updatedAt), id)
	if err != nil {
		return common.StorageErr("failed to replace ciphertext", err)
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("account %d: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *SQLRepository) Recategorize(ctx context.Context, from, to int64, updatedAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET category_id = ?, updated_at = ? WHERE category_id = ?`,
		to, dbx.FormatTime(updatedAt), from)
	if err != nil {
		return 0, common.StorageErr("failed to recategorize accounts", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.StorageErr("failed to get rows affected", err)
	}
	return n, nil
}

func (r *SQLRepository) CountByCategory(ctx context.Context) (map[int64]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category_id, COUNT(*) FROM accounts GROUP BY category_id`)
	if err != nil {
		return nil, common.StorageErr("failed to count accounts", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, common.StorageErr("failed to scan account count", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, common.StorageErr("failed to iterate account counts", err)
	}
	return counts, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, common.StorageErr("failed to get rows affected", err)
	}
	return n > 0, nil
}
