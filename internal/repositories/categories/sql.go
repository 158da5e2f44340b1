// Package categories persists account categories over a dbx.DBTX.
package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, c *models.Category) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, icon, created_at) VALUES (?, ?, ?) RETURNING id`,
		c.Name, c.Icon, dbx.FormatTime(c.CreatedAt)).Scan(&id)
	if err != nil {
		return 0, common.StorageErr("failed to insert category", err)
	}
	return id, nil
}

func (r *SQLRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, icon, created_at FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, common.StorageErr("failed to select categories", err)
	}
	defer rows.Close()

	var result []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, common.StorageErr("failed to scan category row", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StorageErr("failed to iterate category rows", err)
	}
	return result, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		`SELECT id, name, icon, created_at FROM categories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.StorageErr(fmt.Sprintf("failed to get category %d", id), err)
	}
	return c, nil
}

func (r *SQLRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, common.StorageErr("failed to delete category", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, common.StorageErr("failed to get rows affected", err)
	}
	return n > 0, nil
}

func scanCategory(s interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	var created string
	if err := s.Scan(&c.ID, &c.Name, &c.Icon, &created); err != nil {
		return nil, err
	}
	t, err := dbx.ParseTime(created)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = t
	return &c, nil
}
