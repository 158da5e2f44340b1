package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devberatzengin/LoclLock/internal/audit"
	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/models"
	"github.com/devberatzengin/LoclLock/internal/repositories/repomanager"
)

// CategoryStore manages categories and their account counts.
type CategoryStore struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	audit audit.TxLogger
	now   func() time.Time
}

func NewCategoryStore(db *sql.DB, repos repomanager.RepositoryManager, a audit.TxLogger) *CategoryStore {
	return &CategoryStore{db: db, repos: repos, audit: a, now: time.Now}
}

func (s *CategoryStore) Add(ctx context.Context, c *models.Category) (int64, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Icon = strings.TrimSpace(c.Icon)
	if err := c.Validate(); err != nil {
		return 0, err
	}
	c.CreatedAt = s.now()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := s.repos.Categories(tx).Create(ctx, c)
		if err != nil {
			return err
		}
		c.ID = id
		s.audit.InTx(tx).Record(ctx, models.LevelInfo, models.ActionCategoryAdded, "name="+c.Name)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

// Exists reports whether id names a stored category. Zero means
// "uncategorized" and always exists.
func (s *CategoryStore) Exists(ctx context.Context, id int64) (bool, error) {
	if id == 0 {
		return true, nil
	}
	_, err := s.repos.Categories(s.db).GetByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// List returns every category with its account count, plus the total
// number of accounts including uncategorized ones.
func (s *CategoryStore) List(ctx context.Context) ([]models.CategoryStat, int, error) {
	cats, err := s.repos.Categories(s.db).GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	counts, err := s.repos.Accounts(s.db).CountByCategory(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	stats := make([]models.CategoryStat, 0, len(cats))
	for _, c := range cats {
		stats = append(stats, models.CategoryStat{Category: c, Accounts: counts[c.ID]})
	}
	return stats, total, nil
}

// Delete removes a category and moves its accounts to uncategorized in the
// same transaction.
func (s *CategoryStore) Delete(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if removed, err = s.repos.Categories(tx).DeleteByID(ctx, id); err != nil || !removed {
			return err
		}
		moved, err := s.repos.Accounts(tx).Recategorize(ctx, id, 0, s.now())
		if err != nil {
			return err
		}
		s.audit.InTx(tx).Record(ctx, models.LevelInfo, models.ActionCategoryDeleted,
			fmt.Sprintf("id=%d moved=%d", id, moved))
		return nil
	})
	return removed, err
}
