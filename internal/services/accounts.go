package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/devberatzengin/LoclLock/internal/audit"
	"github.com/devberatzengin/LoclLock/internal/dbx"
	"github.com/devberatzengin/LoclLock/internal/models"
	"github.com/devberatzengin/LoclLock/internal/repositories/repomanager"
)

// AccountStore is the transactional CRUD surface for accounts. Writes run in
// one transaction each and carry their success audit event inside it; a
// failure event is written best-effort after the rollback.
type AccountStore struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	audit audit.TxLogger
	now   func() time.Time
}

func NewAccountStore(db *sql.DB, repos repomanager.RepositoryManager, a audit.TxLogger) *AccountStore {
	return &AccountStore{db: db, repos: repos, audit: a, now: time.Now}
}

// WithClock overrides the timestamp source.
func (s *AccountStore) WithClock(now func() time.Time) *AccountStore {
	c := *s
	c.now = now
	return &c
}

// WithTx runs fn in one transaction on the store's database.
func (s *AccountStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// Save inserts a and returns its new id. a.ID, CreatedAt and UpdatedAt are
// set on success.
func (s *AccountStore) Save(ctx context.Context, a *models.Account) (int64, error) {
	a.Normalize()
	if err := a.Validate(); err != nil {
		return 0, err
	}

	now := s.now()
	a.CreatedAt, a.UpdatedAt = now, now

	var id int64
	err := s.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if id, err = s.repos.Accounts(tx).Create(ctx, a); err != nil {
			return err
		}
		s.audit.InTx(tx).Record(ctx, models.LevelInfo, models.ActionAccountAdded, "site="+a.Site)
		return nil
	})
	if err != nil {
		s.audit.Record(ctx, models.LevelError, models.ActionAccountAddFailed,
			fmt.Sprintf("site=%s: %v", a.Site, err))
		return 0, err
	}

	a.ID = id
	return id, nil
}

func (s *AccountStore) GetAll(ctx context.Context) ([]models.Account, error) {
	return s.repos.Accounts(s.db).GetAll(ctx)
}

// GetByID returns common.ErrNotFound for an unknown id.
func (s *AccountStore) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return s.repos.Accounts(s.db).GetByID(ctx, id)
}

func (s *AccountStore) GetByCategory(ctx context.Context, categoryID int64) ([]models.Account, error) {
	return s.repos.Accounts(s.db).GetByCategory(ctx, categoryID)
}

// Update replaces the mutable fields of a. The stored created_at is kept.
// It returns false, without error, when no account has a.ID.
func (s *AccountStore) Update(ctx context.Context, a *models.Account) (bool, error) {
	a.Normalize()
	if err := a.Validate(); err != nil {
		return false, err
	}
	a.UpdatedAt = s.now()

	var changed bool
	err := s.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if changed, err = s.repos.Accounts(tx).Update(ctx, a); err != nil {
			return err
		}
		if changed {
			s.audit.InTx(tx).Record(ctx, models.LevelInfo, models.ActionAccountUpdated,
				fmt.Sprintf("id=%d site=%s", a.ID, a.Site))
		}
		return nil
	})
	if err != nil {
		s.audit.Record(ctx, models.LevelError, models.ActionAccountUpdateFailed,
			fmt.Sprintf("id=%d: %v", a.ID, err))
		return false, err
	}
	return changed, nil
}

// DeleteByID removes an account and reports whether it existed.
func (s *AccountStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := s.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if removed, err = s.repos.Accounts(tx).DeleteByID(ctx, id); err != nil {
			return err
		}
		if removed {
			s.audit.InTx(tx).Record(ctx, models.LevelInfo, models.ActionAccountDeleted, fmt.Sprintf("id=%d", id))
		}
		return nil
	})
	if err != nil {
		s.audit.Record(ctx, models.LevelError, models.ActionAccountDeleteFailed,
			fmt.Sprintf("id=%d: %v", id, err))
		return false, err
	}
	return removed, nil
}

// ReplaceCiphertext swaps the stored token of one account through the
// caller's transaction. It skips validation: the secret was validated when
// it was first stored.
func (s *AccountStore) ReplaceCiphertext(ctx context.Context, tx dbx.DBTX, id int64, token string) error {
	return s.repos.Accounts(tx).ReplaceCiphertext(ctx, id, token, s.now())
}

// LoadAll reads every account through tx.
func (s *AccountStore) LoadAll(ctx context.Context, tx dbx.DBTX) ([]models.Account, error) {
	return s.repos.Accounts(tx).GetAll(ctx)
}
