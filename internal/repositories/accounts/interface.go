package accounts

import (
	"context"
	"time"

	"github.com/devberatzengin/LoclLock/internal/models"
)

// Repository describes persistence of Account records.
type Repository interface {
	// Create inserts a and returns the identity assigned by the database.
	Create(ctx context.Context, a *models.Account) (int64, error)

	// GetAll returns every account ordered by site, then username.
	GetAll(ctx context.Context) ([]models.Account, error)

	// GetByID returns common.ErrNotFound when no row matches.
	GetByID(ctx context.Context, id int64) (*models.Account, error)

	// GetByCategory returns accounts filed under categoryID.
	GetByCategory(ctx context.Context, categoryID int64) ([]models.Account, error)

	// Update replaces the mutable columns. created_at is never touched.
	// The boolean is false when no row matched.
	Update(ctx context.Context, a *models.Account) (bool, error)

	// DeleteByID removes the row and reports whether it existed.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// ReplaceCiphertext updates only encrypted_password and updated_at.
	ReplaceCiphertext(ctx context.Context, id int64, token string, updatedAt time.Time) error

	// Recategorize moves every account filed under from to to and returns
	// the number of moved rows.
	Recategorize(ctx context.Context, from, to int64, updatedAt time.Time) (int64, error)

	// CountByCategory returns the number of accounts per category id.
	CountByCategory(ctx context.Context) (map[int64]int, error)
}
