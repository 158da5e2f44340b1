package categories

import (
	"context"

	"github.com/devberatzengin/LoclLock/internal/models"
)

// Repository persists categories.
type Repository interface {
	Create(ctx context.Context, c *models.Category) (int64, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	// GetByID returns common.ErrNotFound when no row matches.
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}
