package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/devberatzengin/LoclLock/internal/common"
)

// MinCategoryNameLength is the shortest accepted category name, in runes.
const MinCategoryNameLength = 2

// Category groups accounts. Accounts reference it by ID; 0 means none.
type Category struct {
	ID        int64
	Name      string
	Icon      string
	CreatedAt time.Time
}

// CategoryStat is a category with the number of accounts filed under it.
type CategoryStat struct {
	Category
	Accounts int
}

func (c *Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return common.NewValidationError("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) < MinCategoryNameLength {
		return common.NewValidationError("name", "must be at least 2 characters")
	}
	return nil
}
