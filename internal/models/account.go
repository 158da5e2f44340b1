// Package models defines the plain value types that flow between the vault
// layers: accounts, categories and audit log entries.
package models

import (
	"strings"
	"time"

	"github.com/devberatzengin/LoclLock/internal/common"
)

// Account is one stored credential. EncryptedPassword is an opaque
// ciphertext token; plaintext passwords never appear here.
type Account struct {
	ID                int64
	Site              string
	Username          string
	EncryptedPassword string
	CategoryID        int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Normalize trims the identifying fields in place.
func (a *Account) Normalize() {
	a.Site = strings.TrimSpace(a.Site)
	a.Username = strings.TrimSpace(a.Username)
}

// Validate checks the fields every persisted account must carry.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Site) == "" {
		return common.NewValidationError("site", "must not be empty")
	}
	if strings.TrimSpace(a.Username) == "" {
		return common.NewValidationError("username", "must not be empty")
	}
	if a.EncryptedPassword == "" {
		return common.NewValidationError("encrypted_password", "must not be empty")
	}
	if a.CategoryID < 0 {
		return common.NewValidationError("category_id", "must not be negative")
	}
	return nil
}

// SameIdentity reports whether a and b name the same (site, username) pair.
// Comparison ignores case and surrounding whitespace.
func (a *Account) SameIdentity(site, username string) bool {
	return strings.EqualFold(strings.TrimSpace(a.Site), strings.TrimSpace(site)) &&
		strings.EqualFold(strings.TrimSpace(a.Username), strings.TrimSpace(username))
}
