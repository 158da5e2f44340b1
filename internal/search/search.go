// Package search filters account lists by keyword. It works on values only
// and never sees keys or plaintext secrets.
package search

import (
	"strings"

	"github.com/devberatzengin/LoclLock/internal/models"
)

// Searcher narrows an account list to those matching keyword.
type Searcher interface {
	Search(keyword string, accounts []models.Account) []models.Account
}

// SubstringSearcher matches keyword as a case-insensitive substring of the
// site or the username. An empty keyword matches everything.
type SubstringSearcher struct{}

func (SubstringSearcher) Search(keyword string, accounts []models.Account) []models.Account {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		if kw == "" ||
			strings.Contains(strings.ToLower(a.Site), kw) ||
			strings.Contains(strings.ToLower(a.Username), kw) {
			out = append(out, a)
		}
	}
	return out
}

// InCategory keeps accounts filed under categoryID.
func InCategory(categoryID int64, accounts []models.Account) []models.Account {
	out := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.CategoryID == categoryID {
			out = append(out, a)
		}
	}
	return out
}
