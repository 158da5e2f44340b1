package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/models"
	"github.com/devberatzengin/LoclLock/internal/search"
)

// AccountInput is what callers supply to add or update an account. The
// plaintext Password is encrypted before anything is stored.
type AccountInput struct {
	Site       string
	Username   string
	Password   string
	CategoryID int64
}

func (in *AccountInput) normalize() error {
	in.Site = strings.TrimSpace(in.Site)
	in.Username = strings.TrimSpace(in.Username)
	if in.Site == "" {
		return common.NewValidationError("site", "must not be empty")
	}
	if in.Username == "" {
		return common.NewValidationError("username", "must not be empty")
	}
	return nil
}

// checkWritable rejects duplicates of (site, username) among accounts other
// than skipID and unknown category ids. It runs before any write.
func (v *Vault) checkWritable(ctx context.Context, in *AccountInput, skipID int64) error {
	all, err := v.accounts.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID != skipID && all[i].SameIdentity(in.Site, in.Username) {
			return common.NewValidationError("username",
				fmt.Sprintf("an account for %s already exists on %s", in.Username, in.Site))
		}
	}

	ok, err := v.categories.Exists(ctx, in.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewValidationError("category_id", fmt.Sprintf("category %d does not exist", in.CategoryID))
	}
	return nil
}

// AddAccount encrypts in.Password and stores a new account.
func (v *Vault) AddAccount(ctx context.Context, in AccountInput) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "add_account"); err != nil {
		return 0, err
	}
	if err := in.normalize(); err != nil {
		return 0, err
	}
	if err := v.checkWritable(ctx, &in, 0); err != nil {
		return 0, err
	}

	token, err := v.engine.Encrypt(in.Password)
	if err != nil {
		return 0, err
	}
	return v.accounts.Save(ctx, &models.Account{
		Site:              in.Site,
		Username:          in.Username,
		EncryptedPassword: token,
		CategoryID:        in.CategoryID,
	})
}

// UpdateAccount replaces site, username and category of account id. An
// empty in.Password keeps the stored secret.
func (v *Vault) UpdateAccount(ctx context.Context, id int64, in AccountInput) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "update_account"); err != nil {
		return err
	}
	if err := in.normalize(); err != nil {
		return err
	}

	existing, err := v.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := v.checkWritable(ctx, &in, id); err != nil {
		return err
	}

	token := existing.EncryptedPassword
	if in.Password != "" {
		if token, err = v.engine.Encrypt(in.Password); err != nil {
			return err
		}
	}

	changed, err := v.accounts.Update(ctx, &models.Account{
		ID:                id,
		Site:              in.Site,
		Username:          in.Username,
		EncryptedPassword: token,
		CategoryID:        in.CategoryID,
	})
	if err != nil {
		return err
	}
	if !changed {
		return fmt.Errorf("account %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// DeleteAccount removes account id and reports whether it existed.
func (v *Vault) DeleteAccount(ctx context.Context, id int64) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "delete_account"); err != nil {
		return false, err
	}
	return v.accounts.DeleteByID(ctx, id)
}

func (v *Vault) ListAccounts(ctx context.Context) ([]models.Account, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "list_accounts"); err != nil {
		return nil, err
	}
	return v.accounts.GetAll(ctx)
}

func (v *Vault) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "get_account"); err != nil {
		return nil, err
	}
	return v.accounts.GetByID(ctx, id)
}

func (v *Vault) ListByCategory(ctx context.Context, categoryID int64) ([]models.Account, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "list_by_category"); err != nil {
		return nil, err
	}
	return v.accounts.GetByCategory(ctx, categoryID)
}

// SearchAccounts matches keyword against site and username.
func (v *Vault) SearchAccounts(ctx context.Context, keyword string) ([]models.Account, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "search"); err != nil {
		return nil, err
	}
	all, err := v.accounts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return v.searcher.Search(keyword, all), nil
}

// SearchInCategory is SearchAccounts restricted to one category.
func (v *Vault) SearchInCategory(ctx context.Context, categoryID int64, keyword string) ([]models.Account, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "search_in_category"); err != nil {
		return nil, err
	}
	all, err := v.accounts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return v.searcher.Search(keyword, search.InCategory(categoryID, all)), nil
}

// RevealPassword decrypts the stored secret of account id.
func (v *Vault) RevealPassword(ctx context.Context, id int64) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "reveal_password"); err != nil {
		return "", err
	}
	a, err := v.accounts.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	plaintext, err := v.engine.Decrypt(a.EncryptedPassword)
	if err != nil {
		v.log.Error(ctx, "stored secret failed to decrypt", "account_id", id, "error", err)
		return "", err
	}
	return plaintext, nil
}

// AddCategory stores a new category.
func (v *Vault) AddCategory(ctx context.Context, name, icon string) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "add_category"); err != nil {
		return 0, err
	}
	return v.categories.Add(ctx, &models.Category{Name: name, Icon: icon})
}

// ListCategories returns every category with its account count and the
// total number of accounts.
func (v *Vault) ListCategories(ctx context.Context) ([]models.CategoryStat, int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "list_categories"); err != nil {
		return nil, 0, err
	}
	return v.categories.List(ctx)
}

// DeleteCategory removes a category; its accounts become uncategorized.
func (v *Vault) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.enter(ctx, "delete_category"); err != nil {
		return false, err
	}
	if id == 0 {
		return false, common.NewValidationError("id", "uncategorized cannot be deleted")
	}
	return v.categories.Delete(ctx, id)
}

