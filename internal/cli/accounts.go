package cli

import (
	"context"
	"fmt"

	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/vault"
)

// idFrom takes the id from args or asks for it.
func (a *App) idFrom(args []string, prompt string) (int64, error) {
	if len(args) > 0 {
		return parseID("id", args[0])
	}
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return 0, err
	}
	return parseID("id", s)
}

func (a *App) Add(ctx context.Context) error {
	if !a.isUnlocked() {
		return common.ErrAccessDenied
	}

	var in vault.AccountInput
	var err error
	if in.Site, err = getSimpleText(a.reader, "Site", a.out); err != nil {
		return err
	}
	if in.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	pw, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	in.Password = string(pw)

	cat, err := getSimpleText(a.reader, "Category id (empty for none)", a.out)
	if err != nil {
		return err
	}
	if in.CategoryID, err = parseOptionalID("category", cat); err != nil {
		return err
	}

	id, err := a.vault.AddAccount(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, successText(fmt.Sprintf("Saved account #%d", id)))
	return nil
}

// Update edits an account; empty answers keep the current values.
func (a *App) Update(ctx context.Context, args []string) error {
	if !a.isUnlocked() {
		return common.ErrAccessDenied
	}
	id, err := a.idFrom(args, "Account id to update")
	if err != nil {
		return err
	}
	cur, err := a.vault.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	in := vault.AccountInput{Site: cur.Site, Username: cur.Username, CategoryID: cur.CategoryID}
	if s, err := getSimpleText(a.reader, fmt.Sprintf("Site [%s]", cur.Site), a.out); err != nil {
		return err
	} else if s != "" {
		in.Site = s
	}
	if s, err := getSimpleText(a.reader, fmt.Sprintf("Username [%s]", cur.Username), a.out); err != nil {
		return err
	} else if s != "" {
		in.Username = s
	}

	pw, err := getPassword("New password (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	in.Password = string(pw)

	cat, err := getSimpleText(a.reader, fmt.Sprintf("Category id [%s]", categoryLabel(cur.CategoryID)), a.out)
	if err != nil {
		return err
	}
	if cat != "" {
		if in.CategoryID, err = parseID("category", cat); err != nil {
			return err
		}
	}

	if err := a.vault.UpdateAccount(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintln(a.out, successText(fmt.Sprintf("Updated account #%d", id)))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.isUnlocked() {
		return common.ErrAccessDenied
	}
	id, err := a.idFrom(args, "Account id to delete")
	if err != nil {
		return err
	}
	ok, err := getConfirmation(a.reader, fmt.Sprintf("Delete account #%d?", id), a.out)
	if err != nil || !ok {
		return err
	}

	removed, err := a.vault.DeleteAccount(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(a.out, warnText(fmt.Sprintf("No account #%d", id)))
		return nil
	}
	fmt.Fprintln(a.out, successText(fmt.Sprintf("Deleted account #%d", id)))
	return nil
}

// List prints every account, or those of the category given in args.
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) > 0 {
		catID, err := parseID("category", args[0])
		if err != nil {
			return err
		}
		accounts, err := a.vault.ListByCategory(ctx, catID)
		if err != nil {
			return err
		}
		printAccounts(a.out, accounts)
		return nil
	}

	accounts, err := a.vault.ListAccounts(ctx)
	if err != nil {
		return err
	}
	printAccounts(a.out, accounts)
	return nil
}

// Search matches a keyword against site and username, optionally within
// the category given as the second argument.
func (a *App) Search(ctx context.Context, args []string) error {
	if !a.isUnlocked() {
		return common.ErrAccessDenied
	}
	var keyword string
	if len(args) > 0 {
		keyword = args[0]
	} else {
		var err error
		if keyword, err = getSimpleText(a.reader, "Keyword", a.out); err != nil {
			return err
		}
	}

	if len(args) > 1 {
		catID, err := parseID("category", args[1])
		if err != nil {
			return err
		}
		accounts, err := a.vault.SearchInCategory(ctx, catID, keyword)
		if err != nil {
			return err
		}
		printAccounts(a.out, accounts)
		return nil
	}

	accounts, err := a.vault.SearchAccounts(ctx, keyword)
	if err != nil {
		return err
	}
	printAccounts(a.out, accounts)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if !a.isUnlocked() {
		return common.ErrAccessDenied
	}
	id, err := a.idFrom(args, "Account id to show")
	if err != nil {
		return err
	}
	acc, err := a.vault.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	printAccount(a.out, acc)
	return nil
}

// Reveal prints the decrypted password of one account.
func (a *App) Reveal(ctx context.Context, args []string) error {
	if !a.isUnlocked() {
		return common.ErrAccessDenied
	}
	id, err := a.idFrom(args, "Account id to reveal")
	if err != nil {
		return err
	}
	pw, err := a.vault.RevealPassword(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Password: %s\n", pw)
	return nil
}
