package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/devberatzengin/LoclLock/internal/common"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

var errWrongPassword = common.NewValidationError("master password", "is wrong")

// readNewPassword asks for a new master password twice.
func (a *App) readNewPassword(prompt string) ([]byte, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return nil, err
	}
	again, err := getPassword("Repeat", a.out)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(again)

	if !bytes.Equal(pw, again) {
		common.WipeByteArray(pw)
		return nil, common.NewValidationError("master password", "entries do not match")
	}
	return pw, nil
}

// Setup creates the master key on first run.
func (a *App) Setup(ctx context.Context) error {
	fmt.Fprintln(a.out, "No vault found. Choose a master password; it cannot be recovered if lost.")
	pw, err := a.readNewPassword("New master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if err := a.vault.Setup(ctx, pw); err != nil {
		return err
	}
	fmt.Fprintln(a.out, successText("Vault created and unlocked"))
	return nil
}

// Unlock prompts for the master password.
func (a *App) Unlock(ctx context.Context) error {
	if a.isUnlocked() {
		fmt.Fprintln(a.out, "Vault is already unlocked")
		return nil
	}

	pw, err := getPassword("Master password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	ok, err := a.vault.Unlock(ctx, pw)
	if err != nil {
		return err
	}
	if !ok {
		return errWrongPassword
	}
	fmt.Fprintln(a.out, successText("Vault unlocked"))
	return nil
}

func (a *App) Lock(ctx context.Context) error {
	a.vault.Lock(ctx)
	fmt.Fprintln(a.out, "Vault locked")
	return nil
}

// ChangePassword re-encrypts every secret under a key derived from a new
// master password.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isUnlocked() {
		return common.ErrAccessDenied
	}

	oldPw, err := getPassword("Current master password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPw)

	newPw, err := a.readNewPassword("New master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPw)

	if err := a.vault.ChangeMasterPassword(ctx, oldPw, newPw); err != nil {
		return err
	}
	fmt.Fprintln(a.out, successText("Master password changed"))
	return nil
}

// Logs prints the newest audit events; args may hold the count.
func (a *App) Logs(ctx context.Context, args []string) error {
	limit := 20
	if len(args) > 0 {
		n, err := parseID("count", args[0])
		if err != nil || n == 0 {
			return common.NewValidationError("count", "must be a positive number")
		}
		limit = int(n)
	}

	entries, err := a.vault.RecentLogs(ctx, limit)
	if err != nil {
		return err
	}
	printLogs(a.out, entries)
	return nil
}
