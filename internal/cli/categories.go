package cli

import (
	"context"
	"fmt"

	"github.com/devberatzengin/LoclLock/internal/common"
)

func (a *App) Categories(ctx context.Context) error {
	stats, total, err := a.vault.ListCategories(ctx)
	if err != nil {
		return err
	}
	printCategories(a.out, stats, total)
	return nil
}

func (a *App) AddCategory(ctx context.Context) error {
	if !a.isUnlocked() {
		return common.ErrAccessDenied
	}
	name, err := getSimpleText(a.reader, "Category name", a.out)
	if err != nil {
		return err
	}
	icon, err := getSimpleText(a.reader, "Icon (optional)", a.out)
	if err != nil {
		return err
	}

	id, err := a.vault.AddCategory(ctx, name, icon)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, successText(fmt.Sprintf("Saved category #%d", id)))
	return nil
}

// DeleteCategory removes a category; its accounts become uncategorized.
func (a *App) DeleteCategory(ctx context.Context, args []string) error {
	if !a.isUnlocked() {
		return common.ErrAccessDenied
	}
	id, err := a.idFrom(args, "Category id to delete")
	if err != nil {
		return err
	}
	ok, err := getConfirmation(a.reader,
		fmt.Sprintf("Delete category #%d? Its accounts become uncategorized.", id), a.out)
	if err != nil || !ok {
		return err
	}

	removed, err := a.vault.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(a.out, warnText(fmt.Sprintf("No category #%d", id)))
		return nil
	}
	fmt.Fprintln(a.out, successText(fmt.Sprintf("Deleted category #%d", id)))
	return nil
}
