package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/devberatzengin/LoclLock/internal/models"
	"github.com/fatih/color"
)

var (
	successText = color.New(color.FgGreen).SprintFunc()
	warnText    = color.New(color.FgYellow).SprintFunc()
	errorText   = color.New(color.FgRed, color.Bold).SprintFunc()
	headerText  = color.New(color.Bold).SprintFunc()
)

// describeErr renders a handler error for the user. Recoverable errors are
// shown as warnings; everything else is an error.
func describeErr(err error) string {
	switch {
	case errors.Is(err, common.ErrAccessDenied):
		return warnText("Vault is locked, run 'unlock' first")
	case errors.Is(err, common.ErrRotationAborted):
		return errorText("Master key change rolled back, nothing was changed: " + err.Error())
	case common.IsRecoverable(err):
		return warnText(err.Error())
	default:
		return errorText("Error: " + err.Error())
	}
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func categoryLabel(id int64) string {
	if id == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", id)
}

func printAccounts(w io.Writer, accounts []models.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(w, "No accounts")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerText("ID\tSITE\tUSERNAME\tCATEGORY\tUPDATED"))
	for _, a := range accounts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.Site, a.Username, categoryLabel(a.CategoryID), formatTime(a.UpdatedAt))
	}
	_ = tw.Flush()
}

func printAccount(w io.Writer, a *models.Account) {
	fmt.Fprintf(w, "ID:       %d\n", a.ID)
	fmt.Fprintf(w, "Site:     %s\n", a.Site)
	fmt.Fprintf(w, "Username: %s\n", a.Username)
	fmt.Fprintf(w, "Category: %s\n", categoryLabel(a.CategoryID))
	fmt.Fprintf(w, "Created:  %s\n", formatTime(a.CreatedAt))
	fmt.Fprintf(w, "Updated:  %s\n", formatTime(a.UpdatedAt))
}

func printCategories(w io.Writer, stats []models.CategoryStat, total int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerText("ID\tNAME\tICON\tACCOUNTS"))
	for _, s := range stats {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", s.ID, s.Name, s.Icon, s.Accounts)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Total accounts: %d\n", total)
}

func levelText(l models.LogLevel) string {
	switch l {
	case models.LevelSecurity, models.LevelError:
		return errorText(string(l))
	case models.LevelWarning:
		return warnText(string(l))
	default:
		return string(l)
	}
}

func printLogs(w io.Writer, entries []models.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerText("TIME\tLEVEL\tACTION\tDETAIL"))
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", formatTime(e.CreatedAt), levelText(e.Level), e.Action, e.Detail)
	}
	_ = tw.Flush()
}
