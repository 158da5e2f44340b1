package cli

import (
	"context"
	"fmt"

	"github.com/devberatzengin/LoclLock/internal/buildinfo"
)

func (a *App) getStatus() string {
	if a.isUnlocked() {
		return fmt.Sprintf("(%s)", successText("unlocked"))
	}
	return fmt.Sprintf("(%s)", warnText("locked"))
}

// Root greets the user, runs first-time setup or an unlock attempt, then
// hands over to the REPL. A failed unlock still enters the REPL locked.
func (a *App) Root(ctx context.Context) {
	printlnFn(headerText(fmt.Sprintf("LoclLock %s (type 'help' for commands)", buildinfo.Version())))

	first, err := a.vault.IsFirstRun(ctx)
	if err != nil {
		printlnFn(describeErr(err))
		return
	}
	if first {
		if err := a.Setup(ctx); err != nil {
			printlnFn(describeErr(err))
			return
		}
	} else if err := a.Unlock(ctx); err != nil {
		printlnFn(describeErr(err))
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
