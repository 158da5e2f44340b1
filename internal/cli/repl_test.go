package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	unlocked bool
	failWith error

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.failWith
}

func (f *fakeExec) isUnlocked() bool { return f.unlocked }
func (f *fakeExec) Unlock(context.Context) error {
	f.unlocked = true
	return f.record("unlock", nil)
}
func (f *fakeExec) Lock(context.Context) error {
	f.unlocked = false
	return f.record("lock", nil)
}
func (f *fakeExec) Add(context.Context) error { return f.record("add", nil) }
func (f *fakeExec) Update(_ context.Context, args []string) error {
	return f.record("update", args)
}
func (f *fakeExec) Delete(_ context.Context, args []string) error {
	return f.record("delete", args)
}
func (f *fakeExec) List(_ context.Context, args []string) error { return f.record("list", args) }
func (f *fakeExec) Search(_ context.Context, args []string) error {
	return f.record("search", args)
}
func (f *fakeExec) Show(_ context.Context, args []string) error { return f.record("show", args) }
func (f *fakeExec) Reveal(_ context.Context, args []string) error {
	return f.record("reveal", args)
}
func (f *fakeExec) Categories(context.Context) error  { return f.record("categories", nil) }
func (f *fakeExec) AddCategory(context.Context) error { return f.record("addcat", nil) }
func (f *fakeExec) DeleteCategory(_ context.Context, args []string) error {
	return f.record("delcat", args)
}
func (f *fakeExec) ChangePassword(context.Context) error { return f.record("passwd", nil) }
func (f *fakeExec) Logs(_ context.Context, args []string) error { return f.record("logs", args) }

func reader(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, reader(
		"help",
		"unlock",
		"add",
		"update 3",
		"delete 4",
		"l",
		"list 2",
		"search git 2",
		"show 5",
		"reveal 5",
		"",
		"categories",
		"addcat",
		"delcat 2",
		"passwd",
		"logs 10",
		"foobar",
		"lock",
		"exit",
		"add",
	))

	assert.Equal(t, []string{
		"unlock", "add", "update", "delete", "list", "list", "search", "show", "reveal",
		"categories", "addcat", "delcat", "passwd", "logs", "lock",
	}, exec.calls)
	assert.Equal(t, []string{"3"}, exec.args[2])
	assert.Equal(t, []string{"git", "2"}, exec.args[6])
	assert.Empty(t, exec.args[4])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{unlocked: true}
	runREPL(context.Background(), exec, func() string { return "s" }, reader("show 1"))

	assert.Equal(t, []string{"show"}, exec.calls)
}

func TestRunREPL_ErrorsAreReportedAndLoopContinues(t *testing.T) {
	var printed []string
	origLn, orig := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) {
		for _, v := range a {
			if s, ok := v.(string); ok {
				printed = append(printed, s)
			}
		}
		return 0, nil
	}
	printFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn, printFn = origLn, orig })

	exec := &fakeExec{failWith: common.ErrAccessDenied}
	runREPL(context.Background(), exec, func() string { return "" }, reader("list", "show 1", "quit"))

	assert.Equal(t, []string{"list", "show"}, exec.calls)
	assert.Contains(t, printed, "Vault is locked, run 'unlock' first")
}
