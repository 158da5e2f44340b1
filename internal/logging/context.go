package logging

import "context"

type runIDKey struct{}

// WithRunID returns a context whose log lines carry run_id=id.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID reports the run id stored by WithRunID, if any.
func RunID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// withContext prepends context-scoped attributes to args.
func withContext(ctx context.Context, args []any) []any {
	id, ok := RunID(ctx)
	if !ok {
		return args
	}
	return append([]any{"run_id", id}, args...)
}
