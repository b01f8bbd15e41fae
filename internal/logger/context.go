package logger

import "context"

type ctxKey int

const (
	runIDKey ctxKey = iota
	stageKey
)

// WithRunID tags every message logged with ctx with the given run ID.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// WithStage tags every message logged with ctx with a pipeline stage.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey, stage)
}

// RunID returns the run ID stored in ctx, if any.
func RunID(ctx context.Context) string {
	v, _ := ctx.Value(runIDKey).(string)
	return v
}

// Stage returns the pipeline stage stored in ctx, if any.
func Stage(ctx context.Context) string {
	v, _ := ctx.Value(stageKey).(string)
	return v
}
