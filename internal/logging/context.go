package logging

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

type runIDKey struct{}

// FieldRunID is the log field carrying the run ID.
const FieldRunID = "run_id"

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// ContextWithRunID tags ctx with a run ID.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run ID in ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// GetOrGenerateRunID returns the run ID in ctx or a new ULID.
func GetOrGenerateRunID(ctx context.Context) string {
	if id := RunIDFromContext(ctx); id != "" {
		return id
	}
	return ulid.Make().String()
}

// RunIDHook adds run_id to events logged with Ctx(ctx).
type RunIDHook struct{}

// Run implements zerolog.Hook.
func (RunIDHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	if id := RunIDFromContext(e.GetCtx()); id != "" {
		e.Str(FieldRunID, id)
	}
}
