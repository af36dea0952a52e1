// Package logging holds the zerolog helpers shared by quill packages: component
// loggers and per-run context fields.
package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a logger tagged with the component name under "cmp".
// It derives from the global logger at call time, so loggers created after
// the CLI Before hook write to the configured file.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

type fieldsKey struct{}

// fields are the values ContextHook copies onto log events.
type fields struct {
	sessionID string
	document  string
}

func fromContext(ctx context.Context) fields {
	if ctx == nil {
		return fields{}
	}
	f, _ := ctx.Value(fieldsKey{}).(fields)
	return f
}

// WithSessionID tags ctx with the ID of this quill run.
func WithSessionID(ctx context.Context, id string) context.Context {
	f := fromContext(ctx)
	f.sessionID = id
	return context.WithValue(ctx, fieldsKey{}, f)
}

// WithDocument tags ctx with the path of the document being edited.
func WithDocument(ctx context.Context, path string) context.Context {
	f := fromContext(ctx)
	f.document = path
	return context.WithValue(ctx, fieldsKey{}, f)
}

// SessionID returns the run ID stored in ctx, or "".
func SessionID(ctx context.Context) string { return fromContext(ctx).sessionID }

// Document returns the document path stored in ctx, or "".
func Document(ctx context.Context) string { return fromContext(ctx).document }

// ContextHook adds session_id and document to events logged with Ctx(ctx).
type ContextHook struct{}

// Run implements zerolog.Hook.
func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	f := fromContext(e.GetCtx())
	if f.sessionID != "" {
		e.Str("session_id", f.sessionID)
	}
	if f.document != "" {
		e.Str("document", f.document)
	}
}
