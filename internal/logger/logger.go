// Package logger wires log/slog for the dicehook binaries and carries a
// per-invocation id through context.
package logger

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"dicehook/internal/version"
)

type ctxKey string

const invocationIDKey ctxKey = "invocationID"

// Init installs a default slog logger writing to w.
func Init(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	if cfg.IsJSON() {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	l := slog.New(h).With(
		slog.String(AttrService, ServiceName),
		slog.String(AttrVersion, version.String()),
	)
	slog.SetDefault(l)
	return l
}

// NewInvocationID creates a new id for one CLI or hook run.
func NewInvocationID() string {
	return uuid.NewString()
}

// WithInvocationID returns a context carrying id.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey, id)
}

// InvocationID extracts the invocation id from ctx, if present.
func InvocationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(invocationIDKey).(string)
	return id, ok
}

// FromContext returns the default logger with the invocation id attached when present.
func FromContext(ctx context.Context) *slog.Logger {
	if id, ok := InvocationID(ctx); ok {
		return slog.Default().With(AttrInvocationID, id)
	}
	return slog.Default()
}
