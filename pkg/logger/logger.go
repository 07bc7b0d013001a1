// Package logger builds the engine's structured loggers and carries
// per-operation identity through context: the request ID minted at the HTTP
// edge and the user a store operation acts for, so every layer logs the same
// correlation fields.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

type contextKey int

const (
	metaKey contextKey = iota
	loggerKey
)

// Meta is the identity attached to a unit of work.
type Meta struct {
	RequestID string
	UserID    string
}

// New creates the service logger writing JSON to stdout.
func New(serviceName, level string) *slog.Logger {
	return NewWithWriter(serviceName, level, os.Stdout)
}

// NewWithWriter is New with an explicit destination, for tests. Source
// locations are recorded only at debug level.
func NewWithWriter(serviceName, level string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	})
	return slog.New(handler).With(slog.String("service", serviceName))
}

// parseLevel maps a configured level name to a slog level. Unknown names
// fall back to info so a typo in LOG_LEVEL never silences the logger.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithMeta merges the non-empty fields of m into the identity already in
// ctx. The HTTP edge sets RequestID; store operations set UserID once the
// session resolves, and both survive into detached persist contexts.
func WithMeta(ctx context.Context, m Meta) context.Context {
	cur := MetaFromContext(ctx)
	if m.RequestID != "" {
		cur.RequestID = m.RequestID
	}
	if m.UserID != "" {
		cur.UserID = m.UserID
	}
	return context.WithValue(ctx, metaKey, cur)
}

// MetaFromContext returns the identity in ctx, zero when none was attached.
func MetaFromContext(ctx context.Context) Meta {
	m, _ := ctx.Value(metaKey).(Meta)
	return m
}

// NewContext stores a request-scoped logger in ctx.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request-scoped logger stored in ctx, or
// slog.Default() when none is stored.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithContext stamps the logger with the identity in ctx: request_id and
// user_id from the Meta, plus trace_id and span_id when a valid span is
// present.
func WithContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	m := MetaFromContext(ctx)
	if m.RequestID != "" {
		l = l.With(slog.String("request_id", m.RequestID))
	}
	if m.UserID != "" {
		l = l.With(slog.String("user_id", m.UserID))
	}

	if spanCtx := trace.SpanFromContext(ctx).SpanContext(); spanCtx.IsValid() {
		l = l.With(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return l
}
