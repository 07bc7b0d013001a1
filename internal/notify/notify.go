// Package notify is the notification side channel between the stores and the
// consumer surfaces: the Go counterpart of the storefront's toast stream.
// Store operations report successes, informational no-ops and remote-write
// failures here instead of returning transport errors to their callers.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// Level classifies a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Notification is a single user-facing message.
type Notification struct {
	Level   Level
	Message string
	Time    time.Time
}

// Notifier receives notifications. Implementations must not block the
// calling store operation.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Stream is a buffered in-process Notifier that consumer surfaces range
// over. When the buffer is full the oldest notification is dropped, so a
// slow or absent consumer never blocks a store mutation.
type Stream struct {
	ch chan Notification
}

// NewStream creates a Stream with the given buffer size.
func NewStream(buffer int) *Stream {
	if buffer < 1 {
		buffer = 1
	}
	return &Stream{ch: make(chan Notification, buffer)}
}

// Notify enqueues the notification, evicting the oldest entry if the buffer
// is full.
func (s *Stream) Notify(_ context.Context, n Notification) {
	if n.Time.IsZero() {
		n.Time = time.Now().UTC()
	}
	for {
		select {
		case s.ch <- n:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

// C returns the receive side of the stream.
func (s *Stream) C() <-chan Notification {
	return s.ch
}

// Logger is a Notifier that writes notifications to a slog.Logger. Useful as
// a fallback when no consumer surface is attached.
type Logger struct {
	log *slog.Logger
}

// NewLogger creates a logging Notifier.
func NewLogger(log *slog.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Notify(ctx context.Context, n Notification) {
	attrs := []any{slog.String("level", string(n.Level))}
	switch n.Level {
	case LevelError:
		l.log.ErrorContext(ctx, n.Message, attrs...)
	case LevelWarn:
		l.log.WarnContext(ctx, n.Message, attrs...)
	default:
		l.log.InfoContext(ctx, n.Message, attrs...)
	}
}

// Info sends an informational notification.
func Info(ctx context.Context, n Notifier, message string) {
	n.Notify(ctx, Notification{Level: LevelInfo, Message: message})
}

// Success sends a success notification.
func Success(ctx context.Context, n Notifier, message string) {
	n.Notify(ctx, Notification{Level: LevelSuccess, Message: message})
}

// Warn sends a warning notification.
func Warn(ctx context.Context, n Notifier, message string) {
	n.Notify(ctx, Notification{Level: LevelWarn, Message: message})
}

// Error sends an error notification.
func Error(ctx context.Context, n Notifier, message string) {
	n.Notify(ctx, Notification{Level: LevelError, Message: message})
}
