// Package notify defines the user-facing notifications produced while editing:
// search misses, read-only warnings, reload and save results.
package notify

import (
	"context"
	"time"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one message shown to the user.
type Notification struct {
	ID        int64
	Level     Level
	Message   string
	CreatedAt time.Time
}

// String formats n the way the CLI prints it to stderr.
func (n Notification) String() string {
	return string(n.Level) + ": " + n.Message
}

// Store keeps the notifications of one editing session so they can be
// reviewed after their toasts expire.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
}
