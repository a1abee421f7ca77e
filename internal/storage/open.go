package storage

import (
	"context"
	"time"

	logx "remindbot/pkg/logx"
)

// Store is the persistence API used by the reminder core.
//
// Every call is a single self-contained transaction; no caller-held lock ever
// spans multiple calls.
type Store interface {
	// Insert appends a new record and returns its id.
	Insert(ctx context.Context, chatID int64, text string, dueAt time.Time) (int64, error)

	// DeleteMatching removes the record(s) whose three fields match exactly.
	// Deleting a record that does not exist is not an error: a crash between
	// fire and delete must be safe to retry.
	DeleteMatching(ctx context.Context, chatID int64, text string, dueAt time.Time) error

	// ListFuture returns every record whose due time is strictly after now.
	// Records at or before now are silently excluded.
	ListFuture(ctx context.Context, now time.Time) ([]Reminder, error)

	// ListByChat returns all records belonging to a chat, ordered by due time
	// for display.
	ListByChat(ctx context.Context, chatID int64) ([]Reminder, error)

	// CountFuture reports how many records are still pending.
	CountFuture(ctx context.Context, now time.Time) (int, error)

	Close() error
}

// Open initializes the SQLite store at cfg.Path.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	return openSQLite(cfg, log)
}
