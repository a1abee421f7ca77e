package storage

import (
	"errors"
	"time"
)

// ErrUnavailable wraps any failure of the underlying persistence medium.
// Callers must not arm a timer for a reminder whose insert failed with it.
var ErrUnavailable = errors.New("storage unavailable")

// Config configures storage.
type Config struct {
	Path        string
	BusyTimeout time.Duration // 0 means default
}

// Reminder is the sole persisted entity: one chat, one verbatim text, one
// absolute due time. The id is assigned on insert and never reused.
type Reminder struct {
	ID     int64
	ChatID int64
	Text   string
	DueAt  time.Time
}
