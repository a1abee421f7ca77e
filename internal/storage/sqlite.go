package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	logx "remindbot/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// dueAt is stored as unix nanoseconds: lossless round-trip, so exact-match
// deletion of one half of a derived evening/morning pair is reliable.
type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteStore{db: db, log: log}

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) Insert(ctx context.Context, chatID int64, text string, dueAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders(chat_id, text, due_at) VALUES(?,?,?)`,
		chatID, text, dueAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert: %v", ErrUnavailable, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: insert id: %v", ErrUnavailable, err)
	}
	s.log.Debug("reminder inserted",
		logx.Int64("id", id), logx.Int64("chat_id", chatID), logx.Time("due_at", dueAt))
	return id, nil
}

func (s *sqliteStore) DeleteMatching(ctx context.Context, chatID int64, text string, dueAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE chat_id = ? AND text = ? AND due_at = ?`,
		chatID, text, dueAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("%w: delete: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *sqliteStore) ListFuture(ctx context.Context, now time.Time) ([]Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, text, due_at FROM reminders WHERE due_at > ? ORDER BY due_at`,
		now.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list future: %v", ErrUnavailable, err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *sqliteStore) ListByChat(ctx context.Context, chatID int64) ([]Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, text, due_at FROM reminders WHERE chat_id = ? ORDER BY due_at`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list by chat: %v", ErrUnavailable, err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *sqliteStore) CountFuture(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reminders WHERE due_at > ?`, now.UnixNano(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: count: %v", ErrUnavailable, err)
	}
	return n, nil
}

func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var out []Reminder
	for rows.Next() {
		var r Reminder
		var due int64
		if err := rows.Scan(&r.ID, &r.ChatID, &r.Text, &due); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrUnavailable, err)
		}
		r.DueAt = time.Unix(0, due)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrUnavailable, err)
	}
	return out, nil
}
