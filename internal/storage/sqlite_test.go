package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	logx "remindbot/pkg/logx"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	st, err := Open(Config{Path: filepath.Join(t.TempDir(), "reminders.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestInsertThenListFuture(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	due := now.Add(2 * time.Hour)

	id, err := st.Insert(ctx, 42, "buy milk", due)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	got, err := st.ListFuture(ctx, now)
	if err != nil {
		t.Fatalf("ListFuture: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListFuture returned %d records, want 1", len(got))
	}
	r := got[0]
	if r.ID != id || r.ChatID != 42 || r.Text != "buy milk" || !r.DueAt.Equal(due) {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestListFutureExcludesPastAndBoundary(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	if _, err := st.Insert(ctx, 1, "past", now.Add(-time.Hour)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := st.Insert(ctx, 1, "exactly now", now); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := st.Insert(ctx, 1, "future", now.Add(time.Hour)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := st.ListFuture(ctx, now)
	if err != nil {
		t.Fatalf("ListFuture: %v", err)
	}
	if len(got) != 1 || got[0].Text != "future" {
		t.Fatalf("ListFuture = %+v, want only the strictly-future record", got)
	}
}

func TestDeleteMatchingIdempotent(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	due := now.Add(time.Hour)
	if _, err := st.Insert(ctx, 7, "call mom", due); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := st.DeleteMatching(ctx, 7, "call mom", due); err != nil {
		t.Fatalf("first DeleteMatching: %v", err)
	}
	got, err := st.ListByChat(ctx, 7)
	if err != nil {
		t.Fatalf("ListByChat: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected zero records after delete, got %d", len(got))
	}

	// Second delete of the same triple must not be an error.
	if err := st.DeleteMatching(ctx, 7, "call mom", due); err != nil {
		t.Fatalf("second DeleteMatching: %v", err)
	}
}

func TestDeleteMatchingKeysOnFullTriple(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	// A derived evening/morning pair: same chat and text, different due times.
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	evening := now.Add(11 * time.Hour)
	morning := now.Add(22 * time.Hour)
	if _, err := st.Insert(ctx, 9, "dentist", evening); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := st.Insert(ctx, 9, "dentist", morning); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := st.DeleteMatching(ctx, 9, "dentist", evening); err != nil {
		t.Fatalf("DeleteMatching: %v", err)
	}
	got, err := st.ListByChat(ctx, 9)
	if err != nil {
		t.Fatalf("ListByChat: %v", err)
	}
	if len(got) != 1 || !got[0].DueAt.Equal(morning) {
		t.Fatalf("expected only the morning record to survive, got %+v", got)
	}
}

func TestListByChatOrderedByDue(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	if _, err := st.Insert(ctx, 3, "later", base.Add(3*time.Hour)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := st.Insert(ctx, 3, "sooner", base.Add(time.Hour)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := st.Insert(ctx, 4, "other chat", base.Add(2*time.Hour)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := st.ListByChat(ctx, 3)
	if err != nil {
		t.Fatalf("ListByChat: %v", err)
	}
	if len(got) != 2 || got[0].Text != "sooner" || got[1].Text != "later" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestCountFuture(t *testing.T) {
	t.Parallel()
	st := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	if _, err := st.Insert(ctx, 5, "a", now.Add(time.Minute)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := st.Insert(ctx, 5, "b", now.Add(-time.Minute)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	n, err := st.CountFuture(ctx, now)
	if err != nil {
		t.Fatalf("CountFuture: %v", err)
	}
	if n != 1 {
		t.Fatalf("CountFuture = %d, want 1", n)
	}
}
