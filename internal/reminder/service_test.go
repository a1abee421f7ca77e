package reminder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"remindbot/internal/storage"
	logx "remindbot/pkg/logx"
)

func newTestService(store storage.Store, sched *Scheduler, parse ParseFunc) *Service {
	return NewService(store, sched, parse, DeriveConfig{}, logx.Nop())
}

func TestSubmitDerivedPair(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	sched := NewScheduler(store, &recordSink{}, logx.Nop())
	defer sched.Stop()

	// Event two days out at 20:00 so both derived timers stay pending for
	// the duration of the test.
	now := time.Now()
	eventDay := now.AddDate(0, 0, 2)
	event := time.Date(eventDay.Year(), eventDay.Month(), eventDay.Day(), 20, 0, 0, 0, now.Location())
	parse := func(string, time.Time) (time.Time, bool) { return event, true }

	svc := newTestService(store, sched, parse)
	sub, err := svc.Submit(context.Background(), 42, "завтра встреча в 20:00", now)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(sub.Times) != 2 {
		t.Fatalf("scheduled %d timestamps, want 2", len(sub.Times))
	}
	wantEvening := event.AddDate(0, 0, -1)
	if !sub.Times[0].Equal(wantEvening) || !sub.Times[1].Equal(event) {
		t.Fatalf("Times = %v, want [%v %v]", sub.Times, wantEvening, event)
	}
	if sched.Armed() != 2 {
		t.Fatalf("Armed() = %d, want 2", sched.Armed())
	}

	rows, err := svc.List(context.Background(), 42)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("stored %d records, want 2", len(rows))
	}
	for _, r := range rows {
		if r.Text != "завтра встреча в 20:00" {
			t.Fatalf("text not stored verbatim: %q", r.Text)
		}
	}

	// Confirmation enumerates both timestamps.
	for _, ts := range sub.Times {
		if !strings.Contains(sub.Confirmation, ts.Format(dueFormat)) {
			t.Fatalf("confirmation %q missing %v", sub.Confirmation, ts)
		}
	}
}

func TestSubmitParseFailure(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	sched := NewScheduler(store, &recordSink{}, logx.Nop())
	defer sched.Stop()

	parse := func(string, time.Time) (time.Time, bool) { return time.Time{}, false }
	svc := newTestService(store, sched, parse)

	_, err := svc.Submit(context.Background(), 1, "gibberish", time.Now())
	if !errors.Is(err, ErrParseFailure) {
		t.Fatalf("err = %v, want ErrParseFailure", err)
	}
	if store.len() != 0 || sched.Armed() != 0 {
		t.Fatal("parse failure must not mutate state")
	}
}

func TestSubmitEmptyText(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	sched := NewScheduler(store, &recordSink{}, logx.Nop())
	defer sched.Stop()

	called := false
	parse := func(string, time.Time) (time.Time, bool) { called = true; return time.Time{}, false }
	svc := newTestService(store, sched, parse)

	if _, err := svc.Submit(context.Background(), 1, "   ", time.Now()); !errors.Is(err, ErrParseFailure) {
		t.Fatalf("err = %v, want ErrParseFailure", err)
	}
	if called {
		t.Fatal("parser should not run on empty text")
	}
}

func TestSubmitPastDate(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	sched := NewScheduler(store, &recordSink{}, logx.Nop())
	defer sched.Stop()

	now := time.Now()
	parse := func(string, time.Time) (time.Time, bool) { return now.Add(-time.Hour), true }
	svc := newTestService(store, sched, parse)

	_, err := svc.Submit(context.Background(), 1, "yesterday tea", now)
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("err = %v, want ErrPastDate", err)
	}
	if store.len() != 0 || sched.Armed() != 0 {
		t.Fatal("past date must not mutate state")
	}
}

func TestSubmitStorageUnavailableArmsNothing(t *testing.T) {
	t.Parallel()
	store := &memStore{fail: true}
	sched := NewScheduler(store, &recordSink{}, logx.Nop())
	defer sched.Stop()

	now := time.Now()
	parse := func(string, time.Time) (time.Time, bool) { return now.AddDate(0, 0, 2), true }
	svc := newTestService(store, sched, parse)

	_, err := svc.Submit(context.Background(), 1, "doomed", now)
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("err = %v, want storage.ErrUnavailable", err)
	}
	// An armed timer without a backing record would be invisible to
	// recovery; none may exist.
	if sched.Armed() != 0 {
		t.Fatalf("Armed() = %d, want 0", sched.Armed())
	}
}
