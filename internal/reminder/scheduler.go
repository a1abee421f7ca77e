package reminder

import (
	"context"
	"sync"
	"time"

	"remindbot/internal/storage"
	logx "remindbot/pkg/logx"
)

// Sink delivers a fired reminder to its chat. Implemented by the Telegram
// transport; tests substitute fakes.
type Sink interface {
	Deliver(ctx context.Context, chatID int64, text string) error
}

const deliverTimeout = 30 * time.Second

// Scheduler maintains exactly one pending timer per live reminder. On expiry
// it delivers the reminder and then deletes the backing record, so firing and
// deletion form a single logical transition.
//
// There is no cancellation path: a timer disappears only by firing or by the
// process stopping. One timer per reminder is an accepted resource cost; a
// reminder a year out keeps a timer open for a year.
type Scheduler struct {
	store storage.Store
	sink  Sink
	log   logx.Logger

	mu      sync.Mutex
	timers  map[int64]*time.Timer // keyed by reminder id
	stopped bool
}

func NewScheduler(store storage.Store, sink Sink, log logx.Logger) *Scheduler {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Scheduler{
		store:  store,
		sink:   sink,
		log:    log,
		timers: map[int64]*time.Timer{},
	}
}

// Arm begins a timer for the reminder's due time. A due time at or before now
// fires immediately. The caller must have persisted the record first: an
// armed timer without a backing row would be invisible to recovery.
func (s *Scheduler) Arm(r storage.Reminder) {
	delay := time.Until(r.DueAt)
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	local := r
	s.timers[local.ID] = time.AfterFunc(delay, func() { s.fire(local) })
	s.mu.Unlock()

	s.log.Debug("reminder armed",
		logx.Int64("id", r.ID), logx.Int64("chat_id", r.ChatID),
		logx.Time("due_at", r.DueAt), logx.Duration("in", delay))
}

func (s *Scheduler) fire(r storage.Reminder) {
	// A timer whose entry is gone was stopped during shutdown; ignore the
	// stale callback.
	s.mu.Lock()
	if _, ok := s.timers[r.ID]; !ok || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.timers, r.ID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	if err := s.sink.Deliver(ctx, r.ChatID, r.Text); err != nil {
		// Fatal to this reminder: no retry, no requeue. The record stays in
		// the store and will be silently excluded by recovery once its due
		// time is in the past.
		s.log.Error("reminder delivery failed; record kept",
			logx.Int64("id", r.ID), logx.Int64("chat_id", r.ChatID),
			logx.Time("due_at", r.DueAt), logx.Err(err))
		return
	}

	if err := s.store.DeleteMatching(ctx, r.ChatID, r.Text, r.DueAt); err != nil {
		// Delivered but not deleted; DeleteMatching is idempotent, so the
		// next recovery pass cleaning it up would be safe if it ever ran.
		s.log.Error("reminder delivered but delete failed",
			logx.Int64("id", r.ID), logx.Err(err))
		return
	}

	s.log.Info("reminder delivered",
		logx.Int64("id", r.ID), logx.Int64("chat_id", r.ChatID), logx.Time("due_at", r.DueAt))
}

// RecoverAll arms a timer for every record the store reports as still future.
// This is the only mechanism that survives a restart.
//
// Known limitation, kept on purpose: a reminder whose due time fell while the
// process was down is neither delivered nor removed.
func (s *Scheduler) RecoverAll(ctx context.Context, now time.Time) (int, error) {
	pending, err := s.store.ListFuture(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, r := range pending {
		s.Arm(r)
	}
	s.log.Info("reminders recovered", logx.Int("count", len(pending)))
	return len(pending), nil
}

// Armed reports the number of currently pending timers.
func (s *Scheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels all pending timers. Records stay in the store and are
// re-armed by RecoverAll on the next start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, t := range s.timers {
		_ = t.Stop()
		delete(s.timers, id)
	}
}
