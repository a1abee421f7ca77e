package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"remindbot/internal/storage"
	logx "remindbot/pkg/logx"
)

// ParseFunc is the natural-language date parser collaborator. It returns the
// extracted timestamp and false when nothing parseable was found. A result of
// exactly midnight means the text carried no explicit time-of-day.
type ParseFunc func(text string, now time.Time) (time.Time, bool)

// Service is the command boundary: parse, derive, persist, arm.
type Service struct {
	store  storage.Store
	sched  *Scheduler
	parse  ParseFunc
	derive DeriveConfig
	log    logx.Logger
}

func NewService(store storage.Store, sched *Scheduler, parse ParseFunc, derive DeriveConfig, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{store: store, sched: sched, parse: parse, derive: derive, log: log}
}

// Submission is the successful result of Submit.
type Submission struct {
	// Text is the verbatim reminder content as stored.
	Text string
	// Times are the scheduled due timestamps, in firing order.
	Times []time.Time
	// Confirmation enumerates the scheduled timestamps for the user.
	Confirmation string
}

// Submit registers the reminder text for the chat. Each derived due time is
// persisted and armed individually; a storage failure aborts before arming
// the unpersisted remainder.
//
// Errors: ErrParseFailure, ErrPastDate, or a storage.ErrUnavailable-wrapped
// error.
func (s *Service) Submit(ctx context.Context, chatID int64, rawText string, now time.Time) (Submission, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return Submission{}, ErrParseFailure
	}

	parsed, ok := s.parse(text, now)
	if !ok {
		return Submission{}, ErrParseFailure
	}

	times, err := Derive(parsed, now, s.derive)
	if err != nil {
		return Submission{}, err
	}

	scheduled := times.All()
	for _, due := range scheduled {
		id, err := s.store.Insert(ctx, chatID, text, due)
		if err != nil {
			// Do not arm what was not persisted.
			return Submission{}, fmt.Errorf("persist reminder: %w", err)
		}
		s.sched.Arm(storage.Reminder{ID: id, ChatID: chatID, Text: text, DueAt: due})
	}

	s.log.Info("reminder submitted",
		logx.Int64("chat_id", chatID), logx.Int("timers", len(scheduled)),
		logx.Time("due_at", times.Morning))

	return Submission{
		Text:         text,
		Times:        scheduled,
		Confirmation: confirmation(scheduled),
	}, nil
}

// List returns all stored reminders for a chat, ordered by due time.
func (s *Service) List(ctx context.Context, chatID int64) ([]storage.Reminder, error) {
	return s.store.ListByChat(ctx, chatID)
}

const dueFormat = "02.01.2006 15:04"

func confirmation(times []time.Time) string {
	var b strings.Builder
	b.WriteString("Напомню:")
	for _, t := range times {
		b.WriteString("\n• ")
		b.WriteString(t.Format(dueFormat))
	}
	return b.String()
}
