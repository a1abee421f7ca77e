// Package heartbeat periodically logs how many reminders are pending, so an
// operator can spot drift between the store and the armed timers.
package heartbeat

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"remindbot/internal/reminder"
	"remindbot/internal/storage"
	logx "remindbot/pkg/logx"
)

const defaultSchedule = "@every 1h"

type Service struct {
	c     *cron.Cron
	store storage.Store
	sched *reminder.Scheduler
	log   logx.Logger
}

func New(store storage.Store, sched *reminder.Scheduler, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{store: store, sched: sched, log: log}
}

// Start registers the beat on the given cron spec ("@every 30m", "0 9 * * *").
func (s *Service) Start(spec string) error {
	if strings.TrimSpace(spec) == "" {
		spec = defaultSchedule
	}
	s.c = cron.New()
	if _, err := s.c.AddFunc(spec, s.beat); err != nil {
		return err
	}
	s.c.Start()
	s.log.Debug("heartbeat started", logx.String("schedule", spec))
	return nil
}

func (s *Service) beat() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := s.store.CountFuture(ctx, time.Now())
	if err != nil {
		s.log.Warn("heartbeat count failed", logx.Err(err))
		return
	}
	s.log.Info("heartbeat", logx.Int("pending", n), logx.Int("armed", s.sched.Armed()))
}

func (s *Service) Stop() {
	if s.c != nil {
		<-s.c.Stop().Done()
	}
}
