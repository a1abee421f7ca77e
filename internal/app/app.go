// Package app wires the bot together: config, logging, storage, transport,
// the reminder core, and recovery of pending reminders at startup.
package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"remindbot/internal/config"
	"remindbot/internal/dateparse"
	"remindbot/internal/reminder"
	rtsup "remindbot/internal/runtime/supervisor"
	"remindbot/internal/services/heartbeat"
	"remindbot/internal/storage"
	kit "remindbot/internal/transport"
	"remindbot/internal/transport/telegram/adapter"
	"remindbot/internal/transport/telegram/router"
	logx "remindbot/pkg/logx"
)

type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	store   storage.Store
	adapter *adapter.Adapter
	sched   *reminder.Scheduler
	router  *router.Router
	hb      *heartbeat.Service

	sup *rtsup.Supervisor
}

func New(cfgPath string) (*App, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logSvc, log := logx.New(logConfig(cfg.Logging), nil)
	mgr.SetLogger(log.With(logx.String("comp", "config")))

	token := strings.TrimSpace(os.Getenv("BOT_TOKEN"))
	if token == "" {
		token = strings.TrimSpace(cfg.Telegram.Token)
	}
	ad, err := adapter.New(adapter.Config{
		Token:       token,
		PollTimeout: config.ParseDuration(cfg.Telegram.PollTimeout, 10*time.Second),
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		_ = logSvc.Close()
		return nil, err
	}
	logSvc.SetSender(ad)
	if cfg.Telegram.LogChatID != 0 {
		logSvc.SetTelegramTarget(cfg.Telegram.LogChatID)
	}

	st, err := storage.Open(storage.Config{
		Path:        cfg.Storage.Path,
		BusyTimeout: config.ParseDuration(cfg.Storage.BusyTimeout, 0),
	}, log.With(logx.String("comp", "storage")))
	if err != nil {
		_ = logSvc.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	sched := reminder.NewScheduler(st, &chatSink{adapter: ad}, log.With(logx.String("comp", "scheduler")))

	parser := dateparse.New()
	svc := reminder.NewService(st, sched, parser.Parse, deriveConfig(cfg.Reminders), log.With(logx.String("comp", "reminder")))

	rt := router.New(ad, svc, log.With(logx.String("comp", "router")))
	hb := heartbeat.New(st, sched, log.With(logx.String("comp", "heartbeat")))

	return &App{
		cfgMgr:  mgr,
		logSvc:  logSvc,
		log:     log,
		store:   st,
		adapter: ad,
		sched:   sched,
		router:  rt,
		hb:      hb,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	a.sup = rtsup.New(ctx, rtsup.WithLogger(a.log.With(logx.String("comp", "app"))))

	if err := a.router.Start(ctx); err != nil {
		return fmt.Errorf("start router: %w", err)
	}

	// Recovery is the only mechanism that survives a restart: everything
	// still in the future gets a fresh timer on its persisted due time.
	if _, err := a.sched.RecoverAll(ctx, time.Now()); err != nil {
		return fmt.Errorf("recover reminders: %w", err)
	}

	cfg := a.cfgMgr.Get()
	if cfg != nil && cfg.Heartbeat.Enabled {
		if err := a.hb.Start(cfg.Heartbeat.Schedule); err != nil {
			return fmt.Errorf("start heartbeat: %w", err)
		}
	}

	// Hot-reload: only the logging block is applied at runtime.
	sub := a.cfgMgr.Subscribe(4)
	a.sup.Go0("config.apply", func(c context.Context) {
		for {
			select {
			case <-c.Done():
				return
			case next := <-sub:
				if next == nil {
					continue
				}
				a.logSvc.Apply(logConfig(next.Logging))
				a.log.Info("logging config applied", logx.String("level", next.Logging.Level))
			}
		}
	})
	a.sup.Go("config.watch", a.cfgMgr.Watch)

	a.log.Info("bot started")
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	a.log.Info("stopping")
	if a.hb != nil {
		a.hb.Stop()
	}
	// Timers first: records stay in the store for the next recovery pass.
	a.sched.Stop()
	if a.sup != nil {
		a.sup.Cancel()
		_ = a.sup.Wait(ctx)
	}
	_ = a.router.Stop(ctx)
	_ = a.store.Close()
	return a.logSvc.Close()
}

// chatSink adapts the transport to the scheduler's delivery port.
type chatSink struct {
	adapter kit.Adapter
}

func (s *chatSink) Deliver(ctx context.Context, chatID int64, text string) error {
	_, err := s.adapter.SendText(ctx, kit.ChatTarget{ChatID: chatID},
		"🔔 Напоминание: "+text, &kit.SendOptions{DisablePreview: true})
	return err
}

func logConfig(c config.LoggingConfig) logx.Config {
	return logx.Config{
		Level:   c.Level,
		Console: c.Console,
		File:    logx.FileConfig{Enabled: c.File.Enabled, Path: c.File.Path},
		Telegram: logx.TelegramConfig{
			Enabled:    c.Telegram.Enabled,
			MinLevel:   c.Telegram.MinLevel,
			RatePerSec: c.Telegram.RatePerSec,
		},
	}
}

func deriveConfig(c config.RemindersConfig) reminder.DeriveConfig {
	var out reminder.DeriveConfig
	if h, m, err := parseHHMM(c.MorningTime); err == nil {
		out.MorningHour, out.MorningMinute = h, m
	}
	if h, m, err := parseHHMM(c.EveningTime); err == nil {
		out.EveningHour, out.EveningMinute = h, m
	}
	return out
}

func parseHHMM(s string) (hour int, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}
