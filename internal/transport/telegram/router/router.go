// Package router dispatches inbound Telegram updates to bot commands.
package router

import (
	"context"
	"errors"
	"strings"
	"time"

	"remindbot/internal/reminder"
	rtsup "remindbot/internal/runtime/supervisor"
	kit "remindbot/internal/transport"
	logx "remindbot/pkg/logx"
)

const (
	updateQueueSize = 64
	handleTimeout   = 30 * time.Second
)

type Router struct {
	adapter kit.Adapter
	svc     *reminder.Service
	log     logx.Logger

	updates chan kit.Update
	sup     *rtsup.Supervisor
}

func New(adapter kit.Adapter, svc *reminder.Service, log logx.Logger) *Router {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Router{
		adapter: adapter,
		svc:     svc,
		log:     log,
		updates: make(chan kit.Update, updateQueueSize),
	}
}

// Commands lists the bot's command menu entries.
func Commands() []kit.BotCommand {
	return []kit.BotCommand{
		{Command: "remind", Description: "Добавить напоминание: /remind завтра в 20:00 встреча"},
		{Command: "list", Description: "Показать напоминания"},
		{Command: "help", Description: "Справка"},
	}
}

func (r *Router) Start(ctx context.Context) error {
	r.sup = rtsup.New(ctx, rtsup.WithLogger(r.log.With(logx.String("comp", "router"))))

	if err := r.adapter.Start(ctx, r.updates); err != nil {
		return err
	}

	r.sup.Go0("dispatch", func(c context.Context) {
		for {
			select {
			case <-c.Done():
				return
			case up := <-r.updates:
				if up.Kind != kit.UpdateMessage || up.Message == nil {
					continue
				}
				r.handleMessage(c, up.Message)
			}
		}
	})

	// Best-effort: publish the command menu.
	if mu, ok := r.adapter.(kit.CommandMenuUpdater); ok {
		r.sup.Go0("menu.update", func(c context.Context) {
			mctx, cancel := context.WithTimeout(c, 15*time.Second)
			defer cancel()
			if err := mu.UpdateMenuCommands(mctx, Commands()); err != nil {
				r.log.Warn("command menu update failed", logx.Err(err))
			}
		})
	}

	return nil
}

func (r *Router) Stop(ctx context.Context) error {
	if r.sup != nil {
		r.sup.Cancel()
		_ = r.sup.Wait(ctx)
	}
	return r.adapter.Stop(ctx)
}

func (r *Router) handleMessage(ctx context.Context, m *kit.Message) {
	hctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	cmd, args := splitCommand(m.Text)
	switch cmd {
	case "/start":
		r.reply(hctx, m.ChatID, "Привет! Я твой бот-напоминалка.\nНапиши, о чём и когда напомнить, например: завтра в 20:00 встреча")
	case "/help":
		r.reply(hctx, m.ChatID, helpText)
	case "/list":
		r.handleList(hctx, m.ChatID)
	case "/remind":
		r.handleRemind(hctx, m.ChatID, args)
	default:
		// Plain text is treated as a reminder submission.
		r.handleRemind(hctx, m.ChatID, m.Text)
	}
}

const helpText = "Я запоминаю напоминания из обычного текста.\n\n" +
	"/remind завтра в 20:00 встреча — добавить напоминание\n" +
	"/list — показать напоминания\n\n" +
	"Если в тексте есть только дата, напомню в 07:00, а накануне вечером в 20:00 пришлю предварительное напоминание."

func (r *Router) handleRemind(ctx context.Context, chatID int64, text string) {
	sub, err := r.svc.Submit(ctx, chatID, text, time.Now())
	switch {
	case err == nil:
		r.reply(ctx, chatID, sub.Confirmation)
	case errors.Is(err, reminder.ErrParseFailure):
		r.reply(ctx, chatID, "Не понял, когда напомнить. Попробуй переформулировать, например: завтра в 20:00 встреча")
	case errors.Is(err, reminder.ErrPastDate):
		r.reply(ctx, chatID, "Эта дата уже прошла. Укажи время в будущем.")
	default:
		// Everything else collapses to a generic response; details go to the log.
		r.log.Error("submit failed", logx.Int64("chat_id", chatID), logx.Err(err))
		r.reply(ctx, chatID, "Не получилось обработать запрос, попробуй ещё раз.")
	}
}

func (r *Router) handleList(ctx context.Context, chatID int64) {
	rows, err := r.svc.List(ctx, chatID)
	if err != nil {
		r.log.Error("list failed", logx.Int64("chat_id", chatID), logx.Err(err))
		r.reply(ctx, chatID, "Не получилось обработать запрос, попробуй ещё раз.")
		return
	}
	if len(rows) == 0 {
		r.reply(ctx, chatID, "Напоминаний нет.")
		return
	}
	var b strings.Builder
	b.WriteString("Твои напоминания:")
	for _, row := range rows {
		b.WriteString("\n• ")
		b.WriteString(row.DueAt.Format("02.01.2006 15:04"))
		b.WriteString(" — ")
		b.WriteString(row.Text)
	}
	r.reply(ctx, chatID, b.String())
}

func (r *Router) reply(ctx context.Context, chatID int64, text string) {
	_, err := r.adapter.SendText(ctx, kit.ChatTarget{ChatID: chatID}, text, &kit.SendOptions{DisablePreview: true})
	if err != nil {
		r.log.Warn("reply failed", logx.Int64("chat_id", chatID), logx.Err(err))
	}
}

// splitCommand separates a leading "/command" (with optional @botname suffix)
// from its arguments.
func splitCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd = text
	if i := strings.IndexAny(text, " \n"); i >= 0 {
		cmd = text[:i]
		args = strings.TrimSpace(text[i+1:])
	}
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), args
}
