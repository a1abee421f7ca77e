package reminder

import "time"

// DeriveConfig holds the clock-time constants of the deriver. Zero values
// fall back to the defaults the bot has always used, which makes 00:00
// itself unconfigurable: an hour/minute pair of zeros reads as unset.
type DeriveConfig struct {
	// MorningHour/MorningMinute replace a midnight time-of-day, i.e. when the
	// parser saw a date but no explicit clock time. Default 07:00.
	MorningHour   int
	MorningMinute int

	// EveningHour/EveningMinute is the clock time of the eve-of-event
	// pre-reminder. Default 20:00.
	EveningHour   int
	EveningMinute int
}

func (c DeriveConfig) withDefaults() DeriveConfig {
	if c.MorningHour == 0 && c.MorningMinute == 0 {
		c.MorningHour = 7
	}
	if c.EveningHour == 0 && c.EveningMinute == 0 {
		c.EveningHour = 20
	}
	return c
}

// Times is the deriver output: the event-time reminder plus an optional
// eve-of-event pre-reminder.
type Times struct {
	// Morning always fires at the (defaulted) event time.
	Morning time.Time
	// Evening fires at 20:00 the day before; zero when that moment has
	// already passed.
	Evening time.Time
}

// All returns the emitted due times in firing order.
func (t Times) All() []time.Time {
	if t.Evening.IsZero() {
		return []time.Time{t.Morning}
	}
	return []time.Time{t.Evening, t.Morning}
}

// Derive maps one parsed event time to one or two target due times.
//
// A parsed time of exactly midnight is the parser's signal that the input
// carried no explicit time-of-day; it is replaced with the configured morning
// default. Returns ErrPastDate when the resulting event time is not strictly
// after now. The evening pre-reminder is silently dropped when it would be in
// the past (e.g. the event is tomorrow and the eve is already gone).
//
// Derive is pure: same inputs, same output, no side effects.
func Derive(parsed, now time.Time, cfg DeriveConfig) (Times, error) {
	cfg = cfg.withDefaults()

	event := parsed
	if isMidnight(event) {
		event = time.Date(event.Year(), event.Month(), event.Day(),
			cfg.MorningHour, cfg.MorningMinute, 0, 0, event.Location())
	}

	if !event.After(now) {
		return Times{}, ErrPastDate
	}

	eveDay := event.AddDate(0, 0, -1)
	evening := time.Date(eveDay.Year(), eveDay.Month(), eveDay.Day(),
		cfg.EveningHour, cfg.EveningMinute, 0, 0, event.Location())

	out := Times{Morning: event}
	if evening.After(now) {
		out.Evening = evening
	}
	return out, nil
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
