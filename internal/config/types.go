package config

type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Logging   LoggingConfig   `json:"logging"`
	Storage   StorageConfig   `json:"storage"`
	Reminders RemindersConfig `json:"reminders,omitempty"`
	Heartbeat HeartbeatConfig `json:"heartbeat,omitempty"`
}

type TelegramConfig struct {
	// Token may be left empty in the file and supplied via the BOT_TOKEN
	// environment variable (or a .env file) instead.
	Token string `json:"token"`
	// LogChatID is the operator chat receiving mirrored warn/error logs.
	LogChatID int64 `json:"log_chat_id,omitempty"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout,omitempty"`
}

type LoggingConfig struct {
	Level    string          `json:"level"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

type StorageConfig struct {
	Path string `json:"path"`
	// BusyTimeout is a Go duration string (sqlite busy_timeout pragma).
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

// RemindersConfig tunes the derived due times. Both are HH:MM strings.
// "00:00" cannot be configured: midnight is the unset marker and falls back to
// the defaults.
type RemindersConfig struct {
	// MorningTime replaces a missing time-of-day. Default "07:00".
	MorningTime string `json:"morning_time,omitempty"`
	// EveningTime is the eve-of-event pre-reminder slot. Default "20:00".
	EveningTime string `json:"evening_time,omitempty"`
}

// HeartbeatConfig controls the periodic pending-reminder count log line.
type HeartbeatConfig struct {
	Enabled bool `json:"enabled"`
	// Schedule is a cron spec or "@every" interval. Default "@every 1h".
	Schedule string `json:"schedule,omitempty"`
}
