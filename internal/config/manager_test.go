package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "config.yaml", `
telegram:
  token: "123:abc"
  poll_timeout: "15s"
logging:
  level: debug
  console: true
  file:
    enabled: false
    path: ""
  telegram:
    enabled: false
    min_level: warn
    rate_per_sec: 1
storage:
  path: ./reminders.db
  busy_timeout: "2s"
reminders:
  morning_time: "07:00"
  evening_time: "20:00"
heartbeat:
  enabled: true
  schedule: "@every 30m"
`)

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.Storage.Path != "./reminders.db" {
		t.Fatalf("storage path = %q", cfg.Storage.Path)
	}
	if cfg.Reminders.EveningTime != "20:00" {
		t.Fatalf("evening_time = %q", cfg.Reminders.EveningTime)
	}
	if !cfg.Heartbeat.Enabled || cfg.Heartbeat.Schedule != "@every 30m" {
		t.Fatalf("heartbeat = %+v", cfg.Heartbeat)
	}
	if got := ParseDuration(cfg.Telegram.PollTimeout, 10*time.Second); got != 15*time.Second {
		t.Fatalf("poll timeout = %v", got)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "config.json", `{"telegram":{"token":"x","frobnicate":true},"logging":{"level":"info","console":true,"file":{"enabled":false,"path":""},"telegram":{"enabled":false,"min_level":"","rate_per_sec":0}},"storage":{"path":"x.db"}}`)

	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseDurationFallback(t *testing.T) {
	t.Parallel()
	if got := ParseDuration("", time.Second); got != time.Second {
		t.Fatalf("empty = %v", got)
	}
	if got := ParseDuration("nonsense", 2*time.Second); got != 2*time.Second {
		t.Fatalf("malformed = %v", got)
	}
	if got := ParseDuration("250ms", time.Second); got != 250*time.Millisecond {
		t.Fatalf("parsed = %v", got)
	}
}
