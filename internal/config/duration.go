package config

import (
	"strings"
	"time"
)

// ParseDuration parses a Go duration string, falling back to def when the
// field is empty or malformed.
func ParseDuration(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}
