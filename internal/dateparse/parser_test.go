package dateparse

import (
	"testing"
	"time"
)

func TestParseTomorrowWithTime(t *testing.T) {
	t.Parallel()
	p := New()
	now := time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC) // Monday

	got, ok := p.Parse("meeting tomorrow at 8pm", now)
	if !ok {
		t.Fatal("expected a parse result")
	}
	if got.Year() != 2024 || got.Month() != time.February || got.Day() != 6 {
		t.Fatalf("date = %v, want Feb 6", got)
	}
	if got.Hour() != 20 || got.Minute() != 0 {
		t.Fatalf("time = %02d:%02d, want 20:00", got.Hour(), got.Minute())
	}
}

func TestParseRussianTomorrowWithTime(t *testing.T) {
	t.Parallel()
	p := New()
	now := time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC)

	got, ok := p.Parse("завтра встреча в 20:00", now)
	if !ok {
		t.Fatal("expected a parse result")
	}
	if got.Day() != 6 || got.Hour() != 20 {
		t.Fatalf("got %v, want Feb 6 20:00", got)
	}
}

// The date and time fragments must still combine when the reminder text sits
// between them; with the library's default match distance the trailing time
// would be discarded and the result would collapse to midnight.
func TestParseSeparatedDateAndTime(t *testing.T) {
	t.Parallel()
	p := New()
	now := time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
	}{
		{name: "russian filler word", text: "завтра встреча в 20:00"},
		{name: "english filler words", text: "tomorrow dentist appointment at 8pm"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Parse(tt.text, now)
			if !ok {
				t.Fatalf("Parse(%q) found nothing", tt.text)
			}
			if got.Day() != 6 || got.Hour() != 20 || got.Minute() != 0 {
				t.Fatalf("Parse(%q) = %v, want Feb 6 20:00", tt.text, got)
			}
		})
	}
}

func TestParseDateOnlyYieldsMidnight(t *testing.T) {
	t.Parallel()
	p := New()
	now := time.Date(2024, 2, 5, 9, 30, 0, 0, time.UTC)

	got, ok := p.Parse("tomorrow", now)
	if !ok {
		t.Fatal("expected a parse result")
	}
	// No explicit clock time: the result must carry the midnight base so the
	// deriver can detect the missing time-of-day.
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("time-of-day = %v, want midnight", got)
	}
	if got.Day() != 6 {
		t.Fatalf("day = %d, want 6", got.Day())
	}
}

func TestParseUnparseable(t *testing.T) {
	t.Parallel()
	p := New()

	for _, text := range []string{"", "   ", "qwerty asdfgh"} {
		if _, ok := p.Parse(text, time.Now()); ok {
			t.Fatalf("Parse(%q) succeeded, want failure", text)
		}
	}
}
