// Package dateparse extracts timestamps from free-text reminder messages.
//
// It wraps the when library with English and Russian rule sets. The parse
// base is midnight of the current day, so a phrase that names a date but no
// clock time observably resolves to midnight; the reminder deriver treats
// that as "no explicit time-of-day" and applies its morning default.
package dateparse

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/olebedev/when/rules/ru"
)

type Parser struct {
	w *when.Parser
}

func New() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(ru.All...)
	w.Add(common.All...)
	// The default match distance of 5 runes drops the time-of-day match when
	// the reminder text sits between the date and the time ("завтра встреча
	// в 20:00"). Widen it so filler words do not split the phrase.
	w.SetOptions(&rules.Options{Distance: 30, MatchByOrder: true})
	return &Parser{w: w}
}

// Parse returns the timestamp found in text, or false when nothing parseable
// was found. Relative expressions ("завтра", "tomorrow", weekday names)
// resolve against now's calendar day.
func (p *Parser) Parse(text string, now time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	r, err := p.w.Parse(text, base)
	if err != nil || r == nil {
		return time.Time{}, false
	}
	return r.Time, true
}
