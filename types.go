// Package recurrence computes due times for recurring series: a parsed
// recurrence rule combined with extra dates (RDATE) and exclusions (EXDATE).
// All computations are pure given the injected zone source and clock, so an
// Engine is safe for concurrent use.
package recurrence

import (
	"time"

	"github.com/perpetuaflow/recurrence/rrule"
)

// Series describes one recurring series.
type Series struct {
	Rule    *rrule.Rule // recurrence rule; nil means only RDates recur
	RDates  []time.Time // additional occurrence instants
	ExDates []time.Time // excluded instants; midnight-UTC entries exclude the whole local day
}

// ParseSeries builds a Series from rule text plus optional extra and
// excluded dates. Rule parse failures surface as *rrule.ParseError.
func ParseSeries(ruleText string, rdates, exdates []time.Time) (Series, error) {
	s := Series{RDates: rdates, ExDates: exdates}
	if ruleText != "" {
		rule, err := rrule.Parse(ruleText)
		if err != nil {
			return Series{}, err
		}
		s.Rule = rule
	}
	return s, nil
}

// Recurs reports whether the series has any recurrence beyond its start.
func (s Series) Recurs() bool {
	return s.Rule != nil || len(s.RDates) > 0
}

// excluded reports whether an occurrence is suppressed by the series'
// exclusion dates. An exclusion stored as midnight UTC is date-only and
// suppresses every occurrence on that local calendar day.
func (s Series) excluded(t time.Time) bool {
	for _, ex := range s.ExDates {
		if t.Equal(ex) {
			return true
		}
		if isDateOnly(ex) {
			year, month, day := t.Date()
			if time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Equal(ex) {
				return true
			}
		}
	}
	return false
}

func isDateOnly(t time.Time) bool {
	return t.Location() == time.UTC &&
		t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
