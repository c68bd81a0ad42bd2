// Package rrule parses recurrence rules and generates occurrence times.
//
// The accepted grammar is a restricted subset of the iCalendar RECUR value:
// FREQ (required), INTERVAL, BYDAY, BYMONTHDAY, COUNT and UNTIL. Rules are
// immutable once parsed and safe for concurrent use.
package rrule

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
)

// Frequency is the base repetition unit of a rule. The set is closed;
// every dispatch on Frequency is an exhaustive switch.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
	Yearly
)

// String returns the iCalendar name of the frequency.
func (f Frequency) String() string {
	switch f {
	case Daily:
		return "DAILY"
	case Weekly:
		return "WEEKLY"
	case Monthly:
		return "MONTHLY"
	case Yearly:
		return "YEARLY"
	}
	return "UNKNOWN"
}

// weekdayCodes maps the two-letter iCalendar day codes to Go weekdays.
var weekdayCodes = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// mondayFirst is the canonical ordering for serialized BYDAY lists and for
// expansion within a week (weeks start on Monday).
var mondayFirst = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func weekdayCode(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return "MO"
	case time.Tuesday:
		return "TU"
	case time.Wednesday:
		return "WE"
	case time.Thursday:
		return "TH"
	case time.Friday:
		return "FR"
	case time.Saturday:
		return "SA"
	}
	return "SU"
}

// Rule is a parsed recurrence rule. The zero value is not usable; obtain a
// Rule through Parse. A Rule never changes after parsing.
type Rule struct {
	freq       Frequency
	interval   int
	byDay      []time.Weekday // Monday-first order, deduplicated
	byMonthDay []int          // ascending, ±1..31, never 0
	count      int            // 0 means unbounded
	until      time.Time      // zero means unbounded; inclusive instant bound
	hasUntil   bool
}

// Frequency returns the base repetition unit.
func (r *Rule) Frequency() Frequency { return r.freq }

// Interval returns the stride between periods, at least 1.
func (r *Rule) Interval() int { return r.interval }

// ByDay returns the weekday constraints in Monday-first order. The slice is
// a copy; an empty result means no weekday constraint.
func (r *Rule) ByDay() []time.Weekday {
	out := make([]time.Weekday, len(r.byDay))
	copy(out, r.byDay)
	return out
}

// ByMonthDay returns the day-of-month constraints in ascending order.
// Negative values count back from the end of the month.
func (r *Rule) ByMonthDay() []int {
	out := make([]int, len(r.byMonthDay))
	copy(out, r.byMonthDay)
	return out
}

// Count returns the occurrence bound, if any.
func (r *Rule) Count() mo.Option[int] {
	if r.count > 0 {
		return mo.Some(r.count)
	}
	return mo.None[int]()
}

// Until returns the inclusive instant bound, if any.
func (r *Rule) Until() mo.Option[time.Time] {
	if r.hasUntil {
		return mo.Some(r.until)
	}
	return mo.None[time.Time]()
}

// Bounded reports whether the rule has a COUNT or UNTIL bound.
func (r *Rule) Bounded() bool { return r.count > 0 || r.hasUntil }

// String serializes the rule in canonical form. Parsing the result yields a
// rule equal to r.
func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString("FREQ=")
	b.WriteString(r.freq.String())
	if r.interval > 1 {
		b.WriteString(";INTERVAL=")
		b.WriteString(strconv.Itoa(r.interval))
	}
	if len(r.byDay) > 0 {
		b.WriteString(";BYDAY=")
		for i, wd := range r.byDay {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(weekdayCode(wd))
		}
	}
	if len(r.byMonthDay) > 0 {
		b.WriteString(";BYMONTHDAY=")
		for i, md := range r.byMonthDay {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(md))
		}
	}
	if r.count > 0 {
		b.WriteString(";COUNT=")
		b.WriteString(strconv.Itoa(r.count))
	}
	if r.hasUntil {
		b.WriteString(";UNTIL=")
		b.WriteString(r.until.UTC().Format(untilLayout))
	}
	return b.String()
}

// Equal reports whether two rules describe the same recurrence.
func (r *Rule) Equal(other *Rule) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.freq != other.freq || r.interval != other.interval ||
		r.count != other.count || r.hasUntil != other.hasUntil {
		return false
	}
	if r.hasUntil && !r.until.Equal(other.until) {
		return false
	}
	if len(r.byDay) != len(other.byDay) || len(r.byMonthDay) != len(other.byMonthDay) {
		return false
	}
	for i, wd := range r.byDay {
		if other.byDay[i] != wd {
			return false
		}
	}
	for i, md := range r.byMonthDay {
		if other.byMonthDay[i] != md {
			return false
		}
	}
	return true
}

func (r *Rule) hasWeekday(wd time.Weekday) bool {
	for _, d := range r.byDay {
		if d == wd {
			return true
		}
	}
	return false
}

// sortWeekdays orders weekdays Monday-first and removes duplicates.
func sortWeekdays(days []time.Weekday) []time.Weekday {
	seen := make(map[time.Weekday]bool, len(days))
	var out []time.Weekday
	for _, wd := range mondayFirst {
		for _, d := range days {
			if d == wd && !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}

func sortMonthDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	var out []int
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}
