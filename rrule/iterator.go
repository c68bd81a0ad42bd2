package rrule

import (
	"sort"
	"time"
)

// maxEmptyPeriods bounds the scan over periods whose candidates are all
// filtered out. A rule that produces nothing for this many consecutive
// periods is treated as unsatisfiable (ErrNoMatch).
const maxEmptyPeriods = 100_000

// Iterator generates the occurrences of a rule anchored at a start moment,
// in ascending order. Occurrences are strictly after the anchor; the anchor
// itself is never yielded, and COUNT counts yielded occurrences.
//
// An Iterator is single-caller; the Rule behind it may be shared freely.
type Iterator struct {
	rule  *Rule
	loc   *time.Location
	start time.Time // anchor instant

	// wall-clock shape of the anchor in loc
	hour, min, sec, nsec int
	anchorDate           time.Time // date holder at noon UTC
	anchorWeekday        time.Weekday
	weekBase             time.Time // Monday of the anchor's week

	period  int // next period index to expand
	pending []time.Time
	yielded int
	err     error // sticky terminal state
}

// Iterator returns an occurrence iterator for the series anchored at start,
// evaluated and returned in loc. The anchor is converted to loc before any
// rule evaluation. Returns ErrInvalidAnchor for a zero start or nil loc.
func (r *Rule) Iterator(start time.Time, loc *time.Location) (*Iterator, error) {
	if start.IsZero() || loc == nil {
		return nil, ErrInvalidAnchor
	}
	anchor := start.In(loc)
	year, month, day := anchor.Date()
	hour, min, sec := anchor.Clock()

	// Dates are carried as noon-UTC holders so that day arithmetic never
	// crosses a day boundary through zone offsets.
	anchorDate := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	back := (int(anchorDate.Weekday()) + 6) % 7 // days since Monday
	return &Iterator{
		rule:          r,
		loc:           loc,
		start:         start,
		hour:          hour,
		min:           min,
		sec:           sec,
		nsec:          anchor.Nanosecond(),
		anchorDate:    anchorDate,
		anchorWeekday: anchorDate.Weekday(),
		weekBase:      anchorDate.AddDate(0, 0, -back),
	}, nil
}

// Next returns the next occurrence, or ErrExhausted once the rule's COUNT
// is consumed or the next occurrence would fall after UNTIL. Exhaustion is
// terminal: every subsequent call returns the same error.
func (it *Iterator) Next() (time.Time, error) {
	if it.err != nil {
		return time.Time{}, it.err
	}
	if it.rule.count > 0 && it.yielded >= it.rule.count {
		it.err = ErrExhausted
		return time.Time{}, it.err
	}

	empty := 0
	for {
		for len(it.pending) > 0 {
			next := it.pending[0]
			it.pending = it.pending[1:]
			if !next.After(it.start) {
				continue
			}
			if it.rule.hasUntil && next.After(it.rule.until) {
				it.err = ErrExhausted
				return time.Time{}, it.err
			}
			it.yielded++
			return next, nil
		}

		if empty >= maxEmptyPeriods {
			it.err = ErrNoMatch
			return time.Time{}, it.err
		}
		candidates := it.expandPeriod(it.period)
		it.period++
		if len(candidates) == 0 {
			empty++
			continue
		}
		empty = 0
		it.pending = candidates
	}
}

// NextAfter returns the first occurrence strictly after the given moment for
// a series anchored at start. COUNT is honored from the series anchor:
// occurrences between start and after consume the budget.
func (r *Rule) NextAfter(start, after time.Time, loc *time.Location) (time.Time, error) {
	it, err := r.Iterator(start, loc)
	if err != nil {
		return time.Time{}, err
	}
	for {
		next, err := it.Next()
		if err != nil {
			return time.Time{}, err
		}
		if next.After(after) {
			return next, nil
		}
	}
}

// expandPeriod produces the resolved instants of period k, in order. A nil
// result means every candidate of the period was filtered out.
func (it *Iterator) expandPeriod(k int) []time.Time {
	switch it.rule.freq {
	case Daily:
		return it.expandDay(k)
	case Weekly:
		return it.expandWeek(k)
	case Monthly:
		year, month := addMonths(it.anchorDate, k*it.rule.interval)
		return it.expandMonth(year, month)
	case Yearly:
		return it.expandMonth(it.anchorDate.Year()+k*it.rule.interval, it.anchorDate.Month())
	}
	return nil
}

func (it *Iterator) expandDay(k int) []time.Time {
	date := it.anchorDate.AddDate(0, 0, k*it.rule.interval)
	if len(it.rule.byDay) > 0 && !it.rule.hasWeekday(date.Weekday()) {
		return nil
	}
	if len(it.rule.byMonthDay) > 0 && !it.matchesMonthDay(date) {
		return nil
	}
	return []time.Time{it.resolve(date)}
}

func (it *Iterator) expandWeek(k int) []time.Time {
	week := it.weekBase.AddDate(0, 0, k*it.rule.interval*7)
	var out []time.Time
	for i := 0; i < 7; i++ {
		date := week.AddDate(0, 0, i)
		if len(it.rule.byDay) > 0 {
			if !it.rule.hasWeekday(date.Weekday()) {
				continue
			}
		} else if date.Weekday() != it.anchorWeekday {
			continue
		}
		out = append(out, it.resolve(date))
	}
	return out
}

// expandMonth lists the matching days of one month, for both the monthly and
// yearly frequencies. Days a month does not have (Feb 30, or the anchor's
// 31st in a short month) are skipped, never clamped.
func (it *Iterator) expandMonth(year int, month time.Month) []time.Time {
	last := daysIn(year, month)
	var days []int
	switch {
	case len(it.rule.byMonthDay) > 0:
		days = resolveMonthDays(it.rule.byMonthDay, last)
		if len(it.rule.byDay) > 0 {
			filtered := days[:0]
			for _, d := range days {
				if it.rule.hasWeekday(weekdayOf(year, month, d)) {
					filtered = append(filtered, d)
				}
			}
			days = filtered
		}
	case len(it.rule.byDay) > 0:
		for d := 1; d <= last; d++ {
			if it.rule.hasWeekday(weekdayOf(year, month, d)) {
				days = append(days, d)
			}
		}
	default:
		if it.anchorDate.Day() <= last {
			days = []int{it.anchorDate.Day()}
		}
	}

	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		out = append(out, resolveLocal(year, month, d, it.hour, it.min, it.sec, it.nsec, it.loc))
	}
	return out
}

func (it *Iterator) resolve(date time.Time) time.Time {
	year, month, day := date.Date()
	return resolveLocal(year, month, day, it.hour, it.min, it.sec, it.nsec, it.loc)
}

func (it *Iterator) matchesMonthDay(date time.Time) bool {
	last := daysIn(date.Year(), date.Month())
	for _, d := range resolveMonthDays(it.rule.byMonthDay, last) {
		if d == date.Day() {
			return true
		}
	}
	return false
}

// resolveMonthDays maps ±1..31 constraints onto the concrete days of a month
// with `last` days, ascending and deduplicated. Out-of-range days drop out.
func resolveMonthDays(monthDays []int, last int) []int {
	seen := make(map[int]bool, len(monthDays))
	var out []int
	for _, md := range monthDays {
		day := md
		if md < 0 {
			day = last + md + 1
		}
		if day >= 1 && day <= last && !seen[day] {
			seen[day] = true
			out = append(out, day)
		}
	}
	sort.Ints(out)
	return out
}

func addMonths(date time.Time, n int) (int, time.Month) {
	idx := date.Year()*12 + int(date.Month()) - 1 + n
	return idx / 12, time.Month(idx%12 + 1)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

func weekdayOf(year int, month time.Month, day int) time.Weekday {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Weekday()
}
