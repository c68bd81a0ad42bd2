package recurrence

import (
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/perpetuaflow/recurrence/rrule"
)

const (
	icalDateTimeLayout = "20060102T150405Z"
	icalDateLayout     = "20060102"
)

// SeriesFromComponent extracts the recurring series from an iCalendar
// component: RRULE (parsed through this module's grammar), RDATE and EXDATE.
// A malformed RRULE surfaces as *rrule.ParseError.
func SeriesFromComponent(comp *ical.Component) (Series, error) {
	var series Series

	if prop := comp.Props.Get(ical.PropRecurrenceRule); prop != nil && prop.Value != "" {
		rule, err := rrule.Parse(prop.Value)
		if err != nil {
			return Series{}, err
		}
		series.Rule = rule
	}
	if prop := comp.Props.Get(ical.PropRecurrenceDates); prop != nil && prop.Value != "" {
		series.RDates = parseDateList(prop)
	}
	if prop := comp.Props.Get(ical.PropExceptionDates); prop != nil && prop.Value != "" {
		series.ExDates = parseDateList(prop)
	}
	return series, nil
}

// StartFromComponent extracts the series start from a component: DTSTART,
// falling back to DUE for VTODO components without one.
func StartFromComponent(comp *ical.Component) (time.Time, bool) {
	if start, err := comp.Props.DateTime(ical.PropDateTimeStart, nil); err == nil && !start.IsZero() {
		return start, true
	}
	if comp.Name == ical.CompToDo {
		if due, err := comp.Props.DateTime(ical.PropDue, nil); err == nil && !due.IsZero() {
			return due, true
		}
	}
	return time.Time{}, false
}

// WriteSeries stores the series back onto a component as RRULE, RDATE and
// EXDATE properties. Instants serialize in UTC; date-only exclusions keep
// their DATE value type.
func (s Series) WriteSeries(comp *ical.Component) {
	comp.Props.Del(ical.PropRecurrenceRule)
	comp.Props.Del(ical.PropRecurrenceDates)
	comp.Props.Del(ical.PropExceptionDates)

	if s.Rule != nil {
		prop := ical.NewProp(ical.PropRecurrenceRule)
		prop.Value = s.Rule.String()
		comp.Props.Set(prop)
	}
	if len(s.RDates) > 0 {
		comp.Props.Set(dateListProp(ical.PropRecurrenceDates, s.RDates))
	}
	if len(s.ExDates) > 0 {
		comp.Props.Set(dateListProp(ical.PropExceptionDates, s.ExDates))
	}
}

// parseDateList parses an RDATE/EXDATE value into instants. A VALUE=DATE
// parameter, or a value that only parses as a date, yields midnight-UTC
// date-only entries (see Series.excluded).
func parseDateList(prop *ical.Prop) []time.Time {
	dateOnly := prop.ValueType() == ical.ValueDate

	var out []time.Time
	for _, s := range strings.Split(prop.Value, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !dateOnly {
			if t, err := time.Parse(icalDateTimeLayout, s); err == nil {
				out = append(out, t)
				continue
			}
		}
		if t, err := time.Parse(icalDateLayout, s); err == nil {
			out = append(out, time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
		}
	}
	return out
}

func dateListProp(name string, times []time.Time) *ical.Prop {
	allDates := true
	for _, t := range times {
		if !isDateOnly(t) {
			allDates = false
			break
		}
	}

	parts := make([]string, 0, len(times))
	layout := icalDateTimeLayout
	if allDates {
		layout = icalDateLayout
	}
	for _, t := range times {
		parts = append(parts, t.UTC().Format(layout))
	}

	prop := ical.NewProp(name)
	prop.Value = strings.Join(parts, ",")
	if allDates {
		prop.SetValueType(ical.ValueDate)
	}
	return prop
}
