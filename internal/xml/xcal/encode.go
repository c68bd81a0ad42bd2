// Package xcal encodes recurrence data as xCal (RFC 6321) XML fragments for
// the backend's XML-speaking API surface.
package xcal

import (
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/perpetuaflow/recurrence/rrule"
)

// Namespace is the xCal XML namespace.
const Namespace = "urn:ietf:params:xml:ns:icalendar-2.0"

const (
	dateTimeLayout = "2006-01-02T15:04:05Z"
	localLayout    = "2006-01-02T15:04:05"
)

// EncodeRule renders a rule as an xCal <recur> element.
func EncodeRule(rule *rrule.Rule) *etree.Element {
	recur := etree.NewElement("recur")

	recur.CreateElement("freq").SetText(rule.Frequency().String())
	if rule.Interval() > 1 {
		recur.CreateElement("interval").SetText(strconv.Itoa(rule.Interval()))
	}
	for _, wd := range rule.ByDay() {
		recur.CreateElement("byday").SetText(dayCode(wd))
	}
	for _, md := range rule.ByMonthDay() {
		recur.CreateElement("bymonthday").SetText(strconv.Itoa(md))
	}
	if count, ok := rule.Count().Get(); ok {
		recur.CreateElement("count").SetText(strconv.Itoa(count))
	}
	if until, ok := rule.Until().Get(); ok {
		recur.CreateElement("until").SetText(until.UTC().Format(dateTimeLayout))
	}
	return recur
}

// EncodeTime renders an instant as an xCal <date-time> element. Times in UTC
// use the trailing-Z form; other zones use the local form with a tzid
// attribute carrying the zone name.
func EncodeTime(t time.Time) *etree.Element {
	elem := etree.NewElement("date-time")
	if t.Location() == time.UTC {
		elem.SetText(t.Format(dateTimeLayout))
		return elem
	}
	elem.CreateAttr("tzid", t.Location().String())
	elem.SetText(t.Format(localLayout))
	return elem
}

// EncodeOccurrences renders a list of instants under a <occurrences> parent.
func EncodeOccurrences(times []time.Time) *etree.Element {
	parent := etree.NewElement("occurrences")
	for _, t := range times {
		parent.AddChild(EncodeTime(t))
	}
	return parent
}

// Document wraps an element in an xCal document with the icalendar root and
// namespace declaration.
func Document(root *etree.Element) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	ical := doc.CreateElement("icalendar")
	ical.CreateAttr("xmlns", Namespace)
	ical.AddChild(root)
	return doc
}

func dayCode(wd time.Weekday) string {
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
