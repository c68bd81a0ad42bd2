package rrule

import (
	"strconv"
	"strings"
	"time"
)

const (
	untilLayout     = "20060102T150405Z"
	untilDateLayout = "20060102"
)

// Parse parses a recurrence rule text such as
// "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE,FR;COUNT=10".
//
// Keys are case-insensitive. A leading "RRULE:" property prefix is
// tolerated. Unknown or unsupported keys are rejected with a *ParseError,
// as are COUNT and UNTIL appearing together.
func Parse(text string) (*Rule, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "RRULE:")
	if trimmed == "" {
		return nil, &ParseError{Text: text, Reason: "empty rule"}
	}

	rule := &Rule{interval: 1}
	seen := make(map[string]bool)
	hasFreq := false

	for _, part := range strings.Split(trimmed, ";") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return nil, &ParseError{Text: text, Reason: "expected KEY=VALUE, got " + strconv.Quote(part)}
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, &ParseError{Text: text, Field: key, Reason: "empty value"}
		}
		if seen[key] {
			return nil, &ParseError{Text: text, Field: key, Reason: "duplicate field"}
		}
		seen[key] = true

		switch key {
		case "FREQ":
			freq, err := parseFrequency(value)
			if err != nil {
				return nil, &ParseError{Text: text, Field: key, Reason: err.Error()}
			}
			rule.freq = freq
			hasFreq = true
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, &ParseError{Text: text, Field: key, Reason: "must be a positive integer"}
			}
			rule.interval = n
		case "BYDAY":
			days, err := parseByDay(value)
			if err != nil {
				return nil, &ParseError{Text: text, Field: key, Reason: err.Error()}
			}
			rule.byDay = days
		case "BYMONTHDAY":
			days, err := parseByMonthDay(value)
			if err != nil {
				return nil, &ParseError{Text: text, Field: key, Reason: err.Error()}
			}
			rule.byMonthDay = days
		case "COUNT":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, &ParseError{Text: text, Field: key, Reason: "must be a positive integer"}
			}
			rule.count = n
		case "UNTIL":
			until, err := parseUntil(value)
			if err != nil {
				return nil, &ParseError{Text: text, Field: key, Reason: err.Error()}
			}
			rule.until = until
			rule.hasUntil = true
		default:
			return nil, &ParseError{Text: text, Field: key, Reason: "unsupported field"}
		}
	}

	if !hasFreq {
		return nil, &ParseError{Text: text, Field: "FREQ", Reason: "required field missing"}
	}
	if rule.count > 0 && rule.hasUntil {
		return nil, &ParseError{Text: text, Reason: "COUNT and UNTIL are mutually exclusive"}
	}
	if rule.freq == Weekly && len(rule.byMonthDay) > 0 {
		return nil, &ParseError{Text: text, Field: "BYMONTHDAY", Reason: "not valid with FREQ=WEEKLY"}
	}
	return rule, nil
}

// MustParse is like Parse but panics on malformed input. Intended for rule
// literals in tests and fixtures.
func MustParse(text string) *Rule {
	rule, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return rule
}

func parseFrequency(value string) (Frequency, error) {
	switch strings.ToUpper(value) {
	case "DAILY":
		return Daily, nil
	case "WEEKLY":
		return Weekly, nil
	case "MONTHLY":
		return Monthly, nil
	case "YEARLY":
		return Yearly, nil
	case "SECONDLY", "MINUTELY", "HOURLY":
		return 0, errStr("sub-daily frequencies are not supported")
	}
	return 0, errStr("unknown frequency " + strconv.Quote(value))
}

func parseByDay(value string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, code := range strings.Split(value, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		wd, ok := weekdayCodes[code]
		if !ok {
			if len(code) > 2 {
				// e.g. "2MO"; ordinal weekday prefixes are out of grammar
				return nil, errStr("ordinal day " + strconv.Quote(code) + " is not supported")
			}
			return nil, errStr("unknown day code " + strconv.Quote(code))
		}
		days = append(days, wd)
	}
	return sortWeekdays(days), nil
}

func parseByMonthDay(value string) ([]int, error) {
	var days []int
	for _, s := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n == 0 || n < -31 || n > 31 {
			return nil, errStr("day " + strconv.Quote(s) + " must be in ±1..31")
		}
		days = append(days, n)
	}
	return sortMonthDays(days), nil
}

func parseUntil(value string) (time.Time, error) {
	if t, err := time.Parse(untilLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(untilDateLayout, value); err == nil {
		return t, nil
	}
	return time.Time{}, errStr("expected " + untilLayout + " or " + untilDateLayout)
}

// errStr is a minimal error for parse helper reasons; the helpers' messages
// end up inside ParseError.Reason.
type errStr string

func (e errStr) Error() string { return string(e) }
