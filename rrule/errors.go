package rrule

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted signals that a bounded rule has no further occurrences.
	// It is a terminal state of the series, not a fault.
	ErrExhausted = errors.New("rrule: recurrence exhausted")

	// ErrInvalidAnchor signals an unusable anchor: a zero time or a nil
	// location. Occurrence times depend on a named zone's rules, so the
	// anchor must carry one.
	ErrInvalidAnchor = errors.New("rrule: anchor must be a non-zero time with a location")

	// ErrNoMatch signals that the rule's constraints produced no candidate
	// within the search horizon. Typically the constraints can never be
	// satisfied, e.g. BYDAY=MO with a daily interval that always lands on
	// another weekday.
	ErrNoMatch = errors.New("rrule: no occurrence matches the rule constraints")
)

// ParseError describes a rejected rule text. Parse errors are permanent;
// retrying the same text cannot succeed.
type ParseError struct {
	Text   string // the rule text as given
	Field  string // offending field name, empty for structural problems
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("rrule: cannot parse %q: %s", e.Text, e.Reason)
	}
	return fmt.Sprintf("rrule: cannot parse %q: %s: %s", e.Text, e.Field, e.Reason)
}
