// Package schedule is the surface the task-scheduling subsystem calls to
// turn recurring task templates into concrete task instances. It plans due
// times only; persisting and executing the resulting tasks belongs to the
// caller.
package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/perpetuaflow/recurrence"
)

// Template describes a recurring task: when its series starts, in which
// named zone its due times are expressed, and how it recurs.
type Template struct {
	ID     uuid.UUID
	Title  string
	Zone   string    // IANA zone name, e.g. "America/New_York"
	Start  time.Time // series anchor; the template's first due moment
	Series recurrence.Series
}

// NewTemplate builds a template with a fresh ID from rule text.
func NewTemplate(title, zone string, start time.Time, ruleText string) (Template, error) {
	series, err := recurrence.ParseSeries(ruleText, nil, nil)
	if err != nil {
		return Template{}, err
	}
	return Template{
		ID:     uuid.New(),
		Title:  title,
		Zone:   zone,
		Start:  start,
		Series: series,
	}, nil
}

// Task is one materialized instance of a template.
type Task struct {
	ID         uuid.UUID
	TemplateID uuid.UUID
	Title      string
	DueAt      time.Time
}
