package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/perpetuaflow/recurrence"
	"github.com/perpetuaflow/recurrence/rrule"
)

// Planner computes which task instances a template is due to materialize.
type Planner struct {
	engine *recurrence.Engine
	logger *slog.Logger
}

// NewPlanner creates a planner on top of a recurrence engine. A nil logger
// falls back to slog.Default.
func NewPlanner(engine *recurrence.Engine, logger *slog.Logger) (*Planner, error) {
	if engine == nil {
		return nil, fmt.Errorf("schedule: engine is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{engine: engine, logger: logger}, nil
}

// NextTask materializes the template's next task due strictly after the
// given moment. Returns rrule.ErrExhausted when the template has no further
// due times; callers should retire the template rather than retry.
func (p *Planner) NextTask(tpl Template, after time.Time) (Task, error) {
	if err := validate(tpl); err != nil {
		return Task{}, err
	}

	due, err := p.engine.NextDue(tpl.Series, tpl.Start, after, tpl.Zone)
	if errors.Is(err, rrule.ErrExhausted) {
		p.logger.Info("template exhausted",
			"template_id", tpl.ID,
			"title", tpl.Title)
		return Task{}, err
	}
	if err != nil {
		return Task{}, fmt.Errorf("plan next task for template %s: %w", tpl.ID, err)
	}

	task := Task{
		ID:         uuid.New(),
		TemplateID: tpl.ID,
		Title:      tpl.Title,
		DueAt:      due,
	}
	p.logger.Debug("materialized task",
		"template_id", tpl.ID,
		"task_id", task.ID,
		"due_at", due)
	return task, nil
}

// DueBetween materializes every task instance of the template due within
// [from, to], in due order.
func (p *Planner) DueBetween(tpl Template, from, to time.Time) ([]Task, error) {
	if err := validate(tpl); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("schedule: range end %v before start %v", to, from)
	}

	dues, err := p.engine.ExpandRange(tpl.Series, tpl.Start, from, to, tpl.Zone)
	if err != nil {
		return nil, fmt.Errorf("expand template %s: %w", tpl.ID, err)
	}

	tasks := make([]Task, 0, len(dues))
	for _, due := range dues {
		tasks = append(tasks, Task{
			ID:         uuid.New(),
			TemplateID: tpl.ID,
			Title:      tpl.Title,
			DueAt:      due,
		})
	}
	return tasks, nil
}

func validate(tpl Template) error {
	if tpl.Start.IsZero() {
		return fmt.Errorf("schedule: template %s has no series start: %w", tpl.ID, rrule.ErrInvalidAnchor)
	}
	return nil
}
