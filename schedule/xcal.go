package schedule

import (
	"time"

	"github.com/beevik/etree"

	"github.com/perpetuaflow/recurrence/internal/xml/xcal"
)

// MarshalXCal renders the template as an xCal XML document for the API
// surface that serves recurring-task definitions.
func (tpl Template) MarshalXCal() ([]byte, error) {
	root := etree.NewElement("task-template")
	root.CreateAttr("id", tpl.ID.String())
	root.CreateElement("title").SetText(tpl.Title)
	root.CreateElement("tzid").SetText(tpl.Zone)

	dtstart := root.CreateElement("dtstart")
	dtstart.AddChild(xcal.EncodeTime(tpl.Start))

	if tpl.Series.Rule != nil {
		root.AddChild(xcal.EncodeRule(tpl.Series.Rule))
	}
	if len(tpl.Series.RDates) > 0 {
		rdates := root.CreateElement("rdate")
		for _, rd := range tpl.Series.RDates {
			rdates.AddChild(xcal.EncodeTime(rd))
		}
	}
	if len(tpl.Series.ExDates) > 0 {
		exdates := root.CreateElement("exdate")
		for _, ex := range tpl.Series.ExDates {
			exdates.AddChild(xcal.EncodeTime(ex))
		}
	}

	doc := xcal.Document(root)
	doc.Indent(2)
	return doc.WriteToBytes()
}

// DueBetweenXCal renders the template's due times in a window as an xCal
// occurrence list.
func (p *Planner) DueBetweenXCal(tpl Template, from, to time.Time) ([]byte, error) {
	tasks, err := p.DueBetween(tpl, from, to)
	if err != nil {
		return nil, err
	}
	dues := make([]time.Time, 0, len(tasks))
	for _, task := range tasks {
		dues = append(dues, task.DueAt)
	}

	doc := xcal.Document(xcal.EncodeOccurrences(dues))
	doc.Indent(2)
	return doc.WriteToBytes()
}
