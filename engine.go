package recurrence

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/perpetuaflow/recurrence/rrule"
)

// Engine answers due-time queries over recurring series. All methods are
// safe for concurrent use.
type Engine struct {
	config EngineConfig
	cache  *Cache
	zones  ZoneSource
	now    func() time.Time
}

// NewEngine creates an engine with DefaultEngineConfig.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// NewEngineWithConfig creates an engine with custom configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	if config.Zones == nil {
		config.Zones = SystemZones{}
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.MaxExpansionOccurrences <= 0 {
		config.MaxExpansionOccurrences = DefaultEngineConfig.MaxExpansionOccurrences
	}
	e := &Engine{
		config: config,
		zones:  config.Zones,
		now:    config.Now,
	}
	if config.CacheEnabled {
		e.cache = NewCache(config.CacheConfig, config.Now)
	}
	return e
}

// Close releases the engine's cache resources, if any.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// NextDue returns the earliest due instant of the series strictly after the
// given moment, expressed in the named zone. The series start anchors the
// rule: occurrences share its wall-clock shape, and COUNT budgets are
// consumed from it, including by excluded occurrences.
//
// Returns rrule.ErrExhausted when the series has no further due times; this
// is a terminal state, not a fault.
func (e *Engine) NextDue(series Series, start, after time.Time, zoneName string) (time.Time, error) {
	loc, err := e.zone(zoneName)
	if err != nil {
		return time.Time{}, err
	}

	ruleNext, ruleErr := e.nextFromRule(series, start, after, loc)
	rdateNext, haveRDate := nextFromRDates(series, after, loc)

	switch {
	case ruleErr == nil && haveRDate:
		if rdateNext.Before(ruleNext) {
			return rdateNext, nil
		}
		return ruleNext, nil
	case ruleErr == nil:
		return ruleNext, nil
	case haveRDate:
		return rdateNext, nil
	default:
		return time.Time{}, ruleErr
	}
}

// nextFromRule walks the rule occurrences past exclusions. Returns
// rrule.ErrExhausted when the series has no rule, so callers can fall
// through to RDATE handling uniformly.
func (e *Engine) nextFromRule(series Series, start, after time.Time, loc *time.Location) (time.Time, error) {
	if series.Rule == nil {
		return time.Time{}, rrule.ErrExhausted
	}
	it, err := series.Rule.Iterator(start, loc)
	if err != nil {
		return time.Time{}, err
	}
	for walked := 0; walked < e.config.MaxExpansionOccurrences; walked++ {
		next, err := it.Next()
		if err != nil {
			return time.Time{}, err
		}
		if !next.After(after) || series.excluded(next) {
			continue
		}
		return next, nil
	}
	return time.Time{}, fmt.Errorf("recurrence: no due time within %d occurrences: %w",
		e.config.MaxExpansionOccurrences, rrule.ErrNoMatch)
}

func nextFromRDates(series Series, after time.Time, loc *time.Location) (time.Time, bool) {
	var best time.Time
	found := false
	for _, rd := range series.RDates {
		if !rd.After(after) || series.excluded(rd) {
			continue
		}
		if !found || rd.Before(best) {
			best = rd
			found = true
		}
	}
	if !found {
		return time.Time{}, false
	}
	return best.In(loc), true
}

// ExpandRange lists the due instants of the series that fall within
// [rangeStart, rangeEnd], in ascending order, expressed in the named zone.
// The series start itself is part of the series and is included when it
// falls in range and is not excluded. The result is capped at
// MaxExpansionOccurrences.
func (e *Engine) ExpandRange(series Series, start, rangeStart, rangeEnd time.Time, zoneName string) ([]time.Time, error) {
	loc, err := e.zone(zoneName)
	if err != nil {
		return nil, err
	}

	var key string
	if e.cache != nil {
		key = e.cache.key("expand/"+zoneName, series, start, rangeStart, rangeEnd)
		if cached, ok := e.cache.get(key); ok {
			return cached.times, nil
		}
	}

	occurrences, err := e.expand(series, start, rangeStart, rangeEnd, loc)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.set(key, cacheResult{times: occurrences})
	}
	return occurrences, nil
}

func (e *Engine) expand(series Series, start, rangeStart, rangeEnd time.Time, loc *time.Location) ([]time.Time, error) {
	var out []time.Time
	inRange := func(t time.Time) bool {
		return !t.Before(rangeStart) && !t.After(rangeEnd)
	}

	if inRange(start) && !series.excluded(start) {
		out = append(out, start.In(loc))
	}

	if series.Rule != nil {
		it, err := series.Rule.Iterator(start, loc)
		if err != nil {
			return nil, err
		}
		for walked := 0; walked < e.config.MaxExpansionOccurrences; walked++ {
			next, err := it.Next()
			if errors.Is(err, rrule.ErrExhausted) || errors.Is(err, rrule.ErrNoMatch) {
				break
			}
			if err != nil {
				return nil, err
			}
			if next.After(rangeEnd) {
				break
			}
			if next.Before(rangeStart) || series.excluded(next) {
				continue
			}
			out = append(out, next)
			if len(out) >= e.config.MaxExpansionOccurrences {
				break
			}
		}
	}

	for _, rd := range series.RDates {
		if inRange(rd) && !series.excluded(rd) {
			out = append(out, rd.In(loc))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	out = dedupeTimes(out)
	if len(out) > e.config.MaxExpansionOccurrences {
		out = out[:e.config.MaxExpansionOccurrences]
	}
	return out, nil
}

// OccursInRange reports whether the series has any due instant within
// [rangeStart, rangeEnd]. For large ranges a limited window is checked
// first, which answers most queries without a full expansion.
func (e *Engine) OccursInRange(series Series, start, rangeStart, rangeEnd time.Time, zoneName string) (bool, error) {
	loc, err := e.zone(zoneName)
	if err != nil {
		return false, err
	}

	// Fast path: the series start needs no expansion at all.
	if !start.Before(rangeStart) && !start.After(rangeEnd) && !series.excluded(start) {
		return true, nil
	}
	for _, rd := range series.RDates {
		if !rd.Before(rangeStart) && !rd.After(rangeEnd) && !series.excluded(rd) {
			return true, nil
		}
	}
	if series.Rule == nil {
		return false, nil
	}

	var key string
	if e.cache != nil {
		key = e.cache.key("occurs/"+zoneName, series, start, rangeStart, rangeEnd)
		if cached, ok := e.cache.get(key); ok {
			return cached.occurs, nil
		}
	}

	limitedEnd := rangeEnd
	if e.config.LargeRangeThreshold > 0 && rangeEnd.Sub(rangeStart) > e.config.LargeRangeThreshold {
		limitedEnd = rangeStart.Add(e.config.LargeRangeLimit)
	}
	occurrences, err := e.expand(series, start, rangeStart, limitedEnd, loc)
	if err != nil {
		return false, err
	}
	occurs := len(occurrences) > 0
	if !occurs && limitedEnd.Before(rangeEnd) {
		occurrences, err = e.expand(series, start, rangeStart, rangeEnd, loc)
		if err != nil {
			return false, err
		}
		occurs = len(occurrences) > 0
	}

	if e.cache != nil {
		e.cache.set(key, cacheResult{occurs: occurs})
	}
	return occurs, nil
}

// CacheStats reports cache occupancy, or the zero value when caching is off.
func (e *Engine) CacheStats() CacheStats {
	if e.cache == nil {
		return CacheStats{}
	}
	return e.cache.Stats()
}

func (e *Engine) zone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("recurrence: zone name required: %w", rrule.ErrInvalidAnchor)
	}
	loc, err := e.zones.Zone(name)
	if err != nil {
		return nil, fmt.Errorf("recurrence: resolve zone %q: %w", name, err)
	}
	return loc, nil
}

func dedupeTimes(ts []time.Time) []time.Time {
	if len(ts) < 2 {
		return ts
	}
	out := ts[:1]
	for _, t := range ts[1:] {
		if !t.Equal(out[len(out)-1]) {
			out = append(out, t)
		}
	}
	return out
}
