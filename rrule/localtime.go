package rrule

import "time"

// resolveLocal converts a wall-clock reading in loc to an instant, with a
// fixed policy for daylight-saving transitions:
//
//   - A wall time inside a spring-forward gap does not exist; it resolves to
//     the first valid local time after the gap (the transition instant).
//   - A wall time inside a fall-back overlap names two instants; it resolves
//     to the earlier one.
//
// time.Date leaves the choice unspecified in both cases, so the resolution
// is done here by probing the zone offsets in effect around the wall time.
func resolveLocal(year int, month time.Month, day, hour, min, sec, nsec int, loc *time.Location) time.Time {
	// The wall reading re-interpreted as UTC, so offsets can be applied to
	// it as plain duration arithmetic.
	wall := time.Date(year, month, day, hour, min, sec, nsec, time.UTC)

	// Offsets in effect within ~a day on either side of the wall time cover
	// any single transition, including half-hour and negative-DST zones.
	offBefore := offsetAt(wall.Add(-26*time.Hour), loc)
	offAfter := offsetAt(wall.Add(26*time.Hour), loc)

	offsets := []int{offBefore}
	if offAfter != offBefore {
		offsets = append(offsets, offAfter)
	}
	var candidates []time.Time
	for _, off := range offsets {
		inst := wall.Add(-time.Duration(off) * time.Second)
		if offsetAt(inst, loc) == off {
			candidates = append(candidates, inst)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0].In(loc)
	case 2:
		// Fall-back overlap: the earlier instant wins.
		if candidates[1].Before(candidates[0]) {
			return candidates[1].In(loc)
		}
		return candidates[0].In(loc)
	}

	// Spring-forward gap. The first valid local time after the gap is the
	// transition instant itself; binary-search for the first second that
	// carries the post-transition offset.
	lo := wall.Add(-time.Duration(offAfter) * time.Second).Unix()
	hi := wall.Add(-time.Duration(offBefore) * time.Second).Unix()
	if hi <= lo {
		// No transition found in the probe window; defer to time.Date.
		return time.Date(year, month, day, hour, min, sec, nsec, loc)
	}
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if offsetAt(time.Unix(mid, 0), loc) == offAfter {
			hi = mid
		} else {
			lo = mid
		}
	}
	return time.Unix(hi, 0).In(loc)
}

// offsetAt returns the UTC offset in seconds in effect at instant t in loc.
func offsetAt(t time.Time, loc *time.Location) int {
	_, off := t.In(loc).Zone()
	return off
}
