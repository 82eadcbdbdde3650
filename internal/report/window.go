package report

import "time"

// Window is the half-open [Start, End) range a report covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// LastWeek returns the previous calendar week in loc: from Monday 00:00 one
// week before the Monday of the week containing now, up to (and excluding)
// that Monday. Both bounds are midnights in loc.
func LastWeek(now time.Time, loc *time.Location) Window {
	local := now.In(loc)

	daysSinceMonday := int(local.Weekday() - time.Monday)
	if daysSinceMonday < 0 {
		daysSinceMonday += 7 // Sunday
	}

	monday := time.Date(local.Year(), local.Month(), local.Day()-daysSinceMonday, 0, 0, 0, 0, loc)

	return Window{
		Start: monday.AddDate(0, 0, -7),
		End:   monday,
	}
}

// Since returns the window start as a UTC timestamp for the actions query.
func (w Window) Since() string {
	return w.Start.UTC().Format(time.RFC3339)
}

// Before returns the window end as a UTC timestamp for the actions query.
func (w Window) Before() string {
	return w.End.UTC().Format(time.RFC3339)
}

// LastDay returns the final day the window still includes. End itself is
// excluded, so this is End minus one day.
func (w Window) LastDay() time.Time {
	return w.End.AddDate(0, 0, -1)
}
