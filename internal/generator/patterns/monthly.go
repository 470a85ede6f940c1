package patterns

import (
	"time"
)

// Horizon is the inclusive range of calendar days covered by a run.
// Start and End are both local midnights.
type Horizon struct {
	Start time.Time
	End   time.Time
}

// NewHorizon returns the horizon ending on the day of now and starting
// months x daysPerMonth days earlier.
func NewHorizon(now time.Time, months, daysPerMonth int) Horizon {
	end := Midnight(now)
	return Horizon{
		Start: end.AddDate(0, 0, -months*daysPerMonth),
		End:   end,
	}
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Days returns every day of the horizon in order, both ends included.
func (h Horizon) Days() []time.Time {
	var days []time.Time
	for d := h.Start; !d.After(h.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// NumDays returns the number of days in the horizon.
func (h Horizon) NumDays() int {
	n := 0
	for d := h.Start; !d.After(h.End); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// Contains reports whether day falls within the horizon.
func (h Horizon) Contains(day time.Time) bool {
	day = Midnight(day)
	return !day.Before(h.Start) && !day.After(h.End)
}

// Period is a half-open validity interval. A nil Until means open-ended.
type Period struct {
	From  time.Time
	Until *time.Time
}

// MonthPeriods splits time from `from` into n contiguous periods of
// periodDays each. Every Until equals the next From; the last is open-ended.
func MonthPeriods(from time.Time, n, periodDays int) []Period {
	if n <= 0 {
		return nil
	}

	periods := make([]Period, n)
	for i := 0; i < n; i++ {
		start := from.AddDate(0, 0, i*periodDays)
		periods[i].From = start
		if i < n-1 {
			until := from.AddDate(0, 0, (i+1)*periodDays)
			periods[i].Until = &until
		}
	}
	return periods
}
