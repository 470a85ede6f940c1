package patterns

import (
	"time"
)

// WeeklyPattern provides demand multipliers based on day of week.
// Restaurants are busiest Friday through Sunday.
type WeeklyPattern struct {
	// Multipliers indexed Monday=0 .. Sunday=6
	multipliers [7]float64
}

// NewWeeklyPattern creates a pattern from a Monday-first multiplier table.
func NewWeeklyPattern(mondayFirst [7]float64) *WeeklyPattern {
	return &WeeklyPattern{multipliers: mondayFirst}
}

// GetMultiplier returns the multiplier for a weekday.
func (wp *WeeklyPattern) GetMultiplier(weekday time.Weekday) float64 {
	// time.Weekday counts from Sunday
	return wp.multipliers[(int(weekday)+6)%7]
}

// GetMultiplierForDate returns the multiplier for a specific date.
func (wp *WeeklyPattern) GetMultiplierForDate(t time.Time) float64 {
	return wp.GetMultiplier(t.Weekday())
}

// ExpectedWeekShare returns each weekday's share of a week's demand,
// Monday first.
func (wp *WeeklyPattern) ExpectedWeekShare() [7]float64 {
	var result [7]float64

	var total float64
	for _, m := range wp.multipliers {
		total += m
	}
	if total == 0 {
		return result
	}

	for day := 0; day < 7; day++ {
		result[day] = wp.multipliers[day] / total
	}
	return result
}
