package patterns

import (
	"math"
	"time"

	"github.com/willfong/restaurant-datagen/internal/utils"
)

// DemandModel turns a calendar day into a sale count and a timestamp sampler.
//
//	count = round(Normal(mean, stddev) x weekday(day) x anomaly(day)), floored at 0
type DemandModel struct {
	Mean   float64
	StdDev float64

	Weekly    *WeeklyPattern
	Daily     *DailyPattern
	Anomalies *Anomalies
}

// DailyCount draws the number of sales for a day. A non-positive draw
// yields zero sales.
func (dm *DemandModel) DailyCount(day time.Time, rng *utils.Random) int {
	base := rng.NormalFloat64Range(dm.Mean, dm.StdDev)
	mult := dm.Multiplier(day)
	count := math.Round(base * mult)
	if count <= 0 {
		return 0
	}
	return int(count)
}

// Multiplier returns the weekday and anomaly multipliers combined.
func (dm *DemandModel) Multiplier(day time.Time) float64 {
	m := dm.Weekly.GetMultiplierForDate(day)
	if dm.Anomalies != nil {
		m *= dm.Anomalies.Multiplier(day)
	}
	return m
}

// ExpectedCount is the mean sale count for a day, ignoring noise.
func (dm *DemandModel) ExpectedCount(day time.Time) float64 {
	return dm.Mean * dm.Multiplier(day)
}

// Timestamp draws a sale time on the given day.
func (dm *DemandModel) Timestamp(day time.Time, rng *utils.Random) time.Time {
	return dm.Daily.Timestamp(day, rng)
}
