package patterns

import (
	"time"

	"github.com/willfong/restaurant-datagen/internal/utils"
)

// DailyPattern samples the hour of day a sale happens at.
// Restaurant traffic has a lunch peak (11-14) and a larger dinner peak (19-22),
// with a trickle overnight.
type DailyPattern struct {
	// Unnormalized weight per hour, index 0 = midnight
	hourWeights [24]float64

	// Running sums of hourWeights for categorical sampling
	cumulative []float64
}

// NewDailyPattern creates a pattern from 24 per-hour weights.
// Weights need not sum to 1; an all-zero table is rejected.
func NewDailyPattern(hourWeights [24]float64) (*DailyPattern, error) {
	dp := &DailyPattern{
		hourWeights: hourWeights,
		cumulative:  make([]float64, 24),
	}

	total := 0.0
	for h, w := range hourWeights {
		if w < 0 {
			w = 0
		}
		total += w
		dp.cumulative[h] = total
	}
	if total <= 0 {
		return nil, errEmptyPool("hour weights")
	}

	return dp, nil
}

// GetWeight returns the raw weight for an hour (0-23).
func (dp *DailyPattern) GetWeight(hour int) float64 {
	if hour < 0 || hour > 23 {
		return 0.0
	}
	return dp.hourWeights[hour]
}

// Share returns the probability that a sale falls in the given hour.
func (dp *DailyPattern) Share(hour int) float64 {
	return dp.GetWeight(hour) / dp.cumulative[23]
}

// SampleHour draws an hour by weighted categorical sampling.
func (dp *DailyPattern) SampleHour(rng *utils.Random) int {
	return rng.WeightedPickCumulative(dp.cumulative)
}

// Timestamp draws a time on the given day: hour from the hourly weights,
// minute and second uniform.
func (dp *DailyPattern) Timestamp(day time.Time, rng *utils.Random) time.Time {
	hour := dp.SampleHour(rng)
	minute := rng.IntN(60)
	second := rng.IntN(60)
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, second, 0, day.Location())
}

// IsPeakHour returns true if the hour is in the lunch or dinner rush.
func (dp *DailyPattern) IsPeakHour(hour int) bool {
	return dp.Share(hour) >= 0.05
}
