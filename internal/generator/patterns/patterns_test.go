package patterns

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

func testAnomalySettings() AnomalySettings {
	return AnomalySettings{
		DipMultiplier:      config.DipMultiplier,
		DipLengthDays:      config.DipLengthDays,
		DipOffsetMinDays:   config.DipOffsetMinDays,
		DipOffsetMaxDays:   config.DipOffsetMaxDays,
		PromoMultiplier:    config.PromoMultiplier,
		PromoOffsetMinDays: config.PromoOffsetMinDays,
		PromoOffsetMaxDays: config.PromoOffsetMaxDays,
	}
}

func TestDailyPattern(t *testing.T) {
	dp, err := NewDailyPattern(config.NewTables().HourWeights())
	require.NoError(t, err)

	t.Run("dinner outweighs lunch outweighs night", func(t *testing.T) {
		assert.Greater(t, dp.Share(20), dp.Share(12))
		assert.Greater(t, dp.Share(12), dp.Share(3))
		assert.True(t, dp.IsPeakHour(20))
		assert.False(t, dp.IsPeakHour(3))
	})

	t.Run("sampled shares follow weights", func(t *testing.T) {
		rng := utils.NewRandom(42)
		counts := make([]int, 24)
		n := 50000
		for i := 0; i < n; i++ {
			counts[dp.SampleHour(rng)]++
		}
		// hours 19-22 carry 4 x 0.40 of a 3.97 total
		dinner := counts[19] + counts[20] + counts[21] + counts[22]
		share := float64(dinner) / float64(n)
		assert.InDelta(t, 1.6/3.97, share, 0.02)
	})

	t.Run("timestamp stays on the day", func(t *testing.T) {
		rng := utils.NewRandom(1)
		day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 1000; i++ {
			ts := dp.Timestamp(day, rng)
			assert.Equal(t, day, Midnight(ts))
		}
	})

	t.Run("all zero weights rejected", func(t *testing.T) {
		_, err := NewDailyPattern([24]float64{})
		assert.True(t, errors.Is(err, ErrNoWeight))
	})
}

func TestWeeklyPattern(t *testing.T) {
	wp := NewWeeklyPattern(config.NewTables().WeekdayMultipliers)

	tests := []struct {
		weekday time.Weekday
		want    float64
	}{
		{time.Monday, 0.8},
		{time.Tuesday, 0.9},
		{time.Wednesday, 0.95},
		{time.Thursday, 1.0},
		{time.Friday, 1.3},
		{time.Saturday, 1.5},
		{time.Sunday, 1.4},
	}
	for _, tt := range tests {
		t.Run(tt.weekday.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, wp.GetMultiplier(tt.weekday))
		})
	}

	share := wp.ExpectedWeekShare()
	sum := 0.0
	for _, s := range share {
		sum += s
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestHorizon(t *testing.T) {
	now := time.Date(2024, 7, 1, 15, 30, 0, 0, time.UTC)
	h := NewHorizon(now, 6, 30)

	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), h.End)
	assert.Equal(t, h.End.AddDate(0, 0, -180), h.Start)
	assert.Equal(t, 181, h.NumDays())

	days := h.Days()
	require.Len(t, days, 181)
	assert.Equal(t, h.Start, days[0])
	assert.Equal(t, h.End, days[180])
	assert.True(t, h.Contains(now))
	assert.False(t, h.Contains(h.End.AddDate(0, 0, 1)))
}

func TestMonthPeriods(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	periods := MonthPeriods(from, 6, 30)
	require.Len(t, periods, 6)

	assert.Equal(t, from, periods[0].From)
	for i := 0; i < len(periods)-1; i++ {
		require.NotNil(t, periods[i].Until)
		assert.Equal(t, *periods[i].Until, periods[i+1].From)
		assert.Equal(t, 30*24*time.Hour, periods[i].Until.Sub(periods[i].From))
	}
	assert.Nil(t, periods[5].Until)

	assert.Nil(t, MonthPeriods(from, 0, 30))
}

func TestAnomalies(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for seed := int64(1); seed <= 50; seed++ {
		a := NewAnomalies(start, testAnomalySettings(), utils.NewRandom(seed))

		offset := int(a.DipStart.Sub(start).Hours() / 24)
		assert.GreaterOrEqual(t, offset, 30)
		assert.LessOrEqual(t, offset, 60)
		assert.Equal(t, 7*24*time.Hour, a.DipEnd.Sub(a.DipStart))

		promo := int(a.PromoDay.Sub(start).Hours() / 24)
		assert.GreaterOrEqual(t, promo, 90)
		assert.LessOrEqual(t, promo, 120)
	}

	a := NewAnomalies(start, testAnomalySettings(), utils.NewRandom(7))
	assert.Equal(t, 0.7, a.Multiplier(a.DipStart))
	assert.Equal(t, 0.7, a.Multiplier(a.DipEnd.AddDate(0, 0, -1).Add(23*time.Hour)))
	assert.Equal(t, 1.0, a.Multiplier(a.DipEnd))
	assert.Equal(t, 3.0, a.Multiplier(a.PromoDay.Add(20*time.Hour)))
	assert.Equal(t, 1.0, a.Multiplier(a.PromoDay.AddDate(0, 0, 1)))
}

func TestDemandModel(t *testing.T) {
	tables := config.NewTables()
	dp, err := NewDailyPattern(tables.HourWeights())
	require.NoError(t, err)

	dm := &DemandModel{
		Mean:   config.DemandMean,
		StdDev: config.DemandStdDev,
		Weekly: NewWeeklyPattern(tables.WeekdayMultipliers),
		Daily:  dp,
	}

	t.Run("mean follows weekday multiplier", func(t *testing.T) {
		rng := utils.NewRandom(42)
		saturday := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
		sum := 0
		n := 2000
		for i := 0; i < n; i++ {
			sum += dm.DailyCount(saturday, rng)
		}
		mean := float64(sum) / float64(n)
		assert.InDelta(t, 2700*1.5, mean, 50)
		assert.Equal(t, 2700*1.5, dm.ExpectedCount(saturday))
	})

	t.Run("negative draws give zero", func(t *testing.T) {
		low := &DemandModel{Mean: -1000, StdDev: 1, Weekly: dm.Weekly, Daily: dp}
		rng := utils.NewRandom(3)
		for i := 0; i < 100; i++ {
			assert.Equal(t, 0, low.DailyCount(time.Now(), rng))
		}
	})

	t.Run("anomalies scale the count", func(t *testing.T) {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		withAnomalies := *dm
		withAnomalies.Anomalies = NewAnomalies(start, testAnomalySettings(), utils.NewRandom(9))
		promo := withAnomalies.Anomalies.PromoDay
		assert.InDelta(t, dm.Multiplier(promo)*3.0, withAnomalies.Multiplier(promo), 1e-9)
	})
}

func TestWeightedPool(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := NewWeightedPool("products", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoWeight))
		assert.Contains(t, err.Error(), "products")
	})

	t.Run("all zero", func(t *testing.T) {
		_, err := NewWeightedPool("channels", []float64{0, 0, -1})
		assert.True(t, errors.Is(err, ErrNoWeight))
	})

	t.Run("relative weights", func(t *testing.T) {
		pool, err := NewWeightedPool("channels", []float64{0.40, 0.30, 0.15, 0.08, 0.05, 0.02})
		require.NoError(t, err)
		assert.InDelta(t, 0.40, pool.Probability(0), 1e-9)
		assert.InDelta(t, 0.02, pool.Probability(5), 1e-9)

		rng := utils.NewRandom(11)
		counts := make([]int, pool.Len())
		n := 50000
		for i := 0; i < n; i++ {
			counts[pool.Pick(rng)]++
		}
		assert.InDelta(t, 0.40, float64(counts[0])/float64(n), 0.01)
		assert.InDelta(t, 0.30, float64(counts[1])/float64(n), 0.01)
	})
}

func TestProductCount(t *testing.T) {
	rng := utils.NewRandom(42)
	counts := make(map[int]int)
	n := 20000
	for i := 0; i < n; i++ {
		c := ProductCount(rng, config.ProductCountRate, config.MaxProductsPerSale)
		require.GreaterOrEqual(t, c, 1)
		require.LessOrEqual(t, c, 5)
		counts[c]++
	}
	// P(1) = 1 - e^-0.5 ~ 0.393
	assert.InDelta(t, 0.393, float64(counts[1])/float64(n), 0.02)
	assert.Greater(t, counts[1], counts[2])
	assert.Greater(t, counts[2], counts[3])
}

func TestCostPatterns(t *testing.T) {
	for _, p := range models.CostPatterns() {
		_, _, err := CostFactorRange(p)
		assert.NoError(t, err, "pattern %s", p)
	}

	_, err := NextCost(models.CostPattern("seasonal"), utils.Reais(10), utils.NewRandom(1))
	assert.Error(t, err)

	t.Run("stable walk from 10.00", func(t *testing.T) {
		rng := utils.NewRandom(42)
		series, err := CostSeries(models.CostStable, utils.Reais(10), 6, rng)
		require.NoError(t, err)
		require.Len(t, series, 6)

		prev := utils.Reais(10)
		for i, cost := range series {
			assert.False(t, cost.IsNegative(), "month %d", i)
			lo := float64(prev)*0.95 - 0.5
			hi := float64(prev)*1.05 + 0.5
			assert.GreaterOrEqual(t, float64(cost), lo, "month %d", i)
			assert.LessOrEqual(t, float64(cost), hi, "month %d", i)
			prev = cost
		}
	})

	t.Run("directional patterns", func(t *testing.T) {
		rng := utils.NewRandom(5)
		for i := 0; i < 500; i++ {
			up, _ := NextCost(models.CostIncreasing, utils.Reais(10), rng)
			assert.GreaterOrEqual(t, up, utils.Reais(10))
			down, _ := NextCost(models.CostDecreasing, utils.Reais(10), rng)
			assert.LessOrEqual(t, down, utils.Reais(10))
			vol, _ := NextCost(models.CostVolatile, utils.Reais(10), rng)
			assert.GreaterOrEqual(t, vol, utils.Reais(8))
			assert.LessOrEqual(t, vol, utils.Reais(12))
		}
	})
}
