package patterns

import (
	"fmt"

	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

// CostFactorRange returns the monthly multiplicative factor range [lo, hi)
// for a cost pattern.
func CostFactorRange(p models.CostPattern) (lo, hi float64, err error) {
	switch p {
	case models.CostStable:
		return 0.95, 1.05, nil
	case models.CostIncreasing:
		return 1.0, 1.15, nil
	case models.CostDecreasing:
		return 0.85, 1.0, nil
	case models.CostVolatile:
		return 0.80, 1.20, nil
	default:
		return 0, 0, fmt.Errorf("unknown cost pattern %q", p)
	}
}

// NextCost applies one month of the pattern to the current cost, rounding to
// the cent. The result feeds the next month, so the series is a random walk
// from the initial cost.
func NextCost(p models.CostPattern, current utils.Money, rng *utils.Random) (utils.Money, error) {
	lo, hi, err := CostFactorRange(p)
	if err != nil {
		return 0, err
	}
	return current.MulFloat(rng.Float64Range(lo, hi)), nil
}

// CostSeries walks n months forward from initial and returns each month's
// cost. The first entry is already one step away from initial.
func CostSeries(p models.CostPattern, initial utils.Money, n int, rng *utils.Random) ([]utils.Money, error) {
	series := make([]utils.Money, 0, n)
	cost := initial
	for i := 0; i < n; i++ {
		next, err := NextCost(p, cost, rng)
		if err != nil {
			return nil, err
		}
		series = append(series, next)
		cost = next
	}
	return series, nil
}
