package patterns

import (
	"errors"
	"fmt"
	"math"

	"github.com/willfong/restaurant-datagen/internal/utils"
)

// ErrNoWeight is returned when a weighted pool is empty or sums to zero
var ErrNoWeight = errors.New("no positive weight")

func errEmptyPool(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNoWeight)
}

// WeightedPool samples indexes in proportion to non-negative weights.
// Weights need not be normalized.
type WeightedPool struct {
	cumulative []float64
}

// NewWeightedPool builds a pool from weights. Negative weights count as zero.
// Returns an error wrapping ErrNoWeight when nothing can be drawn.
func NewWeightedPool(name string, weights []float64) (*WeightedPool, error) {
	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w) {
			total += w
		}
		cumulative[i] = total
	}
	if total <= 0 {
		return nil, errEmptyPool(name)
	}
	return &WeightedPool{cumulative: cumulative}, nil
}

// Pick draws one index.
func (p *WeightedPool) Pick(rng *utils.Random) int {
	return rng.WeightedPickCumulative(p.cumulative)
}

// Len returns the number of entries, including zero-weight ones.
func (p *WeightedPool) Len() int {
	return len(p.cumulative)
}

// Probability returns the chance of drawing index i.
func (p *WeightedPool) Probability(i int) float64 {
	if i < 0 || i >= len(p.cumulative) {
		return 0
	}
	prev := 0.0
	if i > 0 {
		prev = p.cumulative[i-1]
	}
	return (p.cumulative[i] - prev) / p.cumulative[len(p.cumulative)-1]
}

// ProductCount draws how many product lines a sale has:
// min(maxCount, max(1, floor(Exp(rate)) + 1)). Most sales have one or two.
func ProductCount(rng *utils.Random, rate float64, maxCount int) int {
	n := int(math.Floor(rng.Exponential(rate))) + 1
	if n < 1 {
		n = 1
	}
	if n > maxCount {
		n = maxCount
	}
	return n
}

// Popularity draws a product's fixed popularity weight from Beta(alpha, beta).
func Popularity(rng *utils.Random, alpha, beta float64) float64 {
	return rng.Beta(alpha, beta)
}
