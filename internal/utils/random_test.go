package utils

import (
	"testing"
	"time"
)

func TestRandomReproducibility(t *testing.T) {
	seed := int64(42)

	rng1 := NewRandom(seed)
	rng2 := NewRandom(seed)

	t.Run("Mixed operations", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			if rng1.IntN(100) != rng2.IntN(100) {
				t.Error("IntN mismatch")
				return
			}
			if rng1.Float64() != rng2.Float64() {
				t.Error("Float64 mismatch")
				return
			}
			if rng1.Beta(2, 5) != rng2.Beta(2, 5) {
				t.Error("Beta mismatch")
				return
			}
			if rng1.UUID() != rng2.UUID() {
				t.Error("UUID mismatch")
				return
			}
		}
	})
}

func TestRandomSeedStorage(t *testing.T) {
	rng := NewRandom(12345)
	if rng.Seed() != 12345 {
		t.Errorf("Expected seed 12345, got %d", rng.Seed())
	}

	rng = NewRandom(0)
	if rng.Seed() == 0 {
		t.Error("Expected non-zero auto-generated seed")
	}
}

func TestRandomForkN(t *testing.T) {
	forks1 := NewRandom(42).ForkN(5)
	forks2 := NewRandom(42).ForkN(5)

	for i := range forks1 {
		for j := 0; j < 100; j++ {
			if forks1[i].IntN(1000) != forks2[i].IntN(1000) {
				t.Errorf("Fork %d sequences don't match at iteration %d", i, j)
				return
			}
		}
	}
}

func TestRandomRanges(t *testing.T) {
	rng := NewRandom(42)

	t.Run("IntRange", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v := rng.IntRange(10, 20)
			if v < 10 || v > 20 {
				t.Errorf("IntRange(10, 20) returned %d", v)
			}
		}
	})

	t.Run("Float64Range", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			v := rng.Float64Range(1.0, 2.0)
			if v < 1.0 || v >= 2.0 {
				t.Errorf("Float64Range(1.0, 2.0) returned %f", v)
			}
		}
	})

	t.Run("Duration", func(t *testing.T) {
		min := 100 * time.Millisecond
		max := 500 * time.Millisecond
		for i := 0; i < 1000; i++ {
			v := rng.Duration(min, max)
			if v < min || v > max {
				t.Errorf("Duration(%v, %v) returned %v", min, max, v)
			}
		}
	})
}

func TestRandomProbability(t *testing.T) {
	rng := NewRandom(42)

	for i := 0; i < 100; i++ {
		if rng.Probability(0) {
			t.Error("Probability(0) returned true")
		}
		if !rng.Probability(1) {
			t.Error("Probability(1) returned false")
		}
	}

	trueCount := 0
	iterations := 10000
	for i := 0; i < iterations; i++ {
		if rng.Probability(0.7) {
			trueCount++
		}
	}
	ratio := float64(trueCount) / float64(iterations)
	if ratio < 0.67 || ratio > 0.73 {
		t.Errorf("Probability(0.7) returned %.2f%% true, expected ~70%%", ratio*100)
	}
}

func TestRandomWeightedPick(t *testing.T) {
	rng := NewRandom(42)

	weights := []int{1, 1, 1, 1000}
	counts := make([]int, len(weights))
	for i := 0; i < 10000; i++ {
		counts[rng.WeightedPick(weights)]++
	}
	if counts[3] < 9000 {
		t.Errorf("Weighted pick: expected index 3 to be picked >9000 times, got %d", counts[3])
	}
}

func TestRandomWeightedPickCumulative(t *testing.T) {
	rng := NewRandom(7)

	t.Run("proportions", func(t *testing.T) {
		// weights 0.40, 0.30, 0.30
		cumulative := []float64{0.40, 0.70, 1.00}
		counts := make([]int, 3)
		iterations := 20000
		for i := 0; i < iterations; i++ {
			counts[rng.WeightedPickCumulative(cumulative)]++
		}
		share := float64(counts[0]) / float64(iterations)
		if share < 0.38 || share > 0.42 {
			t.Errorf("index 0 share %.3f, expected ~0.40", share)
		}
	})

	t.Run("zero weight never picked", func(t *testing.T) {
		cumulative := []float64{1, 1, 2}
		for i := 0; i < 5000; i++ {
			if rng.WeightedPickCumulative(cumulative) == 1 {
				t.Fatal("picked index with zero weight")
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := rng.WeightedPickCumulative(nil); got != -1 {
			t.Errorf("expected -1, got %d", got)
		}
		if got := rng.WeightedPickCumulative([]float64{0, 0}); got != -1 {
			t.Errorf("expected -1 for zero total, got %d", got)
		}
	})
}

func TestRandomBeta(t *testing.T) {
	rng := NewRandom(42)

	// Beta(2,5) has mean 2/7
	sum := 0.0
	n := 20000
	for i := 0; i < n; i++ {
		v := rng.Beta(2, 5)
		if v < 0 || v > 1 {
			t.Fatalf("Beta(2,5) out of range: %f", v)
		}
		sum += v
	}
	mean := sum / float64(n)
	if mean < 0.27 || mean > 0.30 {
		t.Errorf("Beta(2,5) mean %.4f, expected ~0.2857", mean)
	}
}

func TestRandomExponential(t *testing.T) {
	rng := NewRandom(42)

	// rate 0.5 has mean 2
	sum := 0.0
	n := 20000
	for i := 0; i < n; i++ {
		sum += rng.Exponential(0.5)
	}
	mean := sum / float64(n)
	if mean < 1.9 || mean > 2.1 {
		t.Errorf("Exponential(0.5) mean %.3f, expected ~2", mean)
	}
}

func TestRandomUUID(t *testing.T) {
	rng := NewRandom(42)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := rng.UUID()
		if id.Version() != 4 {
			t.Fatalf("expected version 4, got %d", id.Version())
		}
		if seen[id.String()] {
			t.Fatalf("duplicate uuid %s", id)
		}
		seen[id.String()] = true
	}
}

func TestRandomNumericString(t *testing.T) {
	rng := NewRandom(42)

	str := rng.NumericString(10)
	if len(str) != 10 {
		t.Errorf("NumericString(10) returned length %d", len(str))
	}
	for _, c := range str {
		if c < '0' || c > '9' {
			t.Errorf("NumericString contained non-digit: %c", c)
		}
	}
}
