package patterns

import (
	"time"

	"github.com/willfong/restaurant-datagen/internal/utils"
)

// AnomalySettings configures the two demand anomalies of a run
type AnomalySettings struct {
	DipMultiplier    float64
	DipLengthDays    int
	DipOffsetMinDays int
	DipOffsetMaxDays int

	PromoMultiplier    float64
	PromoOffsetMinDays int
	PromoOffsetMaxDays int
}

// Anomalies holds a seven-day demand dip and a single promotion day, both
// fixed once per run before any day is generated. They apply to all stores.
type Anomalies struct {
	DipStart time.Time
	DipEnd   time.Time // exclusive
	PromoDay time.Time

	dipMultiplier   float64
	promoMultiplier float64
}

// NewAnomalies places the dip and the promotion day at random offsets from
// the horizon start. A promotion day past the horizon end simply never
// matches.
func NewAnomalies(start time.Time, s AnomalySettings, rng *utils.Random) *Anomalies {
	start = Midnight(start)
	dipStart := start.AddDate(0, 0, rng.IntRange(s.DipOffsetMinDays, s.DipOffsetMaxDays))
	promo := start.AddDate(0, 0, rng.IntRange(s.PromoOffsetMinDays, s.PromoOffsetMaxDays))

	return &Anomalies{
		DipStart:        dipStart,
		DipEnd:          dipStart.AddDate(0, 0, s.DipLengthDays),
		PromoDay:        promo,
		dipMultiplier:   s.DipMultiplier,
		promoMultiplier: s.PromoMultiplier,
	}
}

// InDip reports whether day falls in [DipStart, DipEnd).
func (a *Anomalies) InDip(day time.Time) bool {
	day = Midnight(day)
	return !day.Before(a.DipStart) && day.Before(a.DipEnd)
}

// IsPromoDay reports whether day is the promotion day.
func (a *Anomalies) IsPromoDay(day time.Time) bool {
	return Midnight(day).Equal(a.PromoDay)
}

// Multiplier returns the combined anomaly multiplier for a day.
func (a *Anomalies) Multiplier(day time.Time) float64 {
	m := 1.0
	if a.InDip(day) {
		m *= a.dipMultiplier
	}
	if a.IsPromoDay(day) {
		m *= a.promoMultiplier
	}
	return m
}
