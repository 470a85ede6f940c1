package generator

import (
	"context"
	"sort"
	"time"

	"github.com/willfong/restaurant-datagen/internal/generator/patterns"
	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

// Totals accumulates what a day (or a whole run) produced. Days return their
// own Totals and the orchestrator merges them; nothing is counted on shared
// state.
type Totals struct {
	Sales      int
	Completed  int
	Cancelled  int
	Lines      int
	Items      int
	Deliveries int
	Payments   int
	Anonymous  int

	Gross utils.Money // sum of total_amount
	Paid  utils.Money // sum of value_paid
}

// Count adds one sale
func (t *Totals) Count(s *models.Sale) {
	t.Sales++
	if s.IsCompleted() {
		t.Completed++
	} else {
		t.Cancelled++
	}
	if s.CustomerID == nil {
		t.Anonymous++
	}
	t.Lines += len(s.Lines)
	t.Items += s.ItemCount()
	if s.Delivery != nil {
		t.Deliveries++
	}
	t.Payments += len(s.Payments)
	t.Gross += s.TotalAmount
	t.Paid += s.ValuePaid
}

// Add returns the sum of two totals
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Sales:      t.Sales + o.Sales,
		Completed:  t.Completed + o.Completed,
		Cancelled:  t.Cancelled + o.Cancelled,
		Lines:      t.Lines + o.Lines,
		Items:      t.Items + o.Items,
		Deliveries: t.Deliveries + o.Deliveries,
		Payments:   t.Payments + o.Payments,
		Anonymous:  t.Anonymous + o.Anonymous,
		Gross:      t.Gross + o.Gross,
		Paid:       t.Paid + o.Paid,
	}
}

// AvgLines returns the mean number of product lines per sale
func (t Totals) AvgLines() float64 {
	if t.Sales == 0 {
		return 0
	}
	return float64(t.Lines) / float64(t.Sales)
}

// DayBatch is one day of synthesized sales, sorted by creation time
type DayBatch struct {
	Day    time.Time
	Index  int
	Sales  []*models.Sale
	Totals Totals
}

// Synthesizer generates a day of sales. It only reads shared state, so
// several days can be synthesized in parallel as long as each gets its own
// rng.
type Synthesizer struct {
	demand   *patterns.DemandModel
	selector *Selector
	pricer   *Pricer
}

// NewSynthesizer creates a new day synthesizer
func NewSynthesizer(demand *patterns.DemandModel, selector *Selector, pricer *Pricer) *Synthesizer {
	return &Synthesizer{demand: demand, selector: selector, pricer: pricer}
}

// SynthesizeDay draws the day's count, then selects and prices each sale
func (s *Synthesizer) SynthesizeDay(ctx context.Context, index int, day time.Time, rng *utils.Random) (*DayBatch, error) {
	n := s.demand.DailyCount(day, rng)
	batch := &DayBatch{
		Day:   day,
		Index: index,
		Sales: make([]*models.Sale, 0, n),
	}

	for i := 0; i < n; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		intent := s.selector.Select(rng)
		sale := s.pricer.Price(intent, s.demand.Timestamp(day, rng), rng)
		batch.Sales = append(batch.Sales, sale)
		batch.Totals.Count(sale)
	}

	sort.SliceStable(batch.Sales, func(i, j int) bool {
		return batch.Sales[i].CreatedAt.Before(batch.Sales[j].CreatedAt)
	})
	return batch, nil
}
