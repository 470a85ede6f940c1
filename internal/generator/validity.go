package generator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/generator/patterns"
	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

// ValidityGenerator produces the time-partitioned financial series: product
// costs, operating expenses, fixed costs and channel commissions.
type ValidityGenerator struct {
	rng    *utils.Random
	tables *config.Tables
	config ValidityGeneratorConfig
	title  cases.Caser
}

// ValidityGeneratorConfig holds the horizon the series cover
type ValidityGeneratorConfig struct {
	// Start is the first day of the horizon; monthly series begin here
	Start  time.Time
	Months int
	// Now anchors fixed-cost start dates and the commission cutover
	Now time.Time
}

// NewValidityGenerator creates a new validity-range generator
func NewValidityGenerator(rng *utils.Random, tables *config.Tables, cfg ValidityGeneratorConfig) *ValidityGenerator {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	return &ValidityGenerator{
		rng:    rng,
		tables: tables,
		config: cfg,
		title:  cases.Title(language.English),
	}
}

// ProductCosts walks each product's cost month by month from a base of
// 30-40% of its price. Records are contiguous 30-day periods and the last one
// stays open.
func (g *ValidityGenerator) ProductCosts(products []models.Product, suppliers []models.Supplier) ([]models.ProductCost, error) {
	if len(suppliers) == 0 && len(products) > 0 {
		return nil, configErr("suppliers", "product costs need at least one supplier")
	}

	periods := patterns.MonthPeriods(g.config.Start, g.config.Months, config.DaysPerMonth)
	costs := make([]models.ProductCost, 0, len(products)*len(periods))

	for i := range products {
		p := &products[i]
		base := p.BasePrice.MulFloat(g.rng.Float64Range(config.BaseCostMinRatio, config.BaseCostMaxRatio))
		supplierID := suppliers[g.rng.IntN(len(suppliers))].ID

		series, err := patterns.CostSeries(p.CostPattern, base, len(periods), g.rng)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", p.ID, err)
		}

		for m, period := range periods {
			var notes *string
			if g.rng.Probability(config.CostNoteProbability) {
				n := g.rng.PickString(g.tables.CostNotes)
				notes = &n
			}
			costs = append(costs, models.ProductCost{
				ProductID:  p.ID,
				SupplierID: supplierID,
				Cost:       series[m],
				ValidFrom:  period.From,
				ValidUntil: period.Until,
				Notes:      notes,
				CreatedAt:  g.config.Now,
			})
		}
	}
	return costs, nil
}

// OperatingExpenses draws a base amount per store and category once, then
// varies it by up to ExpenseNoise each month
func (g *ValidityGenerator) OperatingExpenses(stores []models.Store) []models.OperatingExpense {
	ranges := g.tables.ExpenseRanges
	expenses := make([]models.OperatingExpense, 0, len(stores)*g.config.Months*len(ranges))

	for _, s := range stores {
		base := make([]utils.Money, len(ranges))
		for i, r := range ranges {
			base[i] = utils.RandomAmount(g.rng, r.Min, r.Max)
		}

		for m := 0; m < g.config.Months; m++ {
			period := g.config.Start.AddDate(0, 0, m*config.DaysPerMonth)
			for i, r := range ranges {
				noise := g.rng.Float64Range(1-config.ExpenseNoise, 1+config.ExpenseNoise)
				expenses = append(expenses, models.OperatingExpense{
					StoreID:     s.ID,
					Category:    r.Category,
					Amount:      base[i].MulFloat(noise),
					Period:      period,
					Description: fmt.Sprintf("%s - %s", g.title.String(string(r.Category)), period.Format("January 2006")),
					CreatedAt:   g.config.Now,
				})
			}
		}
	}
	return expenses
}

// FixedCosts creates one record per store and fixed-cost type. A small share
// of contracts end one year after they started.
func (g *ValidityGenerator) FixedCosts(stores []models.Store) []models.FixedCost {
	costs := make([]models.FixedCost, 0, len(stores)*len(g.tables.FixedCosts))

	for _, s := range stores {
		for _, spec := range g.tables.FixedCosts {
			start := g.config.Now.AddDate(0, 0, -g.rng.IntRange(config.FixedCostStartMinDays, config.FixedCostStartMaxDays))
			var end *time.Time
			if g.rng.Probability(config.FixedCostEndProbability) {
				e := start.AddDate(0, 0, config.FixedCostTermDays)
				end = &e
			}
			costs = append(costs, models.FixedCost{
				StoreID:     s.ID,
				Name:        spec.Name,
				Amount:      utils.RandomAmount(g.rng, spec.Min, spec.Max),
				Frequency:   spec.Frequency,
				StartDate:   start,
				EndDate:     end,
				Description: fmt.Sprintf("%s - Loja #%d", spec.Name, s.ID),
				CreatedAt:   g.config.Now,
			})
		}
	}
	return costs
}

// Commissions gives every commission-bearing channel exactly two records: a
// previous rate from a year ago until the cutover and the current rate from
// the cutover on.
func (g *ValidityGenerator) Commissions(channels []models.Channel) []models.ChannelCommission {
	now := g.config.Now
	historyStart := now.AddDate(0, 0, -config.CommissionHistoryDays)
	cutover := now.AddDate(0, 0, -config.CommissionCutoverDays)

	var out []models.ChannelCommission
	for _, c := range channels {
		if c.Commission <= 0 {
			continue
		}
		until := cutover
		previous := c.Commission + g.rng.Float64Range(-config.CommissionJitter, config.CommissionJitter)
		out = append(out,
			models.ChannelCommission{
				ChannelID:  c.ID,
				Rate:       decimal.NewFromFloat(previous).Round(2),
				ValidFrom:  historyStart,
				ValidUntil: &until,
				Notes:      config.PreviousRateNote,
				CreatedAt:  now,
			},
			models.ChannelCommission{
				ChannelID: c.ID,
				Rate:      decimal.NewFromFloat(c.Commission).Round(2),
				ValidFrom: cutover,
				Notes:     config.CurrentRateNote,
				CreatedAt: now,
			},
		)
	}
	return out
}
