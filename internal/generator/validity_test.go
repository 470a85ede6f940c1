package generator

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

func testValidityGenerator(seed int64, months int) *ValidityGenerator {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return NewValidityGenerator(utils.NewRandom(seed), config.NewTables(), ValidityGeneratorConfig{
		Start:  start,
		Months: months,
		Now:    testNow,
	})
}

func TestProductCosts(t *testing.T) {
	suppliers := []models.Supplier{{ID: 11}, {ID: 12}}

	t.Run("stable series from 10.00", func(t *testing.T) {
		g := testValidityGenerator(42, 6)
		// base = price x [0.30, 0.40); a 25.00 price keeps the base near 10.00
		products := []models.Product{{ID: 1, BasePrice: utils.Reais(25), CostPattern: models.CostStable}}

		costs, err := g.ProductCosts(products, suppliers)
		require.NoError(t, err)
		require.Len(t, costs, 6)

		base := costs[0].Cost
		assert.GreaterOrEqual(t, float64(base), float64(utils.Reais(25))*0.30*0.95-1)
		assert.LessOrEqual(t, float64(base), float64(utils.Reais(25))*0.40*1.05+1)

		for i := 1; i < len(costs); i++ {
			prev, cur := float64(costs[i-1].Cost), float64(costs[i].Cost)
			assert.False(t, costs[i].Cost.IsNegative())
			assert.GreaterOrEqual(t, cur, prev*0.95-0.5, "month %d", i)
			assert.LessOrEqual(t, cur, prev*1.05+0.5, "month %d", i)
		}
	})

	t.Run("contiguous periods with an open tail", func(t *testing.T) {
		g := testValidityGenerator(7, 6)
		products := []models.Product{
			{ID: 1, BasePrice: utils.Reais(30), CostPattern: models.CostIncreasing},
			{ID: 2, BasePrice: utils.Reais(45), CostPattern: models.CostVolatile},
		}
		costs, err := g.ProductCosts(products, suppliers)
		require.NoError(t, err)
		require.Len(t, costs, 12)

		for p := 0; p < 2; p++ {
			series := costs[p*6 : p*6+6]
			supplier := series[0].SupplierID
			for i, c := range series {
				assert.Equal(t, products[p].ID, c.ProductID)
				assert.Equal(t, supplier, c.SupplierID)
				if i == len(series)-1 {
					assert.Nil(t, c.ValidUntil)
					continue
				}
				require.NotNil(t, c.ValidUntil)
				assert.Equal(t, series[i+1].ValidFrom, *c.ValidUntil)
				assert.Equal(t, 30*24*time.Hour, c.ValidUntil.Sub(c.ValidFrom))
			}
		}
	})

	t.Run("needs a supplier", func(t *testing.T) {
		g := testValidityGenerator(1, 3)
		_, err := g.ProductCosts([]models.Product{{ID: 1, BasePrice: utils.Reais(10)}}, nil)
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("unknown pattern", func(t *testing.T) {
		g := testValidityGenerator(1, 3)
		_, err := g.ProductCosts([]models.Product{{ID: 9, BasePrice: utils.Reais(10), CostPattern: "seasonal"}}, suppliers)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "product 9")
	})
}

func TestOperatingExpenses(t *testing.T) {
	g := testValidityGenerator(3, 4)
	tables := config.NewTables()
	stores := []models.Store{{ID: 1}, {ID: 2}, {ID: 3}}

	expenses := g.OperatingExpenses(stores)
	require.Len(t, expenses, len(stores)*4*len(tables.ExpenseRanges))

	ranges := make(map[models.ExpenseCategory]config.ExpenseRange)
	for _, r := range tables.ExpenseRanges {
		ranges[r.Category] = r
	}

	for _, e := range expenses {
		r := ranges[e.Category]
		assert.GreaterOrEqual(t, float64(e.Amount), float64(r.Min)*(1-config.ExpenseNoise)-1, "%s", e.Category)
		assert.LessOrEqual(t, float64(e.Amount), float64(r.Max)*(1+config.ExpenseNoise)+1, "%s", e.Category)

		offset := e.Period.Sub(g.config.Start)
		assert.Zero(t, offset%(30*24*time.Hour))

		label := strings.ToUpper(string(e.Category[:1])) + string(e.Category[1:])
		assert.Equal(t, fmt.Sprintf("%s - %s", label, e.Period.Format("January 2006")), e.Description)
	}
	assert.Equal(t, "Labor - January 2024", expenses[0].Description)
}

func TestFixedCosts(t *testing.T) {
	g := testValidityGenerator(5, 6)
	tables := config.NewTables()
	stores := make([]models.Store, 50)
	for i := range stores {
		stores[i].ID = int64(i + 1)
	}

	costs := g.FixedCosts(stores)
	require.Len(t, costs, len(stores)*len(tables.FixedCosts))

	ended := 0
	for _, c := range costs {
		age := testNow.Sub(c.StartDate)
		assert.GreaterOrEqual(t, age, 180*24*time.Hour)
		assert.LessOrEqual(t, age, 730*24*time.Hour)
		assert.Equal(t, fmt.Sprintf("%s - Loja #%d", c.Name, c.StoreID), c.Description)
		if c.EndDate != nil {
			ended++
			assert.Equal(t, c.StartDate.AddDate(0, 0, 365), *c.EndDate)
		}
	}
	assert.Greater(t, ended, 0)
	assert.Less(t, ended, len(costs)/4)
}

func TestCommissions(t *testing.T) {
	g := testValidityGenerator(8, 6)
	channels := []models.Channel{*inPersonChannel(), *deliveryChannel()}

	records := g.Commissions(channels)
	require.Len(t, records, 2)

	old, current := records[0], records[1]
	cutover := testNow.AddDate(0, 0, -90)

	assert.Equal(t, int64(2), old.ChannelID)
	require.NotNil(t, old.ValidUntil)
	assert.Equal(t, cutover, *old.ValidUntil)
	assert.Equal(t, testNow.AddDate(0, 0, -365), old.ValidFrom)
	assert.Equal(t, config.PreviousRateNote, old.Notes)
	assert.True(t, old.Rate.GreaterThanOrEqual(decimal.NewFromInt(25)))
	assert.True(t, old.Rate.LessThanOrEqual(decimal.NewFromInt(29)))
	assert.True(t, old.Rate.Equal(old.Rate.Round(2)))

	assert.Equal(t, cutover, current.ValidFrom)
	assert.Nil(t, current.ValidUntil)
	assert.True(t, current.Rate.Equal(decimal.NewFromInt(27)))
	assert.Equal(t, config.CurrentRateNote, current.Notes)
}
