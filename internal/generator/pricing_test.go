package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/database"
	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

func TestPriceLine(t *testing.T) {
	rng := utils.NewRandom(1)
	burger := &models.Product{ID: 1, BasePrice: utils.Reais(20)}
	pizza := &models.Product{ID: 2, BasePrice: utils.Reais(35)}

	first := priceLine(LineIntent{Product: burger, Quantity: 1}, rng)
	second := priceLine(LineIntent{Product: pizza, Quantity: 2}, rng)

	assert.Equal(t, utils.Reais(20), first.TotalPrice)
	assert.Equal(t, utils.Reais(70), second.TotalPrice)
	assert.NotEqual(t, first.ClientRef, second.ClientRef)

	sale := &models.Sale{
		ClientRef:  rng.UUID(),
		Status:     models.SaleCompleted,
		Lines:      []models.ProductLine{first, second},
		TotalItems: first.TotalPrice + second.TotalPrice,
	}
	sale.TotalAmount = SaleTotal(sale)
	sale.ValuePaid = sale.TotalAmount
	sale.Payments = []models.Payment{{PaymentType: "PIX", Value: sale.ValuePaid}}

	assert.Equal(t, utils.Reais(90), sale.TotalItems)
	assert.Equal(t, utils.Reais(90), sale.TotalAmount)
	assert.NoError(t, Verify(sale))

	t.Run("items add to the unit price", func(t *testing.T) {
		cheese := &models.Item{ID: 7, Price: utils.Cents(350)}
		bacon := &models.Item{ID: 8, Price: utils.Cents(500)}
		line := priceLine(LineIntent{
			Product:  burger,
			Quantity: 3,
			Items:    []ItemIntent{{Item: cheese}, {Item: bacon}},
		}, rng)

		// (20.00 + 3.50 + 5.00) x 3
		assert.Equal(t, utils.Cents(8550), line.TotalPrice)
		require.Len(t, line.Items, 2)
		for _, it := range line.Items {
			assert.Equal(t, 1, it.Quantity)
			assert.Equal(t, 1, it.Amount)
			assert.Equal(t, it.Price, it.AdditionalPrice)
		}
	})
}

func TestPriceInvariants(t *testing.T) {
	ref := testReference(t, database.NewMemoryStore())
	sales := testSales(t, ref, 10000, 42)

	channels := make(map[int64]models.Channel)
	for _, c := range ref.Channels {
		channels[c.ID] = c
	}
	tables := config.NewTables()
	fees := make(map[utils.Money]bool)
	for _, f := range tables.DeliveryFees {
		fees[f] = true
	}

	var completed, anonymous, single int
	for _, s := range sales {
		require.NoError(t, Verify(s))

		ch := channels[s.ChannelID]
		if ch.IsDelivery() {
			assert.True(t, fees[s.DeliveryFee], "fee %s", s.DeliveryFee)
			assert.Nil(t, s.PeopleQuantity)
		} else {
			assert.True(t, s.DeliveryFee.IsZero())
			require.NotNil(t, s.PeopleQuantity)
			assert.GreaterOrEqual(t, *s.PeopleQuantity, 1)
			assert.LessOrEqual(t, *s.PeopleQuantity, 8)
		}

		if s.Discount > 0 {
			require.NotNil(t, s.DiscountReason)
			assert.LessOrEqual(t, s.Discount, s.TotalItems.MulFloat(0.30))
		}
		if s.ServiceTax > 0 {
			assert.Equal(t, s.TotalItems.Percentage(10), s.ServiceTax)
		}
		if s.CustomerID == nil {
			anonymous++
		}

		switch s.Status {
		case models.SaleCompleted:
			completed++
			require.NotEmpty(t, s.Payments)
			if len(s.Payments) == 1 {
				single++
			}
			require.NotNil(t, s.ProductionSeconds)
			assert.Equal(t, ch.IsDelivery(), s.Delivery != nil)
		case models.SaleCancelled:
			assert.Empty(t, s.Payments)
			assert.True(t, s.ValuePaid.IsZero())
			assert.Nil(t, s.Delivery)
		}
	}

	n := float64(len(sales))
	assert.InDelta(t, 0.95, float64(completed)/n, 0.01)
	assert.InDelta(t, 0.30, float64(anonymous)/n, 0.02)
	assert.InDelta(t, 0.85, float64(single)/float64(completed), 0.02)
}

func TestSplitPayments(t *testing.T) {
	p := NewPricer(testFaker(t), config.NewTables())
	leading := p.tables.PaymentTypes[:config.SplitFirstPaymentTypes]
	rng := utils.NewRandom(9)

	splits := 0
	for i := 0; i < 2000; i++ {
		value := utils.RandomAmount(rng, utils.Cents(1), utils.Reais(500))
		payments := p.payments(value, rng)

		var sum utils.Money
		for _, pm := range payments {
			sum += pm.Value
		}
		require.Equal(t, value, sum)

		if len(payments) == 2 {
			splits++
			assert.Contains(t, leading, payments[0].PaymentType)
			assert.GreaterOrEqual(t, payments[0].Value, value.MulFloat(0.3))
			assert.LessOrEqual(t, payments[0].Value, value.MulFloat(0.7))
		}
	}
	assert.Greater(t, splits, 0)
}

func TestDelivery(t *testing.T) {
	p := NewPricer(testFaker(t), config.NewTables())
	rng := utils.NewRandom(5)

	for i := 0; i < 1000; i++ {
		fee := utils.Reais(8)
		d := p.delivery(fee, rng)

		assert.Equal(t, models.DeliveryStatusDelivered, d.Status)
		assert.Equal(t, utils.Cents(480), d.CourierFee)
		assert.Equal(t, CourierFee(fee), d.CourierFee)

		a := d.Address
		assert.GreaterOrEqual(t, a.Latitude, config.LatitudeMin)
		assert.LessOrEqual(t, a.Latitude, config.LatitudeMax)
		assert.GreaterOrEqual(t, a.Longitude, config.LongitudeMin)
		assert.LessOrEqual(t, a.Longitude, config.LongitudeMax)
		assert.Regexp(t, `^\d{5}-\d{3}$`, a.PostalCode)
		assert.NotEmpty(t, a.Street)
		assert.NotEmpty(t, a.Number)
	}
}

func TestVerify(t *testing.T) {
	ref := testReference(t, database.NewMemoryStore())
	sales := testSales(t, ref, 200, 11)

	var sale *models.Sale
	for _, s := range sales {
		if s.IsCompleted() {
			sale = s
			break
		}
	}
	require.NotNil(t, sale)
	require.NoError(t, Verify(sale))

	tests := []struct {
		name   string
		tamper func(s *models.Sale)
		field  string
	}{
		{"line total", func(s *models.Sale) { s.Lines[0].TotalPrice++ }, "total_price"},
		{"items total", func(s *models.Sale) { s.TotalItems++ }, "total_amount_items"},
		{"total amount", func(s *models.Sale) { s.TotalAmount++ }, "total_amount"},
		{"value paid", func(s *models.Sale) { s.ValuePaid-- }, "value_paid"},
		{"payments", func(s *models.Sale) { s.Payments[0].Value++ }, "payments"},
		{"cancelled with payment", func(s *models.Sale) {
			s.Status = models.SaleCancelled
			s.ValuePaid = 0
		}, "payments"},
		{"unknown status", func(s *models.Sale) { s.Status = "REFUNDED" }, "sale_status_desc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cloneSale(sale)
			tt.tamper(s)

			err := Verify(s)
			require.Error(t, err)
			var cv *ConsistencyViolation
			require.True(t, errors.As(err, &cv))
			assert.Equal(t, tt.field, cv.Field)
			assert.Equal(t, sale.ClientRef, cv.SaleRef)
		})
	}
}

func cloneSale(s *models.Sale) *models.Sale {
	out := *s
	out.Lines = make([]models.ProductLine, len(s.Lines))
	copy(out.Lines, s.Lines)
	out.Payments = append([]models.Payment(nil), s.Payments...)
	return &out
}
