package generator

import (
	"time"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

// Pricer turns an intent into a fully priced sale. Fields are derived in a
// fixed order and the last payment is always the remainder, so totals and
// payments agree to the cent.
type Pricer struct {
	faker  *Faker
	tables *config.Tables
}

// NewPricer creates a new pricer
func NewPricer(faker *Faker, tables *config.Tables) *Pricer {
	return &Pricer{faker: faker, tables: tables}
}

// Price derives every monetary and operational field of a sale
func (p *Pricer) Price(intent Intent, createdAt time.Time, rng *utils.Random) *models.Sale {
	sale := &models.Sale{
		ClientRef:    rng.UUID(),
		StoreID:      intent.Store.ID,
		ChannelID:    intent.Channel.ID,
		CustomerID:   intent.CustomerID,
		CustomerName: intent.CustomerName,
		CreatedAt:    createdAt,
		Origin:       models.SaleOrigin,
	}

	// 1. Lines
	sale.Lines = make([]models.ProductLine, len(intent.Lines))
	for i, li := range intent.Lines {
		sale.Lines[i] = priceLine(li, rng)
		sale.TotalItems += sale.Lines[i].TotalPrice
	}

	// 2. Discount
	if rng.Probability(config.DiscountProbability) {
		sale.Discount = sale.TotalItems.MulFloat(rng.Float64Range(config.DiscountMinRate, config.DiscountMaxRate))
		reason := rng.PickString(p.tables.DiscountReasons)
		sale.DiscountReason = &reason
	}

	// 3. Increase
	if rng.Probability(config.IncreaseProbability) {
		sale.Increase = sale.TotalItems.MulFloat(rng.Float64Range(config.IncreaseMinRate, config.IncreaseMaxRate))
	}

	// 4. Delivery fee
	delivery := intent.Channel.IsDelivery()
	if delivery {
		sale.DeliveryFee = p.tables.DeliveryFees[rng.IntN(len(p.tables.DeliveryFees))]
	}

	// 5. Service tax
	if rng.Probability(config.ServiceTaxProbability) {
		sale.ServiceTax = sale.TotalItems.Percentage(config.ServiceTaxPercent)
	}

	// 6. Total
	sale.TotalAmount = SaleTotal(sale)

	// 7. Status
	if rng.WeightedPick([]int{config.CompletedWeight, config.CancelledWeight}) == 0 {
		sale.Status = models.SaleCompleted
		sale.ValuePaid = sale.TotalAmount
	} else {
		sale.Status = models.SaleCancelled
	}

	if sale.IsCompleted() {
		// 8. Payments
		sale.Payments = p.payments(sale.ValuePaid, rng)

		// 9. Timings
		prod := rng.IntRange(config.ProductionSecondsMin, config.ProductionSecondsMax)
		sale.ProductionSeconds = &prod
		if delivery {
			secs := rng.IntRange(config.DeliverySecondsMin, config.DeliverySecondsMax)
			sale.DeliverySeconds = &secs
		}
	}

	if !delivery {
		people := rng.IntRange(config.PeopleQuantityMin, config.PeopleQuantityMax)
		sale.PeopleQuantity = &people
	}

	if delivery && sale.IsCompleted() {
		sale.Delivery = p.delivery(sale.DeliveryFee, rng)
	}

	return sale
}

// priceLine prices one line as (base + items) x quantity
func priceLine(li LineIntent, rng *utils.Random) models.ProductLine {
	line := models.ProductLine{
		ClientRef: rng.UUID(),
		ProductID: li.Product.ID,
		Quantity:  li.Quantity,
		BasePrice: li.Product.BasePrice,
	}

	unit := li.Product.BasePrice
	if len(li.Items) > 0 {
		line.Items = make([]models.ItemCustomization, len(li.Items))
		for i, it := range li.Items {
			line.Items[i] = models.ItemCustomization{
				ItemID:          it.Item.ID,
				OptionGroupID:   it.OptionGroupID,
				Quantity:        1,
				AdditionalPrice: it.Item.Price,
				Price:           it.Item.Price,
				Amount:          1,
			}
			unit += it.Item.Price
		}
	}
	line.TotalPrice = unit.Mul(int64(li.Quantity))
	return line
}

// payments splits value into one or two tenders. A split draws its first
// tender from the leading payment types and pays the exact remainder second.
func (p *Pricer) payments(value utils.Money, rng *utils.Random) []models.Payment {
	types := p.tables.PaymentTypes
	if rng.Probability(config.SinglePaymentProbability) {
		return []models.Payment{{PaymentType: rng.PickString(types), Value: value}}
	}

	first := value.MulFloat(rng.Float64Range(config.SplitMinRatio, config.SplitMaxRatio))
	leading := types[:min(config.SplitFirstPaymentTypes, len(types))]
	return []models.Payment{
		{PaymentType: rng.PickString(leading), Value: first},
		{PaymentType: rng.PickString(types), Value: value.Sub(first)},
	}
}

// SaleTotal applies the total formula to a sale's components
func SaleTotal(s *models.Sale) utils.Money {
	return s.TotalItems - s.Discount + s.Increase + s.DeliveryFee + s.ServiceTax
}

// CourierFee is the courier's share of a delivery fee
func CourierFee(deliveryFee utils.Money) utils.Money {
	return deliveryFee.MulFloat(config.CourierFeeRatio)
}

// Verify checks the financial invariants of a priced sale and returns a
// ConsistencyViolation for the first one that fails.
func Verify(s *models.Sale) error {
	violation := func(field string, want, got utils.Money) error {
		return &ConsistencyViolation{Field: field, Want: want, Got: got, SaleRef: s.ClientRef}
	}

	var items utils.Money
	for _, l := range s.Lines {
		unit := l.BasePrice
		for _, it := range l.Items {
			unit += it.Price
		}
		if want := unit.Mul(int64(l.Quantity)); l.TotalPrice != want {
			return violation("total_price", want, l.TotalPrice)
		}
		items += l.TotalPrice
	}
	if s.TotalItems != items {
		return violation("total_amount_items", items, s.TotalItems)
	}

	if want := SaleTotal(s); s.TotalAmount != want {
		return violation("total_amount", want, s.TotalAmount)
	}

	switch s.Status {
	case models.SaleCompleted:
		if s.ValuePaid != s.TotalAmount {
			return violation("value_paid", s.TotalAmount, s.ValuePaid)
		}
	case models.SaleCancelled:
		if s.ValuePaid != 0 {
			return violation("value_paid", 0, s.ValuePaid)
		}
		if len(s.Payments) > 0 {
			return violation("payments", 0, s.PaymentsTotal())
		}
	default:
		return &ConsistencyViolation{Field: "sale_status_desc", SaleRef: s.ClientRef}
	}

	if got := s.PaymentsTotal(); got != s.ValuePaid {
		return violation("payments", s.ValuePaid, got)
	}

	if d := s.Delivery; d != nil {
		if want := CourierFee(d.DeliveryFee); d.CourierFee != want {
			return violation("courier_fee", want, d.CourierFee)
		}
	}
	return nil
}
