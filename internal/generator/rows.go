package generator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

// Row builders turn models into value slices in database.Table column order.
// Money goes out as decimal.Decimal so NUMERIC/DECIMAL columns get exact
// two-place values on every driver.

func money(m utils.Money) decimal.Decimal {
	return m.Decimal()
}

// coord rounds a coordinate to six places
func coord(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(6)
}

func optionalString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optionalInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func optionalInt64(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}

func optionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func supplierRow(s *models.Supplier) []any {
	return []any{s.Name, s.Contact, s.Email, s.Phone, s.CreatedAt, s.UpdatedAt}
}

func storeRow(s *models.Store) []any {
	return []any{
		s.BrandID, nullableID(s.SubBrandID), s.Name, s.City, s.State, s.District,
		s.AddressStreet, s.AddressNumber, coord(s.Latitude), coord(s.Longitude),
		s.IsActive, s.IsOwn, s.CreationDate, s.CreatedAt,
	}
}

func productRow(p *models.Product) []any {
	return []any{p.BrandID, nullableID(p.SubBrandID), p.CategoryID, p.Name, p.PosUUID}
}

func itemRow(i *models.Item) []any {
	return []any{i.BrandID, nullableID(i.SubBrandID), i.CategoryID, i.Name, i.PosUUID}
}

func customerRow(c *models.Customer) []any {
	return []any{
		c.Name, c.Email, c.PhoneNumber, c.CPF, c.BirthDate, string(c.Gender),
		c.AgreeTerms, c.ReceivePromotionsEmail, string(c.RegistrationOrigin), c.CreatedAt,
	}
}

func saleRow(s *models.Sale) []any {
	return []any{
		s.ClientRef, s.StoreID, optionalInt64(s.CustomerID), s.ChannelID,
		optionalString(s.CustomerName), s.CreatedAt, string(s.Status),
		money(s.TotalItems), money(s.Discount), money(s.Increase), money(s.DeliveryFee),
		money(s.ServiceTax), money(s.TotalAmount), money(s.ValuePaid),
		optionalInt(s.ProductionSeconds), optionalInt(s.DeliverySeconds),
		optionalString(s.DiscountReason), optionalInt(s.PeopleQuantity), s.Origin,
	}
}

func productLineRow(l *models.ProductLine) []any {
	return []any{l.ClientRef, l.SaleID, l.ProductID, l.Quantity, money(l.BasePrice), money(l.TotalPrice)}
}

func itemCustomizationRow(c *models.ItemCustomization) []any {
	return []any{
		c.ProductSaleID, c.ItemID, optionalInt64(c.OptionGroupID), c.Quantity,
		money(c.AdditionalPrice), money(c.Price), c.Amount,
	}
}

func deliveryRow(d *models.Delivery) []any {
	return []any{
		d.ClientRef, d.SaleID, d.CourierName, d.CourierPhone, d.CourierType,
		d.DeliveryType, d.Status, money(d.DeliveryFee), money(d.CourierFee),
	}
}

func deliveryAddressRow(a *models.DeliveryAddress) []any {
	return []any{
		a.SaleID, a.DeliverySaleID, a.Street, a.Number, optionalString(a.Complement),
		a.Neighborhood, a.City, a.State, a.PostalCode, coord(a.Latitude), coord(a.Longitude),
	}
}

func paymentRow(saleID, paymentTypeID int64, value utils.Money) []any {
	return []any{saleID, paymentTypeID, money(value)}
}

func productCostRow(c *models.ProductCost) []any {
	return []any{
		c.ProductID, money(c.Cost), c.ValidFrom, optionalTime(c.ValidUntil),
		nullableID(c.SupplierID), optionalString(c.Notes), c.CreatedAt, c.CreatedAt,
	}
}

func operatingExpenseRow(e *models.OperatingExpense) []any {
	return []any{
		e.StoreID, string(e.Category), money(e.Amount), e.Period, e.Description,
		e.CreatedAt, e.CreatedAt,
	}
}

func fixedCostRow(f *models.FixedCost) []any {
	return []any{
		f.StoreID, f.Name, money(f.Amount), string(f.Frequency), f.StartDate,
		optionalTime(f.EndDate), f.Description, f.CreatedAt, f.CreatedAt,
	}
}

func commissionRow(c *models.ChannelCommission) []any {
	return []any{
		c.ChannelID, c.Rate, c.ValidFrom, optionalTime(c.ValidUntil), c.Notes,
		c.CreatedAt, c.CreatedAt,
	}
}
