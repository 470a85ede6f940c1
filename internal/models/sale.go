package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/willfong/restaurant-datagen/internal/utils"
)

// SaleStatus is the final state of a sale
type SaleStatus string

const (
	SaleCompleted SaleStatus = "COMPLETED"
	SaleCancelled SaleStatus = "CANCELLED"
)

// SaleOrigin is the system of record stamped on every sale
const SaleOrigin = "POS"

// DeliveryStatusDelivered is the only status generated for delivery records
const DeliveryStatusDelivered = "DELIVERED"

// Sale is one fully priced transaction with its child records.
//
// Invariants (exact to the cent):
//
//	TotalAmount = TotalItems - Discount + Increase + DeliveryFee + ServiceTax
//	ValuePaid   = TotalAmount if COMPLETED, else 0
//	sum(Payments.Value) = ValuePaid
type Sale struct {
	ID int64 `db:"id" json:"id"`

	// ClientRef correlates the row with its database id after a bulk insert
	ClientRef uuid.UUID `db:"client_ref" json:"client_ref"`

	StoreID      int64      `db:"store_id" json:"store_id"`
	CustomerID   *int64     `db:"customer_id" json:"customer_id"`
	ChannelID    int64      `db:"channel_id" json:"channel_id"`
	CustomerName *string    `db:"customer_name" json:"customer_name"` // set only for anonymous sales
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	Status       SaleStatus `db:"sale_status_desc" json:"sale_status_desc"`

	TotalItems  utils.Money `db:"total_amount_items" json:"total_amount_items"`
	Discount    utils.Money `db:"total_discount" json:"total_discount"`
	Increase    utils.Money `db:"total_increase" json:"total_increase"`
	DeliveryFee utils.Money `db:"delivery_fee" json:"delivery_fee"`
	ServiceTax  utils.Money `db:"service_tax_fee" json:"service_tax_fee"`
	TotalAmount utils.Money `db:"total_amount" json:"total_amount"`
	ValuePaid   utils.Money `db:"value_paid" json:"value_paid"`

	ProductionSeconds *int    `db:"production_seconds" json:"production_seconds"`
	DeliverySeconds   *int    `db:"delivery_seconds" json:"delivery_seconds"`
	DiscountReason    *string `db:"discount_reason" json:"discount_reason"`
	PeopleQuantity    *int    `db:"people_quantity" json:"people_quantity"`
	Origin            string  `db:"origin" json:"origin"`

	Lines    []ProductLine `db:"-" json:"products"`
	Delivery *Delivery     `db:"-" json:"delivery,omitempty"`
	Payments []Payment     `db:"-" json:"payments"`
}

// IsCompleted reports whether the sale was paid
func (s *Sale) IsCompleted() bool {
	return s.Status == SaleCompleted
}

// ItemCount returns the number of item customizations across all lines
func (s *Sale) ItemCount() int {
	n := 0
	for i := range s.Lines {
		n += len(s.Lines[i].Items)
	}
	return n
}

// PaymentsTotal sums the payment values
func (s *Sale) PaymentsTotal() utils.Money {
	var total utils.Money
	for _, p := range s.Payments {
		total += p.Value
	}
	return total
}

// ProductLine is one product entry within a sale
type ProductLine struct {
	ID        int64     `db:"id" json:"id"`
	ClientRef uuid.UUID `db:"client_ref" json:"client_ref"`
	SaleID    int64     `db:"sale_id" json:"sale_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`

	BasePrice  utils.Money `db:"base_price" json:"base_price"`
	TotalPrice utils.Money `db:"total_price" json:"total_price"` // (base + items) x quantity

	Items []ItemCustomization `db:"-" json:"items"`
}

// ItemCustomization is an add-on attached to a product line
type ItemCustomization struct {
	ProductSaleID   int64       `db:"product_sale_id" json:"product_sale_id"`
	ItemID          int64       `db:"item_id" json:"item_id"`
	OptionGroupID   *int64      `db:"option_group_id" json:"option_group_id"`
	Quantity        int         `db:"quantity" json:"quantity"`
	AdditionalPrice utils.Money `db:"additional_price" json:"additional_price"`
	Price           utils.Money `db:"price" json:"price"`
	Amount          int         `db:"amount" json:"amount"`
}

// Delivery is the courier record of a completed delivery-channel sale
type Delivery struct {
	ID           int64       `db:"id" json:"id"`
	ClientRef    uuid.UUID   `db:"client_ref" json:"client_ref"`
	SaleID       int64       `db:"sale_id" json:"sale_id"`
	CourierName  string      `db:"courier_name" json:"courier_name"`
	CourierPhone string      `db:"courier_phone" json:"courier_phone"`
	CourierType  string      `db:"courier_type" json:"courier_type"`
	DeliveryType string      `db:"delivery_type" json:"delivery_type"`
	Status       string      `db:"status" json:"status"`
	DeliveryFee  utils.Money `db:"delivery_fee" json:"delivery_fee"`
	CourierFee   utils.Money `db:"courier_fee" json:"courier_fee"`

	Address DeliveryAddress `db:"-" json:"address"`
}

// DeliveryAddress is where a delivery was dropped off
type DeliveryAddress struct {
	SaleID         int64   `db:"sale_id" json:"sale_id"`
	DeliverySaleID int64   `db:"delivery_sale_id" json:"delivery_sale_id"`
	Street         string  `db:"street" json:"street"`
	Number         string  `db:"number" json:"number"`
	Complement     *string `db:"complement" json:"complement"`
	Neighborhood   string  `db:"neighborhood" json:"neighborhood"`
	City           string  `db:"city" json:"city"`
	State          string  `db:"state" json:"state"`
	PostalCode     string  `db:"postal_code" json:"postal_code"`
	Latitude       float64 `db:"latitude" json:"latitude"`
	Longitude      float64 `db:"longitude" json:"longitude"`
}

// Payment is one tender of a completed sale. PaymentType holds the catalog
// description; the writer resolves it to payment_type_id.
type Payment struct {
	SaleID      int64       `db:"sale_id" json:"sale_id"`
	PaymentType string      `db:"-" json:"payment_type"`
	Value       utils.Money `db:"value" json:"value"`
}
