package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/willfong/restaurant-datagen/internal/utils"
)

// CostPattern selects how a product's cost moves from one month to the next
type CostPattern string

const (
	CostStable     CostPattern = "stable"
	CostIncreasing CostPattern = "increasing"
	CostDecreasing CostPattern = "decreasing"
	CostVolatile   CostPattern = "volatile"
)

// CostPatterns lists every pattern in a fixed order
func CostPatterns() []CostPattern {
	return []CostPattern{CostStable, CostIncreasing, CostDecreasing, CostVolatile}
}

// ProductCost is one month of a product's supplier cost.
// ValidUntil is nil for the currently active record.
type ProductCost struct {
	ProductID  int64       `db:"product_id" json:"product_id"`
	SupplierID int64       `db:"supplier_id" json:"supplier_id"`
	Cost       utils.Money `db:"cost" json:"cost"`
	ValidFrom  time.Time   `db:"valid_from" json:"valid_from"`
	ValidUntil *time.Time  `db:"valid_until" json:"valid_until"`
	Notes      *string     `db:"notes" json:"notes"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// ExpenseCategory classifies an operating expense
type ExpenseCategory string

const (
	ExpenseLabor       ExpenseCategory = "labor"
	ExpenseRent        ExpenseCategory = "rent"
	ExpenseUtilities   ExpenseCategory = "utilities"
	ExpenseMarketing   ExpenseCategory = "marketing"
	ExpenseMaintenance ExpenseCategory = "maintenance"
	ExpenseOther       ExpenseCategory = "other"
)

// OperatingExpense is a store's spend in one category for one month
type OperatingExpense struct {
	StoreID     int64           `db:"store_id" json:"store_id"`
	Category    ExpenseCategory `db:"category" json:"category"`
	Amount      utils.Money     `db:"amount" json:"amount"`
	Period      time.Time       `db:"period" json:"period"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Frequency of a fixed cost
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyAnnual  Frequency = "annual"
)

// FixedCost is a recurring store cost. EndDate is nil while the contract is open.
type FixedCost struct {
	StoreID     int64       `db:"store_id" json:"store_id"`
	Name        string      `db:"name" json:"name"`
	Amount      utils.Money `db:"amount" json:"amount"`
	Frequency   Frequency   `db:"frequency" json:"frequency"`
	StartDate   time.Time   `db:"start_date" json:"start_date"`
	EndDate     *time.Time  `db:"end_date" json:"end_date"`
	Description string      `db:"description" json:"description"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// ChannelCommission is a commission rate (percent) in effect for a channel.
// Every commission-bearing channel has exactly two: the previous rate and the
// current one, which has a nil ValidUntil.
type ChannelCommission struct {
	ChannelID  int64           `db:"channel_id" json:"channel_id"`
	Rate       decimal.Decimal `db:"commission_rate" json:"commission_rate"`
	ValidFrom  time.Time       `db:"valid_from" json:"valid_from"`
	ValidUntil *time.Time      `db:"valid_until" json:"valid_until"`
	Notes      string          `db:"notes" json:"notes"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
