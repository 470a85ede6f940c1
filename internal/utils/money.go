package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value in the smallest currency unit (centavos).
// All sale arithmetic happens on Money so totals are exact to the cent.
type Money int64

// Currency represents a currency with its formatting rules
type Currency struct {
	Code          string
	Symbol        string
	SymbolFirst   bool
	DecimalPlaces int
	ThousandsSep  string
	DecimalSep    string
}

// Currencies known to the report formatter
var Currencies = map[string]Currency{
	"BRL": {Code: "BRL", Symbol: "R$", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ".", DecimalSep: ","},
	"USD": {Code: "USD", Symbol: "$", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ",", DecimalSep: "."},
	"EUR": {Code: "EUR", Symbol: "€", SymbolFirst: true, DecimalPlaces: 2, ThousandsSep: ".", DecimalSep: ","},
}

// DefaultCurrency is used when a currency code is not found
var DefaultCurrency = Currencies["BRL"]

// NewMoney creates a Money value from major units and cents
func NewMoney(reais int64, cents int) Money {
	return Money(reais*100 + int64(cents))
}

// Cents creates a Money value from cents only
func Cents(cents int64) Money {
	return Money(cents)
}

// Reais creates a Money value from whole major units
func Reais(reais int64) Money {
	return Money(reais * 100)
}

// FromFloat creates a Money value from a float64, rounding half away from zero
// to the nearest cent.
func FromFloat(amount float64) Money {
	if amount >= 0 {
		return Money(amount*100 + 0.5)
	}
	return Money(amount*100 - 0.5)
}

// ToCents returns the value in cents (the underlying representation)
func (m Money) ToCents() int64 {
	return int64(m)
}

// Float64 returns the value in major units (for display and statistics only)
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// Decimal returns the exact value as a decimal with two places, suitable as a
// bind value for NUMERIC(…,2) columns.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Add returns the sum of two Money values
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns the difference of two Money values
func (m Money) Sub(other Money) Money {
	return m - other
}

// Mul multiplies by an integer
func (m Money) Mul(n int64) Money {
	return Money(int64(m) * n)
}

// MulFloat multiplies by a float and rounds to nearest cent
func (m Money) MulFloat(f float64) Money {
	result := float64(m) * f
	if result >= 0 {
		return Money(result + 0.5)
	}
	return Money(result - 0.5)
}

// Percentage calculates a percentage of the money value, rounded to the cent.
// e.g., m.Percentage(10) returns 10% of m
func (m Money) Percentage(percent float64) Money {
	return m.MulFloat(percent / 100)
}

// IsZero returns true if the value is zero
func (m Money) IsZero() bool {
	return m == 0
}

// IsNegative returns true if the value is negative
func (m Money) IsNegative() bool {
	return m < 0
}

// Sum adds a list of Money values
func Sum(values ...Money) Money {
	var total Money
	for _, v := range values {
		total += v
	}
	return total
}

// String returns a plain decimal representation (e.g., "123.45")
func (m Money) String() string {
	negative := m < 0
	if negative {
		m = -m
	}
	result := fmt.Sprintf("%d.%02d", int64(m)/100, int64(m)%100)
	if negative {
		result = "-" + result
	}
	return result
}

// Format formats the money value with the given currency (e.g., "R$1.234,56")
func (m Money) Format(currencyCode string) string {
	currency, ok := Currencies[currencyCode]
	if !ok {
		currency = DefaultCurrency
	}

	negative := m < 0
	if negative {
		m = -m
	}

	multiplier := int64(1)
	for i := 0; i < currency.DecimalPlaces; i++ {
		multiplier *= 10
	}

	whole := int64(m) / multiplier
	frac := int64(m) % multiplier

	result := formatWithSeparator(whole, currency.ThousandsSep)
	if currency.DecimalPlaces > 0 {
		result += currency.DecimalSep + fmt.Sprintf("%0*d", currency.DecimalPlaces, frac)
	}

	if currency.SymbolFirst {
		result = currency.Symbol + result
	} else {
		result = result + " " + currency.Symbol
	}
	if negative {
		result = "-" + result
	}
	return result
}

// formatWithSeparator adds thousands separators to a number
func formatWithSeparator(n int64, sep string) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 || sep == "" {
		return str
	}

	var result strings.Builder
	startOffset := len(str) % 3
	if startOffset == 0 {
		startOffset = 3
	}

	result.WriteString(str[:startOffset])
	for i := startOffset; i < len(str); i += 3 {
		result.WriteString(sep)
		result.WriteString(str[i : i+3])
	}
	return result.String()
}

// RandomAmount generates a random money amount in [min, max] using the provided RNG
func RandomAmount(rng *Random, min, max Money) Money {
	if min >= max {
		return min
	}
	return min + Money(rng.Int64N(int64(max-min)+1))
}
