// Package finance holds the fixed-point monetary arithmetic for the loan
// service. All money is shopspring decimal; float64 never represents an
// amount. Intermediate computation runs at ratePrecision fractional digits
// and results round to 2 places only at the point a monetary value is
// stored or returned.
package finance

import "github.com/shopspring/decimal"

// ratePrecision is the fractional-digit precision for intermediate rate
// arithmetic.
const ratePrecision = 10

// RoundMoney rounds an amount to 2 decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseAmount parses a positive monetary amount from its decimal-string
// wire representation.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
