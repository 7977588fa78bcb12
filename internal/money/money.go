// Package money formats and sums currency amounts for display and input
// validation. The ledger itself computes in float64; decimal arithmetic is
// used only at the edges where exact cents matter.
package money

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/payrecord/internal/models"
)

var symbols = map[models.Currency]string{
	models.CurrencyUSD: "$",
	models.CurrencyEUR: "€",
	models.CurrencyINR: "₹",
	models.CurrencyGBP: "£",
	models.CurrencyJPY: "¥",
}

// Symbol returns the display symbol for c, or the code itself followed by a
// space for currencies without one.
func Symbol(c models.Currency) string {
	if s, ok := symbols[c]; ok {
		return s
	}
	return string(c) + " "
}

// Round rounds an amount to cents, half away from zero.
func Round(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

// Format renders amount with two decimals and the currency symbol,
// e.g. "$12.50" or "-€3.00".
func Format(amount float64, c models.Currency) string {
	d := Round(amount)
	if d.IsNegative() {
		return "-" + Symbol(c) + d.Neg().StringFixed(2)
	}
	return Symbol(c) + d.StringFixed(2)
}

// Sum adds amounts in decimal so that e.g. 0.1+0.2 is exactly 0.3.
func Sum(amounts ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total
}

// WithinTolerance reports whether |a - b| <= tolerance, computed in decimal.
func WithinTolerance(a, b decimal.Decimal, tolerance float64) bool {
	return a.Sub(b).Abs().LessThanOrEqual(decimal.NewFromFloat(tolerance))
}
