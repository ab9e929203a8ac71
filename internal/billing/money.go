// Package billing computes jewelry invoice values and settles their dues.
//
// Every function here is pure except Sequencer, which serializes invoice
// number issuance. Money is carried as decimal.Decimal at a scale of two
// places, rounded half away from zero.
package billing

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places kept on monetary values.
const MoneyScale = 2

// Round rounds a monetary value to MoneyScale places, half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// percentOf returns base × pct / 100 without going through division.
func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Shift(-2)
}

// OrZero dereferences an optional decimal, treating nil as zero.
func OrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
