package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeItemTotals(t *testing.T) {
	tests := []struct {
		name    string
		in      LineItemInput
		gold    string
		diamond string
		making  string
		total   string
	}{
		{
			name:   "percentage making charge",
			in:     LineItemInput{NetWeight: d("10"), RatePerGram: d("5000"), MakingChargePercent: d("10")},
			gold:   "50000.00",
			making: "5000.00",
			total:  "55000.00",
		},
		{
			name:    "fixed making charge wins over percentage",
			in:      LineItemInput{NetWeight: d("2.5"), RatePerGram: d("6000"), DiamondCarat: d("0.25"), DiamondRate: d("40000"), MakingChargePercent: d("12"), MakingChargeAmount: d("1500")},
			gold:    "15000.00",
			diamond: "10000.00",
			making:  "1500.00",
			total:   "26500.00",
		},
		{
			name:   "components are rounded half-up before summing",
			in:     LineItemInput{NetWeight: d("1.235"), RatePerGram: d("1"), MakingChargePercent: d("50")},
			gold:   "1.24",
			making: "0.62",
			total:  "1.86",
		},
		{
			name:    "diamond amount counts toward the making charge base",
			in:      LineItemInput{DiamondCarat: d("0.5"), DiamondRate: d("20000"), MakingChargePercent: d("5")},
			diamond: "10000.00",
			making:  "500.00",
			total:   "10500.00",
		},
		{
			name: "all zero",
			in:   LineItemInput{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeItemTotals(tt.in)
			assert.Equal(t, orZero(tt.gold), got.GoldValue.StringFixed(2))
			assert.Equal(t, orZero(tt.diamond), got.DiamondAmount.StringFixed(2))
			assert.Equal(t, orZero(tt.making), got.MakingChargeAmount.StringFixed(2))
			assert.Equal(t, orZero(tt.total), got.TotalPrice.StringFixed(2))
		})
	}
}

func orZero(s string) string {
	if s == "" {
		return "0.00"
	}
	return s
}

func TestComputeItemTotalsNeverBelowBase(t *testing.T) {
	weights := []string{"0", "0.001", "3.456", "10", "125.5"}
	rates := []string{"0", "1", "4999.99", "7250.5"}
	percents := []string{"0", "0.5", "12", "100"}

	for _, w := range weights {
		for _, r := range rates {
			for _, p := range percents {
				in := LineItemInput{NetWeight: d(w), RatePerGram: d(r), DiamondCarat: d("0.33"), DiamondRate: d(r), MakingChargePercent: d(p)}
				got := ComputeItemTotals(in)
				assert.True(t, got.TotalPrice.GreaterThanOrEqual(got.GoldValue.Add(got.DiamondAmount)),
					"weight=%s rate=%s pct=%s total=%s", w, r, p, got.TotalPrice)
			}
		}
	}
}
