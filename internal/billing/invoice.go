package billing

import "github.com/shopspring/decimal"

type InvoiceTotals struct {
	TotalAmount decimal.Decimal
	Discount    decimal.Decimal
	GrandTotal  decimal.Decimal
	NetAmount   decimal.Decimal
	RoundOff    decimal.Decimal
}

// ComputeInvoiceTotals sums item totals and applies the discount. An explicit
// positive discount amount takes precedence over the percentage. The net
// amount is the grand total rounded to whole units and RoundOff is the signed
// adjustment that rounding introduced.
//
// Discount bounds are not checked: a negative amount or a percentage above
// 100 is applied as given.
func ComputeInvoiceTotals(itemTotals []decimal.Decimal, discountAmount, discountPercent decimal.Decimal) InvoiceTotals {
	total := decimal.Zero
	for _, t := range itemTotals {
		total = total.Add(t)
	}
	total = Round(total)

	var discount decimal.Decimal
	if discountAmount.IsPositive() {
		discount = Round(discountAmount)
	} else {
		discount = Round(percentOf(total, discountPercent))
	}

	grand := total.Sub(discount)
	net := grand.Round(0)

	return InvoiceTotals{
		TotalAmount: total,
		Discount:    discount,
		GrandTotal:  grand,
		NetAmount:   Round(net),
		RoundOff:    Round(net.Sub(grand)),
	}
}
