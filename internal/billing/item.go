package billing

import "github.com/shopspring/decimal"

// LineItemInput holds the normalized numeric inputs of one invoice line.
// Absent values must already be zero.
type LineItemInput struct {
	NetWeight           decimal.Decimal
	RatePerGram         decimal.Decimal
	DiamondCarat        decimal.Decimal
	DiamondRate         decimal.Decimal
	MakingChargePercent decimal.Decimal
	MakingChargeAmount  decimal.Decimal
}

type LineItemTotals struct {
	GoldValue          decimal.Decimal
	DiamondAmount      decimal.Decimal
	BasePrice          decimal.Decimal
	MakingChargeAmount decimal.Decimal
	TotalPrice         decimal.Decimal
}

// ComputeItemTotals values a single line. Each component is rounded before
// it is summed, and a positive fixed making charge wins over the percentage.
func ComputeItemTotals(in LineItemInput) LineItemTotals {
	gold := Round(in.NetWeight.Mul(in.RatePerGram))
	diamond := Round(in.DiamondCarat.Mul(in.DiamondRate))
	base := gold.Add(diamond)

	var making decimal.Decimal
	if in.MakingChargeAmount.IsPositive() {
		making = Round(in.MakingChargeAmount)
	} else {
		making = Round(percentOf(base, in.MakingChargePercent))
	}

	return LineItemTotals{
		GoldValue:          gold,
		DiamondAmount:      diamond,
		BasePrice:          base,
		MakingChargeAmount: making,
		TotalPrice:         Round(base.Add(making)),
	}
}
