package billing

import "github.com/shopspring/decimal"

// AmountOwed is what the customer owes before payments: the net amount less
// the old-gold and return credits.
func AmountOwed(net, oldGold, returned decimal.Decimal) decimal.Decimal {
	return net.Sub(oldGold).Sub(returned)
}

// RecalcDue returns max(0, net − oldGold − returned − paid) at money scale.
func RecalcDue(net, oldGold, returned, paid decimal.Decimal) decimal.Decimal {
	due := AmountOwed(net, oldGold, returned).Sub(paid)
	if due.IsNegative() {
		return Round(decimal.Zero)
	}
	return Round(due)
}
