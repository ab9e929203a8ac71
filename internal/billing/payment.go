package billing

import (
	"github.com/shopspring/decimal"

	"jewel-erp/internal/apperr"
)

var (
	ErrInvoiceSettled     = apperr.InvalidState("invoice is already fully settled or cancelled")
	ErrNonPositivePayment = apperr.InvalidArgument("payment amount must be positive")
	ErrPaymentExceedsDue  = apperr.InvalidArgument("payment exceeds the remaining due amount")
	ErrNothingDue         = apperr.InvalidState("invoice is fully paid, no further payments allowed")
)

// PaymentState is the slice of an invoice that a payment is checked against.
type PaymentState struct {
	Status       Status
	NetAmount    decimal.Decimal
	OldGoldValue decimal.Decimal
	Returned     decimal.Decimal
	PaidAmount   decimal.Decimal
}

func (s PaymentState) Due() decimal.Decimal {
	return RecalcDue(s.NetAmount, s.OldGoldValue, s.Returned, s.PaidAmount)
}

// Settlement is the invoice state after an accepted payment.
type Settlement struct {
	PaidAmount decimal.Decimal
	DueAmount  decimal.Decimal
	Status     Status
}

// ApplyPayment validates amount against a freshly computed due and returns
// the resulting settlement. The state itself is not modified.
func ApplyPayment(state PaymentState, amount decimal.Decimal) (Settlement, error) {
	if state.Status.Settled() {
		return Settlement{}, ErrInvoiceSettled
	}
	if !amount.IsPositive() {
		return Settlement{}, ErrNonPositivePayment
	}

	due := state.Due()
	if due.IsZero() {
		return Settlement{}, ErrNothingDue
	}
	if amount.GreaterThan(due) {
		return Settlement{}, apperr.New(ErrPaymentExceedsDue,
			"payment of %s exceeds the remaining due amount of %s", amount.StringFixed(MoneyScale), due.StringFixed(MoneyScale))
	}

	paid := Round(state.PaidAmount.Add(amount))
	newDue := RecalcDue(state.NetAmount, state.OldGoldValue, state.Returned, paid)
	next := StatusPartiallyPaid
	if newDue.IsZero() {
		next = StatusPaid
	}
	if !state.Status.CanTransitionTo(next) {
		return Settlement{}, apperr.New(ErrIllegalTransition, "cannot move invoice from %s to %s", state.Status, next)
	}

	return Settlement{PaidAmount: paid, DueAmount: newDue, Status: next}, nil
}
