package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewel-erp/internal/apperr"
)

func pendingState() PaymentState {
	return PaymentState{Status: StatusPartiallyPaid, NetAmount: d("53900"), PaidAmount: d("20000")}
}

func TestApplyPaymentSettlesInvoice(t *testing.T) {
	state := pendingState()
	assert.Equal(t, "33900.00", state.Due().StringFixed(2))

	got, err := ApplyPayment(state, d("33900.00"))
	require.NoError(t, err)
	assert.Equal(t, "53900.00", got.PaidAmount.StringFixed(2))
	assert.Equal(t, "0.00", got.DueAmount.StringFixed(2))
	assert.Equal(t, StatusPaid, got.Status)
}

func TestApplyPaymentPartial(t *testing.T) {
	state := PaymentState{Status: StatusPending, NetAmount: d("10000"), OldGoldValue: d("2000"), Returned: d("500")}

	got, err := ApplyPayment(state, d("2500"))
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyPaid, got.Status)
	assert.Equal(t, "5000.00", got.DueAmount.StringFixed(2))
}

func TestApplyPaymentRejections(t *testing.T) {
	tests := []struct {
		name   string
		state  PaymentState
		amount string
		err    error
		kind   error
		msg    string
	}{
		{"exceeds due", pendingState(), "40000.00", ErrPaymentExceedsDue, apperr.ErrInvalidArgument,
			"payment of 40000.00 exceeds the remaining due amount of 33900.00"},
		{"zero amount", pendingState(), "0", ErrNonPositivePayment, apperr.ErrInvalidArgument, ""},
		{"negative amount", pendingState(), "-5", ErrNonPositivePayment, apperr.ErrInvalidArgument, ""},
		{"paid invoice", PaymentState{Status: StatusPaid, NetAmount: d("100"), PaidAmount: d("100")}, "1",
			ErrInvoiceSettled, apperr.ErrInvalidState, ""},
		{"cancelled invoice", PaymentState{Status: StatusCancelled, NetAmount: d("100")}, "1",
			ErrInvoiceSettled, apperr.ErrInvalidState, ""},
		{"nothing due", PaymentState{Status: StatusPending, NetAmount: d("100"), OldGoldValue: d("100")}, "1",
			ErrNothingDue, apperr.ErrInvalidState, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyPayment(tt.state, d(tt.amount))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, tt.kind)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, err.Error())
			}
		})
	}
}
