package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewel-erp/internal/apperr"
)

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"pending":         StatusPending,
		" Partially Paid": StatusPartiallyPaid,
		"PARTIALLY_PAID":  StatusPartiallyPaid,
		"paid":            StatusPaid,
		"Cancelled":       StatusCancelled,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseStatus("refunded")
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = ParseStatus("PARTIAL")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestTransitionTable(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:       {StatusPending, StatusPartiallyPaid, StatusPaid, StatusCancelled},
		StatusPartiallyPaid: {StatusPartiallyPaid, StatusPaid, StatusCancelled},
		StatusPaid:          {StatusPaid, StatusCancelled},
		StatusCancelled:     {StatusCancelled},
	}
	for _, from := range Statuses {
		for _, to := range Statuses {
			assert.Equal(t, contains(allowed[from], to), from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func contains(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusPaid, DeriveStatus(StatusPending, d("0"), d("0")))
	assert.Equal(t, StatusPartiallyPaid, DeriveStatus(StatusPending, d("10"), d("5")))
	assert.Equal(t, StatusPending, DeriveStatus(StatusPending, d("10"), d("0")))
	assert.Equal(t, StatusCancelled, DeriveStatus(StatusCancelled, d("0"), d("0")))
}

func TestSettleRejectsBackwardMove(t *testing.T) {
	_, err := Settle(StatusPaid, d("100"), d("0"))
	assert.ErrorIs(t, err, ErrIllegalTransition)

	st, err := Settle(StatusPartiallyPaid, d("0"), d("500"))
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, st)
}

func TestManualStatusChange(t *testing.T) {
	tests := []struct {
		from, to Status
		want     Status
		err      error
	}{
		{StatusPending, StatusCancelled, StatusCancelled, nil},
		{StatusPending, StatusPending, StatusPending, nil},
		{StatusPaid, StatusCancelled, StatusCancelled, nil},
		{StatusPartiallyPaid, StatusCancelled, StatusCancelled, nil},
		{StatusPaid, StatusPending, StatusPaid, ErrStatusLocked},
		{StatusPartiallyPaid, StatusPending, StatusPartiallyPaid, ErrStatusLocked},
		{StatusPending, StatusPaid, StatusPending, ErrDerivedStatus},
		{StatusPending, StatusPartiallyPaid, StatusPending, ErrDerivedStatus},
		{StatusCancelled, StatusPending, StatusCancelled, ErrIllegalTransition},
		{StatusPending, Status("VOID"), StatusPending, ErrUnknownStatus},
	}
	for _, tt := range tests {
		got, err := ManualStatusChange(tt.from, tt.to)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, "%s -> %s", tt.from, tt.to)
		} else {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		}
		assert.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}
}
