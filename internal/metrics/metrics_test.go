package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewel-erp/internal/apperr"
	"jewel-erp/internal/billing"
)

func TestCounters(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.InvoiceCreated()
	m.InvoiceCreated()
	m.PaymentApplied()
	m.PaymentRejected(apperr.New(billing.ErrPaymentExceedsDue, "payment of 2.00 exceeds the remaining due amount of 1.00"))
	m.PaymentRejected(billing.ErrInvoiceSettled)
	m.PaymentRejected(errors.New("db down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.invoicesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentsApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentRejections.WithLabelValues("exceeds_due")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentRejections.WithLabelValues("settled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentRejections.WithLabelValues("other")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.InvoiceCreated()
		m.PaymentApplied()
		m.PaymentRejected(billing.ErrNothingDue)
	})
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}
