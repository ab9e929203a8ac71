// Package metrics exposes settlement counters to Prometheus.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"jewel-erp/internal/billing"
)

// Metrics is safe to use as a nil pointer, in which case nothing is recorded.
type Metrics struct {
	invoicesCreated   prometheus.Counter
	paymentsApplied   prometheus.Counter
	paymentRejections *prometheus.CounterVec
}

// New registers the collectors on reg, or on the default registerer when reg is nil.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		invoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jewel_erp_invoices_created_total",
			Help: "Number of sales invoices created.",
		}),
		paymentsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jewel_erp_payments_applied_total",
			Help: "Number of payments accepted against invoices.",
		}),
		paymentRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jewel_erp_payment_rejections_total",
			Help: "Number of payments rejected, by reason.",
		}, []string{"reason"}),
	}
	for _, c := range []prometheus.Collector{m.invoicesCreated, m.paymentsApplied, m.paymentRejections} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) InvoiceCreated() {
	if m == nil {
		return
	}
	m.invoicesCreated.Inc()
}

func (m *Metrics) PaymentApplied() {
	if m == nil {
		return
	}
	m.paymentsApplied.Inc()
}

func (m *Metrics) PaymentRejected(err error) {
	if m == nil {
		return
	}
	m.paymentRejections.WithLabelValues(RejectionReason(err)).Inc()
}

// RejectionReason maps a payment error to a low-cardinality label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, billing.ErrInvoiceSettled):
		return "settled"
	case errors.Is(err, billing.ErrNonPositivePayment):
		return "non_positive"
	case errors.Is(err, billing.ErrPaymentExceedsDue):
		return "exceeds_due"
	case errors.Is(err, billing.ErrNothingDue):
		return "nothing_due"
	default:
		return "other"
	}
}
