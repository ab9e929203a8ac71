package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AuditCreated  = "CREATED"
	AuditUpdated  = "UPDATED"
	AuditPayment  = "PAYMENT"
	AuditReturn   = "RETURN"
	AuditExchange = "EXCHANGE"
)

// SaleAuditLog records an invoice mutation with snapshots taken before and
// after it.
type SaleAuditLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	InvoiceID   uint              `gorm:"not null;index" json:"invoice_id"`
	InvoiceNo   string            `gorm:"type:varchar(30);index" json:"invoice_no"`
	Action      string            `gorm:"type:varchar(20);not null" json:"action"`
	OldState    datatypes.JSONMap `gorm:"type:jsonb" json:"old_state,omitempty"`
	NewState    datatypes.JSONMap `gorm:"type:jsonb" json:"new_state,omitempty"`
	PerformedBy string            `gorm:"type:varchar(255)" json:"performed_by"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Snapshot captures the settlement-relevant fields of an invoice.
func (inv *SalesInvoice) Snapshot() datatypes.JSONMap {
	return datatypes.JSONMap{
		"invoice_no":     inv.InvoiceNo,
		"invoice_date":   inv.InvoiceDate.Format("2006-01-02"),
		"status":         string(inv.Status),
		"payment_mode":   inv.PaymentMode,
		"remarks":        inv.Remarks,
		"item_count":     len(inv.Items),
		"total_amount":   inv.TotalAmount.StringFixed(2),
		"discount":       inv.Discount.StringFixed(2),
		"net_amount":     inv.NetAmount.StringFixed(2),
		"round_off":      inv.RoundOff.StringFixed(2),
		"old_gold_value": inv.OldGoldValue.StringFixed(2),
		"paid_amount":    inv.PaidAmount.StringFixed(2),
		"due_amount":     inv.DueAmount.StringFixed(2),
	}
}
