package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTransaction is an append-only ledger row owned by one invoice.
type PaymentTransaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	InvoiceID   uint            `gorm:"not null;index" json:"invoice_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	PaymentDate time.Time       `gorm:"type:date;not null;index" json:"payment_date"`
	PaymentMode string          `gorm:"type:varchar(50)" json:"payment_mode"`
	ReferenceNo string          `gorm:"type:varchar(100)" json:"reference_no"`
	ReceivedBy  string          `gorm:"type:varchar(255)" json:"received_by"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `gorm:"type:varchar(255)" json:"created_by"`
}
