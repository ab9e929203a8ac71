package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReturn credits one returned invoice line back to its invoice.
type SalesReturn struct {
	Model
	InvoiceID    uint            `gorm:"not null;index" json:"invoice_id"`
	Invoice      *SalesInvoice   `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	SalesItemID  uint            `gorm:"not null;uniqueIndex" json:"sales_item_id"`
	SalesItem    *SalesItem      `gorm:"foreignKey:SalesItemID" json:"sales_item,omitempty"`
	ReturnDate   time.Time       `gorm:"type:date;not null" json:"return_date"`
	ReturnAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"return_amount"`
	Reason       string          `gorm:"type:text" json:"reason"`
	HandledBy    string          `gorm:"type:varchar(255)" json:"handled_by"`
}

// SalesExchange swaps a sold line for a catalog product. A positive
// difference is collected from the customer, a negative one refunded.
type SalesExchange struct {
	Model
	ReturnItemID      uint            `gorm:"not null;uniqueIndex" json:"return_item_id"`
	ReturnedItem      *SalesItem      `gorm:"foreignKey:ReturnItemID" json:"returned_item,omitempty"`
	OriginalInvoiceID uint            `gorm:"not null;index" json:"original_invoice_id"`
	OriginalInvoice   *SalesInvoice   `gorm:"foreignKey:OriginalInvoiceID" json:"original_invoice,omitempty"`
	CustomerID        uint            `gorm:"not null;index" json:"customer_id"`
	Customer          *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	NewItemID         uint            `gorm:"not null" json:"new_item_id"`
	NewItem           *ProductCatalog `gorm:"foreignKey:NewItemID" json:"new_item,omitempty"`
	DifferenceAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"difference_amount"`
	ExchangeDate      time.Time       `gorm:"type:date;not null" json:"exchange_date"`
	HandledBy         string          `gorm:"type:varchar(255)" json:"handled_by"`
	Remarks           string          `gorm:"type:text" json:"remarks"`
}

// ExchangeLogRecord is one row of the exchange log report.
type ExchangeLogRecord struct {
	ID               uint            `json:"id"`
	InvoiceNo        string          `json:"invoice_no"`
	ReturnedItemName string          `json:"returned_item_name"`
	NewItemName      string          `json:"new_item_name"`
	DifferenceAmount decimal.Decimal `json:"difference_amount"`
	ExchangeDate     time.Time       `json:"exchange_date"`
	CustomerName     string          `json:"customer_name"`
	HandledBy        string          `json:"handled_by"`
}

func (e *SalesExchange) ToLogRecord() ExchangeLogRecord {
	rec := ExchangeLogRecord{
		ID:               e.ID,
		DifferenceAmount: e.DifferenceAmount,
		ExchangeDate:     e.ExchangeDate,
		HandledBy:        e.HandledBy,
	}
	if e.OriginalInvoice != nil {
		rec.InvoiceNo = e.OriginalInvoice.InvoiceNo
	}
	if e.ReturnedItem != nil {
		rec.ReturnedItemName = e.ReturnedItem.ItemName
	}
	if e.NewItem != nil {
		rec.NewItemName = e.NewItem.Name
	}
	if e.Customer != nil {
		rec.CustomerName = e.Customer.Name
	}
	return rec
}
