package model

import (
	"time"

	"github.com/shopspring/decimal"

	"jewel-erp/internal/billing"
)

type SalesInvoice struct {
	Model
	InvoiceNo   string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	CustomerID  uint           `gorm:"not null;index" json:"customer_id"`
	Customer    *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	InvoiceDate time.Time      `gorm:"type:date;not null;index" json:"invoice_date"`
	SalesType   string         `gorm:"type:varchar(30)" json:"sales_type"`
	Status      billing.Status `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentMode string         `gorm:"type:varchar(50)" json:"payment_mode"`
	Remarks     string         `gorm:"type:text" json:"remarks"`

	TotalAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_amount"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0" json:"discount_percent"`
	Discount        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"discount"`
	NetAmount       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"net_amount"`
	RoundOff        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"round_off"`
	OldGoldValue    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"old_gold_value"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"paid_amount"`
	// DueAmount is a snapshot; services recompute it from the ledger on read.
	DueAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"due_amount"`

	Items    []SalesItem          `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payments []PaymentTransaction `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// ItemTotals returns the total price of every line.
func (inv *SalesInvoice) ItemTotals() []decimal.Decimal {
	totals := make([]decimal.Decimal, len(inv.Items))
	for i, it := range inv.Items {
		totals[i] = it.TotalPrice
	}
	return totals
}

// ApplyTotals stores the result of an invoice totals computation.
func (inv *SalesInvoice) ApplyTotals(t billing.InvoiceTotals) {
	inv.TotalAmount = t.TotalAmount
	inv.Discount = t.Discount
	inv.NetAmount = t.NetAmount
	inv.RoundOff = t.RoundOff
}

// RecalcDue refreshes DueAmount given the invoice's total returns.
func (inv *SalesInvoice) RecalcDue(returned decimal.Decimal) {
	inv.DueAmount = billing.RecalcDue(inv.NetAmount, inv.OldGoldValue, returned, inv.PaidAmount)
}

func (inv *SalesInvoice) PaymentState(returned decimal.Decimal) billing.PaymentState {
	return billing.PaymentState{
		Status:       inv.Status,
		NetAmount:    inv.NetAmount,
		OldGoldValue: inv.OldGoldValue,
		Returned:     returned,
		PaidAmount:   inv.PaidAmount,
	}
}

func (inv *SalesInvoice) CustomerName() string {
	if inv.Customer == nil {
		return ""
	}
	return inv.Customer.Name
}

type SalesItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	InvoiceID uint            `gorm:"not null;index" json:"invoice_id"`
	ProductID *uint           `gorm:"index" json:"product_id,omitempty"`
	ItemName  string          `gorm:"type:varchar(255);not null" json:"item_name"`
	Purity    string          `gorm:"type:varchar(20)" json:"purity"`
	HSNCode   string          `gorm:"type:varchar(20)" json:"hsn_code"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`

	GrossWeight         decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"gross_weight"`
	NetWeight           decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"net_weight"`
	RatePerGram         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"rate_per_gram"`
	DiamondCarat        decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0" json:"diamond_carat"`
	DiamondRate         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"diamond_rate"`
	MakingChargePercent decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0" json:"making_charge_percent"`

	GoldValue          decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"gold_value"`
	DiamondAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"diamond_amount"`
	MakingChargeAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"making_charge_amount"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_price"`
}

func (it *SalesItem) ApplyTotals(t billing.LineItemTotals) {
	it.GoldValue = t.GoldValue
	it.DiamondAmount = t.DiamondAmount
	it.MakingChargeAmount = t.MakingChargeAmount
	it.TotalPrice = t.TotalPrice
}
