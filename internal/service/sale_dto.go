package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"jewel-erp/internal/billing"
	"jewel-erp/internal/model"
)

// SaleItemRequest is one line as sent by the billing client. Numeric fields
// are optional; Normalize is the single place absent values become zero.
type SaleItemRequest struct {
	ProductID           *uint            `json:"product_id"`
	ItemName            string           `json:"item_name" validate:"required"`
	Purity              string           `json:"purity"`
	HSNCode             string           `json:"hsn_code"`
	Quantity            int              `json:"quantity" validate:"gte=0"`
	GrossWeight         *decimal.Decimal `json:"gross_weight" validate:"omitempty,gte=0"`
	NetWeight           *decimal.Decimal `json:"net_weight" validate:"omitempty,gte=0"`
	RatePerGram         *decimal.Decimal `json:"rate_per_gram" validate:"omitempty,gte=0"`
	DiamondCarat        *decimal.Decimal `json:"diamond_carat" validate:"omitempty,gte=0"`
	DiamondRate         *decimal.Decimal `json:"diamond_rate" validate:"omitempty,gte=0"`
	MakingChargePercent *decimal.Decimal `json:"making_charge_percent" validate:"omitempty,gte=0"`
	MakingChargeAmount  *decimal.Decimal `json:"making_charge_amount" validate:"omitempty,gte=0"`
}

// Normalize defaults absent numbers to zero and values the line.
func (r SaleItemRequest) Normalize() model.SalesItem {
	qty := r.Quantity
	if qty == 0 {
		qty = 1
	}
	item := model.SalesItem{
		ProductID:           r.ProductID,
		ItemName:            strings.TrimSpace(r.ItemName),
		Purity:              r.Purity,
		HSNCode:             r.HSNCode,
		Quantity:            qty,
		GrossWeight:         billing.OrZero(r.GrossWeight),
		NetWeight:           billing.OrZero(r.NetWeight),
		RatePerGram:         billing.OrZero(r.RatePerGram),
		DiamondCarat:        billing.OrZero(r.DiamondCarat),
		DiamondRate:         billing.OrZero(r.DiamondRate),
		MakingChargePercent: billing.OrZero(r.MakingChargePercent),
	}
	item.ApplyTotals(billing.ComputeItemTotals(billing.LineItemInput{
		NetWeight:           item.NetWeight,
		RatePerGram:         item.RatePerGram,
		DiamondCarat:        item.DiamondCarat,
		DiamondRate:         item.DiamondRate,
		MakingChargePercent: item.MakingChargePercent,
		MakingChargeAmount:  billing.OrZero(r.MakingChargeAmount),
	}))
	return item
}

func normalizeItems(reqs []SaleItemRequest) []model.SalesItem {
	items := make([]model.SalesItem, len(reqs))
	for i, r := range reqs {
		items[i] = r.Normalize()
	}
	return items
}

type SaleRequest struct {
	CustomerName     string            `json:"customer_name"`
	CustomerMobile   string            `json:"customer_mobile" validate:"required,mobile"`
	CustomerEmail    string            `json:"customer_email" validate:"omitempty,email"`
	CustomerAddress  string            `json:"customer_address"`
	InvoiceDate      string            `json:"invoice_date"` // YYYY-MM-DD, today when empty
	SalesType        string            `json:"sales_type"`
	PaymentMode      string            `json:"payment_mode"`
	OtherPaymentMode string            `json:"other_payment_mode"`
	Remarks          string            `json:"remarks"`
	DiscountAmount   *decimal.Decimal  `json:"discount_amount"`
	DiscountPercent  *decimal.Decimal  `json:"discount_percent"`
	OldGoldValue     *decimal.Decimal  `json:"old_gold_value" validate:"omitempty,gte=0"`
	Items            []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleUpdateRequest changes only the fields that are present. Items, when
// given, replace every existing line.
type SaleUpdateRequest struct {
	InvoiceDate      string            `json:"invoice_date"`
	PaymentMode      string            `json:"payment_mode"`
	OtherPaymentMode string            `json:"other_payment_mode"`
	Remarks          *string           `json:"remarks"`
	Status           string            `json:"status"`
	OldGoldValue     *decimal.Decimal  `json:"old_gold_value" validate:"omitempty,gte=0"`
	DiscountAmount   *decimal.Decimal  `json:"discount_amount"`
	DiscountPercent  *decimal.Decimal  `json:"discount_percent"`
	Items            []SaleItemRequest `json:"items" validate:"omitempty,dive"`
}

func (r *SaleUpdateRequest) changesDiscount() bool {
	return r.DiscountAmount != nil || r.DiscountPercent != nil
}

// financial reports whether the update touches amounts.
func (r *SaleUpdateRequest) financial() bool {
	return len(r.Items) > 0 || r.OldGoldValue != nil || r.changesDiscount()
}

type PaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	PaymentMode string          `json:"payment_mode" validate:"required"`
	ReferenceNo string          `json:"reference_no"`
	ReceivedBy  string          `json:"received_by"`
}

// resolvePaymentMode replaces the "Other" choice with the free-text mode.
func resolvePaymentMode(mode, other string) string {
	if strings.EqualFold(strings.TrimSpace(mode), "other") && strings.TrimSpace(other) != "" {
		return strings.TrimSpace(other)
	}
	return strings.TrimSpace(mode)
}

// InvoiceRow is the list view of an invoice with its due recomputed.
type InvoiceRow struct {
	ID             uint            `json:"id"`
	InvoiceNo      string          `json:"invoice_no"`
	InvoiceDate    time.Time       `json:"invoice_date"`
	CustomerName   string          `json:"customer_name"`
	CustomerMobile string          `json:"customer_mobile"`
	Status         billing.Status  `json:"status"`
	PaymentMode    string          `json:"payment_mode"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	OldGoldValue   decimal.Decimal `json:"old_gold_value"`
	TotalReturned  decimal.Decimal `json:"total_returned"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	DueAmount      decimal.Decimal `json:"due_amount"`
}

// SalesRecord is one row of the sales audit report.
type SalesRecord struct {
	ID            uint            `json:"id"`
	InvoiceNo     string          `json:"invoice_no"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	CustomerName  string          `json:"customer_name"`
	Status        billing.Status  `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Discount      decimal.Decimal `json:"discount"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	OldGoldValue  decimal.Decimal `json:"old_gold_value"`
	TotalReturned decimal.Decimal `json:"total_returned"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DueAmount     decimal.Decimal `json:"due_amount"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
}

type SalesListResponse struct {
	Records          []SalesRecord   `json:"records"`
	TotalFinalAmount decimal.Decimal `json:"total_final_amount"`
}

// ItemSelection lists an invoice line for the return and exchange screens.
type ItemSelection struct {
	ID         uint            `json:"id"`
	ItemName   string          `json:"item_name"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Settled    bool            `json:"settled"`
}
