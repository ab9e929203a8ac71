package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jewel-erp/internal/billing"
	"jewel-erp/internal/model"
)

func TestSalesWorkbook(t *testing.T) {
	rows := []SalesRow{{
		InvoiceNo:    "RE-2026-000001",
		Date:         time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		CustomerName: "Meera",
		TotalAmount:  decimal.RequireFromString("55000"),
		Discount:     decimal.RequireFromString("1100"),
		NetAmount:    decimal.RequireFromString("53900"),
		PaidAmount:   decimal.RequireFromString("20000"),
		DueAmount:    decimal.RequireFromString("33900"),
	}}

	data, err := SalesWorkbook(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetRows(salesSheet)
	require.NoError(t, err)
	require.Len(t, header, 2)
	assert.Equal(t, SalesHeaders, header[0])
	assert.Equal(t, "RE-2026-000001", header[1][0])
	assert.Equal(t, "2026-10-01", header[1][1])

	net, err := f.GetCellValue(salesSheet, "F2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "53900", net)
}

func TestInvoicePDF(t *testing.T) {
	inv := &model.SalesInvoice{
		InvoiceNo:   "RE-2026-000002",
		InvoiceDate: time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
		Status:      billing.StatusPartiallyPaid,
		Customer:    &model.Customer{Name: "Ravi", Mobile: "9876543210"},
		Items: []model.SalesItem{{
			ItemName:   "Necklace",
			NetWeight:  decimal.RequireFromString("10"),
			TotalPrice: decimal.RequireFromString("55000"),
		}},
		NetAmount: decimal.RequireFromString("53900"),
	}

	data, err := InvoicePDF(InvoiceDocument{
		Company: &model.CompanyDetails{CompanyName: "Sona Jewellers", GSTIN: "27ABCDE1234F1Z5"},
		Bank:    &model.BankDetails{BankName: "State Bank", AccountNumber: "0001", UPIID: "sona@upi"},
		Invoice: inv,
		Payments: []model.PaymentTransaction{{
			Amount: decimal.RequireFromString("20000"), PaymentMode: "UPI", PaymentDate: inv.InvoiceDate,
		}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = InvoicePDF(InvoiceDocument{})
	assert.Error(t, err)
}
