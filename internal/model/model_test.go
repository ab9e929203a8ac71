package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"jewel-erp/internal/billing"
)

func TestSalesInvoiceRecalcDue(t *testing.T) {
	inv := &SalesInvoice{
		NetAmount:    decimal.RequireFromString("53900"),
		OldGoldValue: decimal.RequireFromString("3900"),
		PaidAmount:   decimal.RequireFromString("20000"),
	}
	inv.RecalcDue(decimal.RequireFromString("1000"))
	assert.Equal(t, "29000.00", inv.DueAmount.StringFixed(2))

	state := inv.PaymentState(decimal.RequireFromString("1000"))
	assert.True(t, state.Due().Equal(inv.DueAmount))
}

func TestSnapshot(t *testing.T) {
	inv := &SalesInvoice{
		InvoiceNo:   "RE-2026-000001",
		InvoiceDate: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		Status:      billing.StatusPending,
		Items:       []SalesItem{{ItemName: "Ring"}},
		NetAmount:   decimal.RequireFromString("1000"),
	}
	snap := inv.Snapshot()
	assert.Equal(t, "RE-2026-000001", snap["invoice_no"])
	assert.Equal(t, "2026-10-16", snap["invoice_date"])
	assert.Equal(t, "PENDING", snap["status"])
	assert.Equal(t, 1, snap["item_count"])
	assert.Equal(t, "1000.00", snap["net_amount"])
}

func TestPrivilegesFor(t *testing.T) {
	all := DefaultPrivileges
	assert.Len(t, PrivilegesFor(RoleMasterAdmin, all), len(all))

	for _, p := range PrivilegesFor(RoleAdmin, all) {
		assert.False(t, IsUserAdminPrivilege(p.Code), p.Code)
	}
	cashier := PrivilegesFor(RoleCashier, all)
	assert.Len(t, cashier, 5)
	assert.Empty(t, PrivilegesFor("UNKNOWN", all))
}

func TestExchangeLogRecord(t *testing.T) {
	ex := &SalesExchange{
		DifferenceAmount: decimal.RequireFromString("-250.00"),
		OriginalInvoice:  &SalesInvoice{InvoiceNo: "RE-2026-000010"},
		ReturnedItem:     &SalesItem{ItemName: "Chain 22K"},
		NewItem:          &ProductCatalog{Name: "Bangle 22K"},
		Customer:         &Customer{Name: "Asha"},
		HandledBy:        "counter-1",
	}
	rec := ex.ToLogRecord()
	assert.Equal(t, "RE-2026-000010", rec.InvoiceNo)
	assert.Equal(t, "Chain 22K", rec.ReturnedItemName)
	assert.Equal(t, "Bangle 22K", rec.NewItemName)
	assert.Equal(t, "Asha", rec.CustomerName)
}
