// Package export renders sales data as Excel workbooks and PDF invoices.
package export

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const salesSheet = "Sales"

var SalesHeaders = []string{
	"Invoice No", "Date", "Customer Name", "Total Amount", "Discount",
	"Net Amount", "Paid Amount", "Due Amount", "Old Gold Value", "Total Returned",
}

// SalesRow is one invoice line of the sales workbook.
type SalesRow struct {
	InvoiceNo     string
	Date          time.Time
	CustomerName  string
	TotalAmount   decimal.Decimal
	Discount      decimal.Decimal
	NetAmount     decimal.Decimal
	PaidAmount    decimal.Decimal
	DueAmount     decimal.Decimal
	OldGoldValue  decimal.Decimal
	TotalReturned decimal.Decimal
}

// SalesWorkbook writes rows to a single-sheet xlsx file.
func SalesWorkbook(rows []SalesRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, len(SalesHeaders))
	for i, h := range SalesHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(salesSheet, "A1", &header); err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(SalesHeaders))
	if err := f.SetCellStyle(salesSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			r.InvoiceNo,
			r.Date.Format("2006-01-02"),
			r.CustomerName,
			r.TotalAmount.InexactFloat64(),
			r.Discount.InexactFloat64(),
			r.NetAmount.InexactFloat64(),
			r.PaidAmount.InexactFloat64(),
			r.DueAmount.InexactFloat64(),
			r.OldGoldValue.InexactFloat64(),
			r.TotalReturned.InexactFloat64(),
		}
		if err := f.SetSheetRow(salesSheet, cell, &values); err != nil {
			return nil, err
		}
	}
	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(SalesHeaders), len(rows)+1)
		if err := f.SetCellStyle(salesSheet, "D2", last, moneyStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(salesSheet, "A", lastCol, 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
