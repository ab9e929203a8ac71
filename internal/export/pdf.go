package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"jewel-erp/internal/model"
)

// InvoiceDocument is everything printed on one invoice. Company and Bank
// may be nil.
type InvoiceDocument struct {
	Company  *model.CompanyDetails
	Bank     *model.BankDetails
	Invoice  *model.SalesInvoice
	Payments []model.PaymentTransaction
	Returned decimal.Decimal
}

func money(d decimal.Decimal) string {
	return "Rs. " + d.StringFixed(2)
}

// InvoicePDF renders an A4 tax invoice.
func InvoicePDF(doc InvoiceDocument) ([]byte, error) {
	inv := doc.Invoice
	if inv == nil {
		return nil, fmt.Errorf("invoice is required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Company header
	title := "TAX INVOICE"
	if doc.Company != nil {
		title = doc.Company.CompanyName
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if c := doc.Company; c != nil {
		for _, line := range []string{c.Address, joinNonEmpty("Phone: ", c.Phone, "  Email: ", c.Email), joinNonEmpty("GSTIN: ", c.GSTIN, "  PAN: ", c.PAN)} {
			if line != "" {
				pdf.CellFormat(0, 5, line, "", 1, "C", false, 0, "")
			}
		}
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 6, "Invoice No: "+inv.InvoiceNo, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+inv.InvoiceDate.Format("02-Jan-2006"), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if inv.Customer != nil {
		pdf.CellFormat(0, 6, "Bill To: "+inv.Customer.Name+"  ("+inv.Customer.Mobile+")", "", 1, "L", false, 0, "")
		if inv.Customer.Address != "" {
			pdf.CellFormat(0, 6, inv.Customer.Address, "", 1, "L", false, 0, "")
		}
	}
	pdf.CellFormat(0, 6, "Status: "+inv.Status.String()+"   Payment Mode: "+inv.PaymentMode, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Items table
	headers := []string{"#", "Item", "Purity", "Net Wt", "Rate/g", "Gold", "Diamond", "Making", "Total"}
	widths := []float64{8, 42, 14, 16, 18, 20, 20, 20, 22}
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for i, it := range inv.Items {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			it.ItemName,
			it.Purity,
			it.NetWeight.StringFixed(3),
			it.RatePerGram.StringFixed(2),
			it.GoldValue.StringFixed(2),
			it.DiamondAmount.StringFixed(2),
			it.MakingChargeAmount.StringFixed(2),
			it.TotalPrice.StringFixed(2),
		}
		for j, v := range cells {
			align := "R"
			if j == 1 || j == 2 {
				align = "L"
			}
			pdf.CellFormat(widths[j], 6, v, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)

	// Totals
	totals := [][2]string{
		{"Total Amount", money(inv.TotalAmount)},
		{"Discount", money(inv.Discount)},
		{"Round Off", money(inv.RoundOff)},
		{"Net Amount", money(inv.NetAmount)},
		{"Old Gold Value", money(inv.OldGoldValue)},
		{"Returned", money(doc.Returned)},
		{"Paid Amount", money(inv.PaidAmount)},
		{"Due Amount", money(inv.DueAmount)},
	}
	for _, row := range totals {
		pdf.SetFont("Arial", "", 9)
		if row[0] == "Net Amount" || row[0] == "Due Amount" {
			pdf.SetFont("Arial", "B", 9)
		}
		pdf.CellFormat(140, 6, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "R", false, 0, "")
	}

	if len(doc.Payments) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(0, 6, "Payments", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 8)
		for _, p := range doc.Payments {
			line := fmt.Sprintf("%s  %s  %s  %s", p.PaymentDate.Format("02-Jan-2006"), p.PaymentMode, p.ReferenceNo, money(p.Amount))
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}

	if b := doc.Bank; b != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(0, 6, "Bank Details", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("%s  A/c %s  IFSC %s", b.BankName, b.AccountNumber, b.IFSCCode), "", 1, "L", false, 0, "")
		if b.UPIID != "" {
			pdf.CellFormat(0, 5, "UPI: "+b.UPIID, "", 1, "L", false, 0, "")
		}
	}

	if doc.Company != nil && doc.Company.TermsAndConditions != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 7)
		pdf.MultiCell(0, 4, doc.Company.TermsAndConditions, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// joinNonEmpty pairs labels with values, skipping empty values.
func joinNonEmpty(pairs ...string) string {
	out := ""
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			out += pairs[i] + pairs[i+1]
		}
	}
	return out
}
