package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"jewel-erp/internal/service"
)

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// CreateSale
// POST /api/v1/invoices
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	inv, err := h.saleService.CreateSale(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Invoice created successfully",
		"data":    inv,
	})
}

// UpdateSale
// PUT /api/v1/invoices/:id
func (h *SaleHandler) UpdateSale(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.SaleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	inv, err := h.saleService.UpdateSale(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invoice updated successfully", "data": inv})
}

// AddPayment
// POST /api/v1/invoices/:id/payments
func (h *SaleHandler) AddPayment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	inv, err := h.saleService.AddPayment(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Payment recorded successfully", "data": inv})
}

// GET /api/v1/invoices/:id
func (h *SaleHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	inv, err := h.saleService.GetInvoice(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// GET /api/v1/invoices
func (h *SaleHandler) ListInvoices(c *fiber.Ctx) error {
	rows, err := h.saleService.ListInvoices(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GET /api/v1/invoices/search?q=&status=
func (h *SaleHandler) SearchInvoices(c *fiber.Ctx) error {
	rows, err := h.saleService.SearchInvoices(c.UserContext(), c.Query("q"), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GET /api/v1/invoices/next-number
func (h *SaleHandler) NextInvoiceNumber(c *fiber.Ctx) error {
	number, err := h.saleService.NextInvoiceNumber(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"invoice_no": number})
}

// GET /api/v1/invoices/:id/items
func (h *SaleHandler) GetItems(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.saleService.GetItemsForInvoice(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// GET /api/v1/invoices/:id/payments
func (h *SaleHandler) ListPayments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	payments, err := h.saleService.ListPayments(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payments)
}

// GET /api/v1/invoices/:id/audit-trail
func (h *SaleHandler) GetAuditTrail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	entries, err := h.saleService.GetAuditTrail(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// GetSalesAudit reports invoices in a date range.
// GET /api/v1/invoices/audit?start=&end=&status=
func (h *SaleHandler) GetSalesAudit(c *fiber.Ctx) error {
	resp, err := h.saleService.GetSalesAuditData(c.UserContext(), c.Query("start"), c.Query("end"), statusesQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GET /api/v1/invoices/export/excel?start=&end=&status=
func (h *SaleHandler) ExportExcel(c *fiber.Ctx) error {
	start, end := c.Query("start"), c.Query("end")
	data, err := h.saleService.ExportSalesToExcel(c.UserContext(), start, end, statusesQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="sales_%s_%s.xlsx"`, start, end))
	return c.Send(data)
}

// GET /api/v1/invoices/:id/pdf
func (h *SaleHandler) ExportPdf(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.saleService.ExportInvoiceToPdf(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="invoice_%d.pdf"`, id))
	return c.Send(data)
}
