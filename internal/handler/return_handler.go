package handler

import (
	"github.com/gofiber/fiber/v2"

	"jewel-erp/internal/apperr"
	"jewel-erp/internal/service"
)

type ReturnHandler struct {
	returnService service.ReturnService
}

func NewReturnHandler(returnService service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// POST /api/v1/returns
func (h *ReturnHandler) CreateReturn(c *fiber.Ctx) error {
	var req service.ReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	ret, err := h.returnService.CreateReturn(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Return recorded successfully", "data": ret})
}

// ListReturns lists returns, optionally for one invoice.
// GET /api/v1/returns?invoice_id=
func (h *ReturnHandler) ListReturns(c *fiber.Ctx) error {
	invoiceID := c.QueryInt("invoice_id", 0)
	if invoiceID < 0 {
		return respondError(c, apperr.InvalidArgument("invalid invoice_id"))
	}
	returns, err := h.returnService.ListReturns(c.UserContext(), uint(invoiceID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(returns)
}

// POST /api/v1/exchanges
func (h *ReturnHandler) CreateExchange(c *fiber.Ctx) error {
	var req service.ExchangeRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	rec, err := h.returnService.CreateExchange(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Exchange recorded successfully", "data": rec})
}

// GET /api/v1/exchanges
func (h *ReturnHandler) ListExchanges(c *fiber.Ctx) error {
	log, err := h.returnService.ListExchangeLog(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(log)
}
