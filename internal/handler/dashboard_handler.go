package handler

import (
	"github.com/gofiber/fiber/v2"

	"jewel-erp/internal/service"
)

type DashboardHandler struct {
	dashService service.DashboardService
}

func NewDashboardHandler(dashService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashService: dashService}
}

// GetCollections returns the daily collections chart.
// GET /api/v1/dashboard/collections?days=7
func (h *DashboardHandler) GetCollections(c *fiber.Ctx) error {
	data, err := h.dashService.GetCollections(c.UserContext(), c.QueryInt("days", 7))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data)
}

// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.dashService.GetDashboardStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
