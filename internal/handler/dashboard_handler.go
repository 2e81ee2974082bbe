package handler

import (
	"strconv"

	"go-dulceria-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func queryDays(c *fiber.Ctx) int {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}
	return days
}

// GetOrderSeries returns daily orders and revenue for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetOrderSeries(c *fiber.Ctx) error {
	days := queryDays(c)
	data, err := h.service.GetOrderSeries(c.UserContext(), days)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext(), queryDays(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}
