package handler

import (
	"go-dulceria-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// PlaceOrder creates an order from the storefront checkout
// POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var req service.PlaceOrderRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	placed, err := h.service.PlaceOrder(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Pedido recibido", placed)
}

// TrackOrder returns the public view of an order
// GET /api/v1/orders/:number
func (h *OrderHandler) TrackOrder(c *fiber.Ctx) error {
	tracking, err := h.service.GetByNumber(c.UserContext(), c.Params("number"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tracking)
}

// GetOrders is the admin list
// GET /api/v1/admin/orders?status=&branch=&search=&from=&to=&page=
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	var q service.ListOrdersQuery
	if err := c.QueryParser(&q); err != nil {
		return fail(c, errInvalidJSON.WithMessage("Parámetros de búsqueda inválidos"))
	}

	page, err := h.service.List(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// GET /api/v1/admin/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	order, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// UpdateOrder advances the status and/or edits the admin notes
// PATCH /api/v1/admin/orders/:id
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.UpdateOrderRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	order, err := h.service.Update(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Pedido actualizado", order)
}
