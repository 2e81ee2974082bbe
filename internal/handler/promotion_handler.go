package handler

import (
	"go-dulceria-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PromotionHandler struct {
	service service.PromotionService
}

func NewPromotionHandler(s service.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: s}
}

// GET /api/v1/banners
func (h *PromotionHandler) GetActiveBanners(c *fiber.Ctx) error {
	return h.listBanners(c, true)
}

// GET /api/v1/admin/banners
func (h *PromotionHandler) GetBanners(c *fiber.Ctx) error {
	return h.listBanners(c, false)
}

func (h *PromotionHandler) listBanners(c *fiber.Ctx, activeOnly bool) error {
	banners, err := h.service.ListBanners(c.UserContext(), activeOnly)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(banners)
}

func (h *PromotionHandler) CreateBanner(c *fiber.Ctx) error {
	var req service.BannerRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	banner, err := h.service.CreateBanner(c.UserContext(), &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Banner creado", banner)
}

func (h *PromotionHandler) UpdateBanner(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.BannerRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	banner, err := h.service.UpdateBanner(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Banner actualizado", banner)
}

func (h *PromotionHandler) DeleteBanner(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.service.DeleteBanner(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Banner eliminado"})
}

// GetActiveCountdown feeds the home page timer
// GET /api/v1/countdowns/active
func (h *PromotionHandler) GetActiveCountdown(c *fiber.Ctx) error {
	countdown, err := h.service.ActiveCountdown(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(countdown)
}

func (h *PromotionHandler) GetCountdowns(c *fiber.Ctx) error {
	countdowns, err := h.service.ListCountdowns(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(countdowns)
}

func (h *PromotionHandler) CreateCountdown(c *fiber.Ctx) error {
	var req service.CountdownRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	countdown, err := h.service.CreateCountdown(c.UserContext(), &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Cuenta regresiva creada", countdown)
}

func (h *PromotionHandler) UpdateCountdown(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.CountdownRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	countdown, err := h.service.UpdateCountdown(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Cuenta regresiva actualizada", countdown)
}

func (h *PromotionHandler) DeleteCountdown(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.service.DeleteCountdown(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cuenta regresiva eliminada"})
}
