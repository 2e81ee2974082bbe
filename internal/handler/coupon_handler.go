package handler

import (
	"go-dulceria-api/internal/service"
	"go-dulceria-api/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type CouponHandler struct {
	service service.CouponService
}

func NewCouponHandler(s service.CouponService) *CouponHandler {
	return &CouponHandler{service: s}
}

type ValidateCouponRequest struct {
	Code      string `json:"code"`
	CartTotal int64  `json:"cart_total"`
}

// ValidateCoupon tells the cart whether a code applies and how much it takes off.
// Rejections carry valid=false and a message for the customer.
// POST /api/v1/coupons/validate
func (h *CouponHandler) ValidateCoupon(c *fiber.Ctx) error {
	var req ValidateCouponRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	discount, err := h.service.Validate(c.UserContext(), req.Code, req.CartTotal)
	if err != nil {
		code, msg := apperr.Public(err)
		return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{
			"valid": false,
			"error": msg,
			"code":  code,
		})
	}

	return c.JSON(fiber.Map{
		"valid":           true,
		"coupon":          discount,
		"discount_amount": discount.DiscountAmount,
		"total":           req.CartTotal - discount.DiscountAmount,
	})
}

// UseCoupon consumes one use of a coupon outside of an order
// POST /api/v1/admin/coupons/:code/use
func (h *CouponHandler) UseCoupon(c *fiber.Ctx) error {
	coupon, err := h.service.Use(c.UserContext(), c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Uso registrado", coupon)
}

func (h *CouponHandler) GetCoupons(c *fiber.Ctx) error {
	coupons, err := h.service.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(coupons)
}

func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	coupon, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(coupon)
}

func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req service.CouponRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	coupon, err := h.service.Create(c.UserContext(), &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return created(c, "Cupón creado", coupon)
}

func (h *CouponHandler) UpdateCoupon(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.CouponRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	coupon, err := h.service.Update(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "Cupón actualizado", coupon)
}

func (h *CouponHandler) DeleteCoupon(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cupón eliminado"})
}
