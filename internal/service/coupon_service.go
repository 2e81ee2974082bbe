package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/pricing"
	"go-dulceria-api/internal/repository"
	"go-dulceria-api/pkg/apperr"

	"github.com/google/uuid"
)

var (
	ErrCouponCodeRequired = apperr.Validation("coupon_code_required", "Ingresa un código de cupón")
	ErrCartTotalInvalid   = apperr.Validation("cart_total_invalid", "El total del carrito debe ser mayor a cero")
	ErrCouponNotFound     = apperr.NotFound("coupon_not_found", "Cupón no encontrado")
	ErrCouponInactive     = apperr.Rejected("coupon_inactive", "Este cupón ya no está activo")
	ErrCouponExpired      = apperr.Rejected("coupon_expired", "Este cupón ha expirado")
	ErrCouponExhausted    = apperr.Rejected("coupon_exhausted", "Este cupón alcanzó el máximo de usos")
	ErrCouponMinPurchase  = apperr.Rejected("coupon_min_purchase", "No alcanzas la compra mínima para este cupón")
	ErrCouponExists       = apperr.Conflict("coupon_exists", "Ya existe un cupón con ese código")
	ErrCouponPercentage   = apperr.Validation("coupon_percentage", "El porcentaje debe estar entre 1 y 100")
)

// CouponDiscount is what a valid coupon takes off a given cart total
type CouponDiscount struct {
	ID             uuid.UUID            `json:"id"`
	Code           string               `json:"code"`
	Type           pricing.DiscountType `json:"type"`
	Value          int64                `json:"value"`
	DiscountAmount int64                `json:"discount_amount"`
}

type CouponRequest struct {
	Code        string               `json:"code" validate:"required,max=40"`
	Type        pricing.DiscountType `json:"type" validate:"required,oneof=percentage fixed"`
	Value       int64                `json:"value" validate:"gt=0"`
	MinPurchase *int64               `json:"min_purchase" validate:"omitempty,gt=0"`
	MaxUses     *int                 `json:"max_uses" validate:"omitempty,gt=0"`
	IsActive    *bool                `json:"is_active"`
	ExpiresAt   *time.Time           `json:"expires_at"`
}

type CouponService interface {
	// Validate checks code against cartTotal without consuming a use
	Validate(ctx context.Context, code string, cartTotal int64) (*CouponDiscount, error)
	// Use consumes one use of the coupon
	Use(ctx context.Context, code string) (*model.Coupon, error)

	List(ctx context.Context) ([]model.Coupon, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	Create(ctx context.Context, req *CouponRequest, actor string) (*model.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, req *CouponRequest, actor string) (*model.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type couponService struct {
	repo repository.CouponRepository
	now  func() time.Time
}

func NewCouponService(repo repository.CouponRepository) CouponService {
	return &couponService{repo: repo, now: time.Now}
}

// evaluateCoupon applies the coupon rules in order; the first failing rule wins.
func evaluateCoupon(c *model.Coupon, cartTotal int64, now time.Time) (*CouponDiscount, error) {
	switch {
	case !c.IsActive:
		return nil, ErrCouponInactive
	case c.Expired(now):
		return nil, ErrCouponExpired
	case c.Exhausted():
		return nil, ErrCouponExhausted
	case c.MinPurchase != nil && cartTotal < *c.MinPurchase:
		return nil, ErrCouponMinPurchase.WithMessage(fmt.Sprintf(
			"La compra mínima para este cupón es de %s", pricing.FormatCOP(*c.MinPurchase)))
	}

	return &CouponDiscount{
		ID:             c.ID,
		Code:           c.Code,
		Type:           c.Type,
		Value:          c.Value,
		DiscountAmount: pricing.Discount(c.Type, c.Value, cartTotal),
	}, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *couponService) Validate(ctx context.Context, code string, cartTotal int64) (*CouponDiscount, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, ErrCouponCodeRequired
	}
	if cartTotal <= 0 {
		return nil, ErrCartTotalInvalid
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, lookupError("coupon: validate", err, ErrCouponNotFound)
	}
	return evaluateCoupon(coupon, cartTotal, s.now())
}

func (s *couponService) Use(ctx context.Context, code string) (*model.Coupon, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, ErrCouponCodeRequired
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, lookupError("coupon: use", err, ErrCouponNotFound)
	}
	if !coupon.IsActive {
		return nil, ErrCouponInactive
	}
	if coupon.Expired(s.now()) {
		return nil, ErrCouponExpired
	}

	ok, err := s.repo.IncrementUsage(ctx, coupon.ID)
	if err != nil {
		return nil, internalError("coupon: use", err)
	}
	if !ok {
		return nil, ErrCouponExhausted
	}
	coupon.UsedCount++
	return coupon, nil
}

func (s *couponService) List(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, internalError("coupon: list", err)
	}
	return coupons, nil
}

func (s *couponService) Get(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("coupon: get", err, ErrCouponNotFound)
	}
	return coupon, nil
}

func checkCouponRequest(req *CouponRequest) error {
	req.Code = normalizeCode(req.Code)
	if err := validationError(req); err != nil {
		return err
	}
	if req.Type == pricing.DiscountPercentage && req.Value > 100 {
		return ErrCouponPercentage
	}
	return nil
}

func applyCouponRequest(c *model.Coupon, req *CouponRequest) {
	c.Code = req.Code
	c.Type = req.Type
	c.Value = req.Value
	c.MinPurchase = req.MinPurchase
	c.MaxUses = req.MaxUses
	c.ExpiresAt = req.ExpiresAt
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
}

func (s *couponService) Create(ctx context.Context, req *CouponRequest, actor string) (*model.Coupon, error) {
	if err := checkCouponRequest(req); err != nil {
		return nil, err
	}

	coupon := &model.Coupon{IsActive: true}
	applyCouponRequest(coupon, req)
	coupon.CreatedBy = actor
	coupon.UpdatedBy = actor

	if err := s.repo.Create(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCouponExists
		}
		return nil, internalError("coupon: create", err)
	}
	return coupon, nil
}

func (s *couponService) Update(ctx context.Context, id uuid.UUID, req *CouponRequest, actor string) (*model.Coupon, error) {
	if err := checkCouponRequest(req); err != nil {
		return nil, err
	}

	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("coupon: update", err, ErrCouponNotFound)
	}
	applyCouponRequest(coupon, req)
	coupon.UpdatedBy = actor

	if err := s.repo.Update(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCouponExists
		}
		return nil, internalError("coupon: update", err)
	}
	return coupon, nil
}

func (s *couponService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError("coupon: delete", err, ErrCouponNotFound)
	}
	return nil
}
