package repository

import (
	"context"
	"strings"

	"go-dulceria-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	// Update writes the editable columns; used_count only moves through IncrementUsage
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]model.Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	// FindByCode matches case-insensitively
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	// FindByCodeForUpdate is FindByCode plus a row lock held until the transaction ends
	FindByCodeForUpdate(ctx context.Context, code string) (*model.Coupon, error)
	// IncrementUsage adds one use if the coupon is active and below max_uses
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
}

type couponRepo struct {
	db *gorm.DB
}

func NewCouponRepo(db *gorm.DB) CouponRepository {
	return &couponRepo{db}
}

func (r *couponRepo) Create(ctx context.Context, coupon *model.Coupon) error {
	return translate(r.db.WithContext(ctx).Create(coupon).Error)
}

func (r *couponRepo) Update(ctx context.Context, coupon *model.Coupon) error {
	return translate(r.db.WithContext(ctx).Omit("used_count").Save(coupon).Error)
}

func (r *couponRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Coupon{}, id)
}

func (r *couponRepo) FindAll(ctx context.Context) ([]model.Coupon, error) {
	var coupons []model.Coupon
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error
	return coupons, translate(err)
}

func (r *couponRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

func (r *couponRepo) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return r.findByCode(r.db.WithContext(ctx), code)
}

func (r *couponRepo) FindByCodeForUpdate(ctx context.Context, code string) (*model.Coupon, error) {
	return r.findByCode(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), code)
}

func (r *couponRepo) findByCode(q *gorm.DB, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := q.First(&coupon, "UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).Error; err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

func (r *couponRepo) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("id = ? AND is_active = ? AND (max_uses IS NULL OR used_count < max_uses)", id, true).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}
