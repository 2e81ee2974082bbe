package repository

import (
	"context"
	"time"

	"go-dulceria-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BannerRepository interface {
	Create(ctx context.Context, banner *model.Banner) error
	Update(ctx context.Context, banner *model.Banner) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, activeOnly bool) ([]model.Banner, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Banner, error)
}

type CountdownRepository interface {
	Create(ctx context.Context, countdown *model.Countdown) error
	Update(ctx context.Context, countdown *model.Countdown) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]model.Countdown, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Countdown, error)
	// FindActive returns the active countdown ending soonest after now
	FindActive(ctx context.Context, now time.Time) (*model.Countdown, error)
}

type bannerRepo struct {
	db *gorm.DB
}

func NewBannerRepo(db *gorm.DB) BannerRepository {
	return &bannerRepo{db}
}

func (r *bannerRepo) Create(ctx context.Context, banner *model.Banner) error {
	return translate(r.db.WithContext(ctx).Create(banner).Error)
}

func (r *bannerRepo) Update(ctx context.Context, banner *model.Banner) error {
	return translate(r.db.WithContext(ctx).Save(banner).Error)
}

func (r *bannerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Banner{}, id)
}

func (r *bannerRepo) FindAll(ctx context.Context, activeOnly bool) ([]model.Banner, error) {
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var banners []model.Banner
	err := q.Order("sort_order ASC, created_at ASC").Find(&banners).Error
	return banners, translate(err)
}

func (r *bannerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Banner, error) {
	var banner model.Banner
	if err := r.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &banner, nil
}

type countdownRepo struct {
	db *gorm.DB
}

func NewCountdownRepo(db *gorm.DB) CountdownRepository {
	return &countdownRepo{db}
}

func (r *countdownRepo) Create(ctx context.Context, countdown *model.Countdown) error {
	return translate(r.db.WithContext(ctx).Create(countdown).Error)
}

func (r *countdownRepo) Update(ctx context.Context, countdown *model.Countdown) error {
	return translate(r.db.WithContext(ctx).Save(countdown).Error)
}

func (r *countdownRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &model.Countdown{}, id)
}

func (r *countdownRepo) FindAll(ctx context.Context) ([]model.Countdown, error) {
	var countdowns []model.Countdown
	err := r.db.WithContext(ctx).Order("ends_at DESC").Find(&countdowns).Error
	return countdowns, translate(err)
}

func (r *countdownRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Countdown, error) {
	var countdown model.Countdown
	if err := r.db.WithContext(ctx).First(&countdown, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &countdown, nil
}

func (r *countdownRepo) FindActive(ctx context.Context, now time.Time) (*model.Countdown, error) {
	var countdown model.Countdown
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND ends_at > ?", true, now).
		Order("ends_at ASC").
		First(&countdown).Error
	if err != nil {
		return nil, translate(err)
	}
	return &countdown, nil
}

func deleteByID(db *gorm.DB, value interface{}, id uuid.UUID) error {
	res := db.Delete(value, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
