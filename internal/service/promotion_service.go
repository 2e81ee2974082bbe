package service

import (
	"context"
	"strings"
	"time"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/repository"
	"go-dulceria-api/pkg/apperr"

	"github.com/google/uuid"
)

var (
	ErrBannerNotFound    = apperr.NotFound("banner_not_found", "Banner no encontrado")
	ErrCountdownNotFound = apperr.NotFound("countdown_not_found", "No hay una cuenta regresiva activa")
	ErrCountdownEnded    = apperr.Validation("countdown_ended", "La fecha de cierre debe estar en el futuro")
)

type BannerRequest struct {
	Title     string `json:"title" validate:"required,max=160"`
	Subtitle  string `json:"subtitle" validate:"max=255"`
	ImageURL  string `json:"image_url" validate:"required,url,max=500"`
	LinkURL   string `json:"link_url" validate:"max=500"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

type CountdownRequest struct {
	Title       string    `json:"title" validate:"required,max=160"`
	Description string    `json:"description"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
	LinkURL     string    `json:"link_url" validate:"max=500"`
	IsActive    *bool     `json:"is_active"`
}

type PromotionService interface {
	ListBanners(ctx context.Context, activeOnly bool) ([]model.Banner, error)
	CreateBanner(ctx context.Context, req *BannerRequest, actor string) (*model.Banner, error)
	UpdateBanner(ctx context.Context, id uuid.UUID, req *BannerRequest, actor string) (*model.Banner, error)
	DeleteBanner(ctx context.Context, id uuid.UUID) error

	ActiveCountdown(ctx context.Context) (*model.Countdown, error)
	ListCountdowns(ctx context.Context) ([]model.Countdown, error)
	CreateCountdown(ctx context.Context, req *CountdownRequest, actor string) (*model.Countdown, error)
	UpdateCountdown(ctx context.Context, id uuid.UUID, req *CountdownRequest, actor string) (*model.Countdown, error)
	DeleteCountdown(ctx context.Context, id uuid.UUID) error
}

type promotionService struct {
	banners    repository.BannerRepository
	countdowns repository.CountdownRepository
	now        func() time.Time
}

func NewPromotionService(banners repository.BannerRepository, countdowns repository.CountdownRepository) PromotionService {
	return &promotionService{banners: banners, countdowns: countdowns, now: time.Now}
}

func (s *promotionService) ListBanners(ctx context.Context, activeOnly bool) ([]model.Banner, error) {
	banners, err := s.banners.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, internalError("promo: list banners", err)
	}
	return banners, nil
}

func applyBannerRequest(b *model.Banner, req *BannerRequest) {
	b.Title = strings.TrimSpace(req.Title)
	b.Subtitle = req.Subtitle
	b.ImageURL = req.ImageURL
	b.LinkURL = req.LinkURL
	b.SortOrder = req.SortOrder
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}
}

func (s *promotionService) CreateBanner(ctx context.Context, req *BannerRequest, actor string) (*model.Banner, error) {
	if err := validationError(req); err != nil {
		return nil, err
	}
	banner := &model.Banner{IsActive: true}
	applyBannerRequest(banner, req)
	banner.CreatedBy = actor
	banner.UpdatedBy = actor

	if err := s.banners.Create(ctx, banner); err != nil {
		return nil, internalError("promo: create banner", err)
	}
	return banner, nil
}

func (s *promotionService) UpdateBanner(ctx context.Context, id uuid.UUID, req *BannerRequest, actor string) (*model.Banner, error) {
	if err := validationError(req); err != nil {
		return nil, err
	}
	banner, err := s.banners.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("promo: update banner", err, ErrBannerNotFound)
	}
	applyBannerRequest(banner, req)
	banner.UpdatedBy = actor

	if err := s.banners.Update(ctx, banner); err != nil {
		return nil, internalError("promo: update banner", err)
	}
	return banner, nil
}

func (s *promotionService) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	if err := s.banners.Delete(ctx, id); err != nil {
		return lookupError("promo: delete banner", err, ErrBannerNotFound)
	}
	return nil
}

// ActiveCountdown returns the live countdown ending soonest
func (s *promotionService) ActiveCountdown(ctx context.Context) (*model.Countdown, error) {
	countdown, err := s.countdowns.FindActive(ctx, s.now())
	if err != nil {
		return nil, lookupError("promo: active countdown", err, ErrCountdownNotFound)
	}
	return countdown, nil
}

func (s *promotionService) ListCountdowns(ctx context.Context) ([]model.Countdown, error) {
	countdowns, err := s.countdowns.FindAll(ctx)
	if err != nil {
		return nil, internalError("promo: list countdowns", err)
	}
	return countdowns, nil
}

func (s *promotionService) checkCountdown(req *CountdownRequest) error {
	if err := validationError(req); err != nil {
		return err
	}
	if !req.EndsAt.After(s.now()) {
		return ErrCountdownEnded
	}
	return nil
}

func applyCountdownRequest(c *model.Countdown, req *CountdownRequest) {
	c.Title = strings.TrimSpace(req.Title)
	c.Description = req.Description
	c.EndsAt = req.EndsAt
	c.LinkURL = req.LinkURL
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
}

func (s *promotionService) CreateCountdown(ctx context.Context, req *CountdownRequest, actor string) (*model.Countdown, error) {
	if err := s.checkCountdown(req); err != nil {
		return nil, err
	}
	countdown := &model.Countdown{IsActive: true}
	applyCountdownRequest(countdown, req)
	countdown.CreatedBy = actor
	countdown.UpdatedBy = actor

	if err := s.countdowns.Create(ctx, countdown); err != nil {
		return nil, internalError("promo: create countdown", err)
	}
	return countdown, nil
}

func (s *promotionService) UpdateCountdown(ctx context.Context, id uuid.UUID, req *CountdownRequest, actor string) (*model.Countdown, error) {
	if err := s.checkCountdown(req); err != nil {
		return nil, err
	}
	countdown, err := s.countdowns.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("promo: update countdown", err, ErrCountdownNotFound.WithMessage("Cuenta regresiva no encontrada"))
	}
	applyCountdownRequest(countdown, req)
	countdown.UpdatedBy = actor

	if err := s.countdowns.Update(ctx, countdown); err != nil {
		return nil, internalError("promo: update countdown", err)
	}
	return countdown, nil
}

func (s *promotionService) DeleteCountdown(ctx context.Context, id uuid.UUID) error {
	if err := s.countdowns.Delete(ctx, id); err != nil {
		return lookupError("promo: delete countdown", err, ErrCountdownNotFound.WithMessage("Cuenta regresiva no encontrada"))
	}
	return nil
}
