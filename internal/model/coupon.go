package model

import (
	"time"

	"go-dulceria-api/internal/pricing"
)

type Coupon struct {
	BaseModel
	// Code is stored upper-case; lookups are case-insensitive
	Code        string               `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`
	Type        pricing.DiscountType `gorm:"type:varchar(20);not null" json:"type"`
	Value       int64                `gorm:"not null" json:"value"`
	MinPurchase *int64               `json:"min_purchase"`
	MaxUses     *int                 `json:"max_uses"`
	UsedCount   int                  `gorm:"not null;default:0" json:"used_count"`
	IsActive    bool                 `gorm:"not null" json:"is_active"`
	ExpiresAt   *time.Time           `json:"expires_at"`
}

func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

func (c *Coupon) Exhausted() bool {
	return c.MaxUses != nil && c.UsedCount >= *c.MaxUses
}
