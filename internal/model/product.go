package model

import "github.com/google/uuid"

type Product struct {
	BaseModel
	Slug             string `gorm:"type:varchar(160);uniqueIndex;not null" json:"slug"`
	Name             string `gorm:"type:varchar(255);not null" json:"name"`
	ShortDescription string `gorm:"type:varchar(500)" json:"short_description"`
	Description      string `gorm:"type:text" json:"description"`
	Price            int64  `gorm:"not null;default:0" json:"price"`
	Tag              string `gorm:"type:varchar(40)" json:"tag,omitempty"` // "Nuevo", "Más vendido"...
	ImageURL         string `gorm:"type:varchar(500)" json:"image_url"`
	IsFeatured       bool   `gorm:"default:false;index" json:"is_featured"`
	IsActive         bool   `gorm:"not null;index" json:"is_active"`

	// Stock is only read or written when TrackStock is true
	Stock      int  `gorm:"not null;default:0" json:"stock"`
	TrackStock bool `gorm:"not null;default:false" json:"track_stock"`

	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category   *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
}

// Available reports whether qty units can be sold right now.
// Untracked products are never limited by stock.
func (p *Product) Available(qty int) bool {
	if !p.TrackStock {
		return true
	}
	return p.Stock >= qty
}
