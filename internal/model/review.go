package model

import "github.com/google/uuid"

// Review is only shown publicly once IsApproved is set by staff
type Review struct {
	BaseModel
	ProductID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorName string        `gorm:"type:varchar(120);not null" json:"author_name"`
	Rating     int           `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment    string        `gorm:"type:text" json:"comment,omitempty"`
	IsApproved bool          `gorm:"not null;default:false;index" json:"is_approved"`
	Images     []ReviewImage `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

type ReviewImage struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ReviewID uuid.UUID `gorm:"type:uuid;not null;index" json:"review_id"`
	URL      string    `gorm:"type:varchar(500);not null" json:"url"`
}

// EmailSubscriber is a newsletter sign-up
type EmailSubscriber struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name     string `gorm:"type:varchar(120)" json:"name,omitempty"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}
