package model

import "time"

// Banner is a hero slide on the home page
type Banner struct {
	BaseModel
	Title     string `gorm:"type:varchar(160);not null" json:"title"`
	Subtitle  string `gorm:"type:varchar(255)" json:"subtitle"`
	ImageURL  string `gorm:"type:varchar(500);not null" json:"image_url"`
	LinkURL   string `gorm:"type:varchar(500)" json:"link_url"`
	SortOrder int    `gorm:"not null;default:0;index" json:"sort_order"`
	IsActive  bool   `gorm:"not null" json:"is_active"`
}

// Countdown drives the "oferta termina en" timer of a promotion
type Countdown struct {
	BaseModel
	Title       string    `gorm:"type:varchar(160);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	EndsAt      time.Time `gorm:"not null;index" json:"ends_at"`
	LinkURL     string    `gorm:"type:varchar(500)" json:"link_url"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
}
