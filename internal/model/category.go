package model

// Category groups products in the storefront menu
type Category struct {
	BaseModel
	Slug        string `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Name        string `gorm:"type:varchar(120);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	ProductCount int64 `gorm:"->;-:migration" json:"product_count"`
}
