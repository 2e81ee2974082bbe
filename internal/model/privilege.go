package model

// Privilege represents a permission that can be granted to staff
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g. "order:update"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivCatalogManage = "catalog:manage"
	PrivCouponManage  = "coupon:manage"
	PrivPromoManage   = "promo:manage"
	PrivOrderView     = "order:view"
	PrivOrderUpdate   = "order:update"
	PrivDashboardView = "dashboard:view"
	PrivUserManage    = "user:manage"
)

// DefaultPrivileges are seeded on startup
var DefaultPrivileges = []Privilege{
	{Code: PrivCatalogManage, Name: "Gestionar productos y categorías"},
	{Code: PrivCouponManage, Name: "Gestionar cupones"},
	{Code: PrivPromoManage, Name: "Gestionar banners y contadores"},
	{Code: PrivOrderView, Name: "Ver pedidos"},
	{Code: PrivOrderUpdate, Name: "Actualizar pedidos"},
	{Code: PrivDashboardView, Name: "Ver tablero"},
	{Code: PrivUserManage, Name: "Gestionar usuarios"},
}
