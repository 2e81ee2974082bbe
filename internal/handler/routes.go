package handler

import (
	"go-dulceria-api/internal/middleware"
	"go-dulceria-api/internal/model"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles every HTTP handler of the API
type Handlers struct {
	Catalog   *CatalogHandler
	Coupon    *CouponHandler
	Order     *OrderHandler
	Promotion *PromotionHandler
	Auth      *AuthHandler
	User      *UserHandler
	Role      *RoleHandler
	Dashboard *DashboardHandler
}

// Register mounts the public storefront routes and the admin routes on app
func Register(app *fiber.App, h Handlers, auth middleware.Authenticator) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Get("/categories", h.Catalog.GetCategories)
	api.Get("/categories/:slug", h.Catalog.GetCategory)
	api.Get("/products", h.Catalog.GetProducts)
	api.Get("/products/:slug", h.Catalog.GetProduct)
	api.Get("/banners", h.Promotion.GetActiveBanners)
	api.Get("/countdowns/active", h.Promotion.GetActiveCountdown)
	api.Post("/coupons/validate", h.Coupon.ValidateCoupon)
	api.Post("/orders", h.Order.PlaceOrder)
	api.Get("/orders/:number", h.Order.TrackOrder)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/validate-token", h.Auth.ValidateToken)

	// ============ ADMIN ROUTES ============
	admin := api.Group("/admin", middleware.RequireAuth(auth))
	admin.Post("/auth/change-password", h.Auth.ChangePassword)

	catalog := middleware.RequirePrivilege(model.PrivCatalogManage)
	admin.Get("/products", catalog, h.Catalog.GetAllProducts)
	admin.Get("/products/:id", catalog, h.Catalog.GetProductByID)
	admin.Post("/products", catalog, h.Catalog.CreateProduct)
	admin.Put("/products/:id", catalog, h.Catalog.UpdateProduct)
	admin.Delete("/products/:id", catalog, h.Catalog.DeleteProduct)
	admin.Post("/products/:id/sell", middleware.RequireAnyPrivilege(model.PrivCatalogManage, model.PrivOrderUpdate), h.Catalog.SellProduct)
	admin.Get("/categories", catalog, h.Catalog.GetCategories)
	admin.Post("/categories", catalog, h.Catalog.CreateCategory)
	admin.Put("/categories/:id", catalog, h.Catalog.UpdateCategory)
	admin.Delete("/categories/:id", catalog, h.Catalog.DeleteCategory)

	coupons := middleware.RequirePrivilege(model.PrivCouponManage)
	admin.Get("/coupons", coupons, h.Coupon.GetCoupons)
	admin.Get("/coupons/:id", coupons, h.Coupon.GetCoupon)
	admin.Post("/coupons", coupons, h.Coupon.CreateCoupon)
	admin.Put("/coupons/:id", coupons, h.Coupon.UpdateCoupon)
	admin.Delete("/coupons/:id", coupons, h.Coupon.DeleteCoupon)
	admin.Post("/coupons/:code/use", middleware.RequireAnyPrivilege(model.PrivCouponManage, model.PrivOrderUpdate), h.Coupon.UseCoupon)

	promo := middleware.RequirePrivilege(model.PrivPromoManage)
	admin.Get("/banners", promo, h.Promotion.GetBanners)
	admin.Post("/banners", promo, h.Promotion.CreateBanner)
	admin.Put("/banners/:id", promo, h.Promotion.UpdateBanner)
	admin.Delete("/banners/:id", promo, h.Promotion.DeleteBanner)
	admin.Get("/countdowns", promo, h.Promotion.GetCountdowns)
	admin.Post("/countdowns", promo, h.Promotion.CreateCountdown)
	admin.Put("/countdowns/:id", promo, h.Promotion.UpdateCountdown)
	admin.Delete("/countdowns/:id", promo, h.Promotion.DeleteCountdown)

	admin.Get("/orders", middleware.RequirePrivilege(model.PrivOrderView), h.Order.GetOrders)
	admin.Get("/orders/:id", middleware.RequirePrivilege(model.PrivOrderView), h.Order.GetOrder)
	admin.Patch("/orders/:id", middleware.RequirePrivilege(model.PrivOrderUpdate), h.Order.UpdateOrder)

	dashboard := middleware.RequirePrivilege(model.PrivDashboardView)
	admin.Get("/dashboard/stats", dashboard, h.Dashboard.GetDashboardStats)
	admin.Get("/dashboard/orders", dashboard, h.Dashboard.GetOrderSeries)

	users := middleware.RequirePrivilege(model.PrivUserManage)
	admin.Get("/users", users, h.User.GetUsers)
	admin.Get("/users/:id", users, h.User.GetUser)
	admin.Post("/users", users, h.User.CreateUser)
	admin.Put("/users/:id", users, h.User.UpdateUser)
	admin.Delete("/users/:id", users, h.User.DeleteUser)
	admin.Put("/users/:id/privileges", users, h.User.UpdateUserPrivileges)
	admin.Get("/roles", users, h.Role.GetRoles)
	admin.Get("/privileges", users, h.Role.GetPrivileges)
}
