package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-dulceria-api/internal/handler"
	"go-dulceria-api/internal/middleware"
	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/repository"
	"go-dulceria-api/internal/service"
	"go-dulceria-api/internal/ws"
	"go-dulceria-api/pkg/config"
	"go-dulceria-api/pkg/database"
	"go-dulceria-api/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(&cfg.Database, cfg.Store.Location)
	if err != nil {
		log.Fatal(err)
	}
	// AutoMigrate crea tablas e índices; no borra columnas
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("Auto migration failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Repositories
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	couponRepo := repository.NewCouponRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	bannerRepo := repository.NewBannerRepo(db)
	countdownRepo := repository.NewCountdownRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	uow := repository.NewUnitOfWork(db)

	// 4. Seed default privileges, roles, and owner account
	seeder := &service.Seeder{Privileges: privilegeRepo, Roles: roleRepo, Users: userRepo}
	if err := seeder.Run(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Printf("Warning: seeding failed: %v", err)
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 6. Services
	tokens := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	catalogService := service.NewCatalogService(categoryRepo, productRepo, wsHub, cfg.Store.LowStockThreshold)
	couponService := service.NewCouponService(couponRepo)
	promotionService := service.NewPromotionService(bannerRepo, countdownRepo)
	dashService := service.NewDashboardService(orderRepo, productRepo, cfg.Store.LowStockThreshold, cfg.Store.Location)
	orderService := service.NewOrderService(uow, orderRepo, wsHub, service.OrderServiceConfig{
		PageSize:          cfg.Store.OrdersPageSize,
		LowStockThreshold: cfg.Store.LowStockThreshold,
		Location:          cfg.Store.Location,
		WhatsApp: service.WhatsAppNumbers{
			model.BranchOutlet:      cfg.Store.WhatsAppOutlet,
			model.BranchSupercentro: cfg.Store.WhatsAppSupercentro,
		},
	})

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: handler.ErrorHandler,
	})

	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.App.CORSOrigins}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handler.Register(app, handler.Handlers{
		Catalog:   handler.NewCatalogHandler(catalogService),
		Coupon:    handler.NewCouponHandler(couponService),
		Order:     handler.NewOrderHandler(orderService),
		Promotion: handler.NewPromotionHandler(promotionService),
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Role:      handler.NewRoleHandler(roleRepo, privilegeRepo),
		Dashboard: handler.NewDashboardHandler(dashService),
	}, authService)

	// WebSocket Route (staff only, token in ?token= since browsers cannot set headers)
	app.Use("/ws",
		middleware.RequireQueryToken(authService),
		middleware.RequirePrivilege(model.PrivOrderView),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		// the hub stops reading its channels once ctx is done
		select {
		case wsHub.Register <- c:
		case <-ctx.Done():
			return
		}
		defer func() {
			select {
			case wsHub.Unregister <- c:
			case <-ctx.Done():
			}
		}()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Panic(err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
