package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rahulverma-dev/commerce-backoffice/internal/authz"
	"github.com/rahulverma-dev/commerce-backoffice/internal/config"
	"github.com/rahulverma-dev/commerce-backoffice/internal/handlers"
	"github.com/rahulverma-dev/commerce-backoffice/internal/middleware"
	"github.com/rahulverma-dev/commerce-backoffice/internal/models"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminUserHandler,
	addressHandler *handlers.AddressHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public auth routes get a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected auth routes (JWT required)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Post("/auth/password", middleware.JWTProtected(cfg), authHandler.ChangePassword)

	// Per-route guards mirror the per-view decorators of the back-office:
	// the group requires a platform principal, each route narrows the roles.
	superAdmin := authz.Guard(db, authz.Policy{
		RequiredUserType: models.UserTypePlatform,
		AllowedRoles:     []models.PlatformRole{models.RoleSuperAdmin},
		RedirectTo:       cfg.LoginRedirectURL,
	})
	userManagers := authz.Guard(db, authz.Policy{
		RequiredUserType: models.UserTypePlatform,
		AllowedRoles:     []models.PlatformRole{models.RoleSuperAdmin, models.RoleAdmin},
		RedirectTo:       cfg.LoginRedirectURL,
	})
	buyerManagers := authz.Guard(db, authz.Policy{
		RequiredUserType: models.UserTypePlatform,
		AllowedRoles: []models.PlatformRole{
			models.RoleSuperAdmin, models.RoleAdmin, models.RoleCustomerSupport,
		},
		RedirectTo: cfg.LoginRedirectURL,
	})

	admin := api.Group("/admin",
		middleware.JWTGuarded(cfg),
		authz.Guard(db, authz.Policy{
			RequiredUserType: models.UserTypePlatform,
			RedirectTo:       cfg.LoginRedirectURL,
		}),
	)
	admin.Get("/dashboard", superAdmin, adminHandler.Dashboard)
	admin.Get("/users", userManagers, adminHandler.List)
	admin.Get("/users/:id", userManagers, adminHandler.Get)
	admin.Post("/users", userManagers, adminHandler.Create)
	admin.Put("/users/:id", userManagers, adminHandler.Update)
	admin.Post("/users/:id/activate", userManagers, adminHandler.Activate)
	admin.Post("/users/:id/deactivate", userManagers, adminHandler.Deactivate)
	admin.Delete("/users/:id", superAdmin, adminHandler.Delete)
	admin.Post("/users/:id/platform-profile", superAdmin, adminHandler.AttachPlatformProfile)
	admin.Post("/users/:id/buyer-profile", buyerManagers, adminHandler.AttachBuyerProfile)
	admin.Post("/buyers/:id/tier/recompute", buyerManagers, adminHandler.RecomputeTier)
	admin.Post("/buyers/:id/loyalty", buyerManagers, adminHandler.AdjustLoyalty)

	// Buyer self-service
	buyer := api.Group("/buyer",
		middleware.JWTGuarded(cfg),
		authz.Guard(db, authz.Policy{RequiredUserType: models.UserTypeBuyer}),
	)
	buyer.Get("/profile", addressHandler.Profile)
	buyer.Get("/addresses", addressHandler.List)
	buyer.Post("/addresses", addressHandler.Create)
	buyer.Put("/addresses/:id", addressHandler.Update)
	buyer.Delete("/addresses/:id", addressHandler.Delete)
	buyer.Post("/addresses/:id/default", addressHandler.SetDefault)
}
