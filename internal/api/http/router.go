package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapcart/storefront/internal/api/http/handlers"
	"github.com/snapcart/storefront/internal/auth"
	"github.com/snapcart/storefront/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/profile", cfg.Auth.Profile)
	protected.Put("/update-password", cfg.Auth.UpdatePassword)
	protected.Delete("/delete-account", cfg.Auth.DeleteAccount)

	// Catalog reads are public; mutations require a seller or admin token.
	sellerGate := auth.RequireRole(domain.RoleSeller, domain.RolePlatformAdmin)
	app.Get("/products", cfg.Products.List)
	app.Get("/products/:productId", cfg.Products.Get)
	app.Post("/products", cfg.AuthMiddleware.Handle, sellerGate, cfg.Products.Create)
	app.Patch("/products/:productId", cfg.AuthMiddleware.Handle, sellerGate, cfg.Products.Update)
	app.Delete("/products/:productId", cfg.AuthMiddleware.Handle, sellerGate, cfg.Products.Delete)
}
