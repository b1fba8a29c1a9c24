package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cafe-admin-service/internal/api/http/handlers"
	"github.com/spec-kit/cafe-admin-service/internal/auth"
	"github.com/spec-kit/cafe-admin-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Menus          *handlers.MenusHandler
	MenuCategories *handlers.MenuCategoriesHandler
	AuthMiddleware *auth.AuthMiddleware
	SessionGuard   fiber.Handler
}

// RegisterRoutes wires HTTP routes. The session guard runs before every
// route so the page-level redirect policy is applied exactly once per
// request, ahead of any body parsing.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.SessionGuard)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Page anchors for the guard's path classes. The dashboard UI itself
	// is served elsewhere; these only give the redirects a destination.
	app.Get("/dashboard", pagePlaceholder("dashboard"))
	app.Get("/dashboard/*", pagePlaceholder("dashboard"))
	app.Get("/login", pagePlaceholder("login"))
	app.Get("/register", pagePlaceholder("register"))

	api := app.Group("/api")
	api.Post("/register", cfg.Auth.Register)
	api.Post("/login", cfg.Auth.Login)
	api.Post("/logout", cfg.Auth.Logout)
	api.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	api.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Auth.Me)

	adminOnly := auth.RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin)
	users := protected.Group("/users", adminOnly)
	users.Get("/", cfg.Users.List)
	users.Get("/export", cfg.Users.Export)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	menuWriters := auth.RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleCashier)
	menus := protected.Group("/menus")
	menus.Get("/", cfg.Menus.List)
	menus.Get("/export", cfg.Menus.Export)
	menus.Post("/", menuWriters, cfg.Menus.Create)
	menus.Get("/:id", cfg.Menus.Get)
	menus.Put("/:id", menuWriters, cfg.Menus.Update)
	menus.Patch("/:id", menuWriters, cfg.Menus.Update)
	menus.Delete("/:id", menuWriters, cfg.Menus.Delete)

	protected.Get("/menu-categories", cfg.MenuCategories.List)
}

func pagePlaceholder(page string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"page": page})
	}
}
