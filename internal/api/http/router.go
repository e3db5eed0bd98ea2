package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-complaints/internal/api/http/handlers"
	"github.com/spec-kit/civic-complaints/internal/auth"
	"github.com/spec-kit/civic-complaints/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/signup", cfg.Users.Signup)
	app.Post("/login", cfg.Users.Login)

	app.Post("/complaints", cfg.Complaints.Submit)
	app.Get("/complaints/user/:id", cfg.Complaints.ListBySubmitter)
	app.Get("/complaints", cfg.Complaints.ListAll)
	app.Put("/complaints/:id", cfg.Complaints.UpdateStatus)
	app.Delete("/complaints/:id", cfg.Complaints.Delete)

	adminGroup := app.Group("/admin", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleDepartmentAdmin, domain.RoleSuperAdmin))
	adminGroup.Get("/complaints", cfg.Admin.ListComplaints)
}
