package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Notifications  *handlers.NotificationsHandler
	Audit          *handlers.AuditHandler
	SLA            *handlers.SLAHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	app.Get("/metrics", cfg.AuthMiddleware.Handle, cfg.Metrics.Serve)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Post("/:id/assign", cfg.Tickets.Assign)
	tickets.Post("/:id/vote", cfg.Tickets.Vote)
	tickets.Delete("/:id", cfg.Tickets.Delete)

	notifications := api.Group("/notifications", cfg.AuthMiddleware.RequirePermissions(domain.PermNotificationRead))
	notifications.Get("", cfg.Notifications.List)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)

	api.Get("/audit", cfg.AuthMiddleware.RequirePermissions(domain.PermAuditView), cfg.Audit.Query)

	sla := api.Group("/sla")
	sla.Get("", cfg.SLA.List)
	sla.Get("/:id", cfg.SLA.Get)
}
