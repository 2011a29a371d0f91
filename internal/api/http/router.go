package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/api/http/handlers"
	"github.com/spec-kit/ticketdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Pages         *handlers.PagesHandler
	Auth          *handlers.AuthHandler
	Tickets       *handlers.TicketsHandler
	Notifications *handlers.NotificationsHandler
	Client        *auth.ClientMiddleware
	Sessions      auth.SessionResolver
}

// RegisterRoutes wires HTTP routes. Probes run without a client identity; everything
// registered after the client middleware is scoped to the caller's namespace.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Use(cfg.Client.Handle)

	app.Get("/", cfg.Pages.Home)
	app.Get("/pages/:page", cfg.Pages.Bootstrap)

	guest := auth.RequireGuest(cfg.Sessions)
	session := auth.RequireSession(cfg.Sessions)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", guest, cfg.Auth.Signup)
	authGroup.Post("/login", guest, cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/session", cfg.Auth.Session)

	app.Get("/dashboard", session, cfg.Tickets.Dashboard)

	tickets := app.Group("/tickets", session)
	tickets.Get("/", cfg.Tickets.Board)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Put("/filter", cfg.Tickets.SetFilter)
	tickets.Delete("/edit", cfg.Tickets.CancelEdit)
	tickets.Post("/:id/edit", cfg.Tickets.StartEdit)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)

	app.Get("/notifications/current", cfg.Notifications.Current)
	app.Delete("/notifications/current", cfg.Notifications.Dismiss)

	app.Use(redirectHome)
}
