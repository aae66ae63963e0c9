package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/autoserve/support-service/internal/api/http/handlers"
	"github.com/autoserve/support-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Replies        *handlers.RepliesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)

	tickets.Post("/:id/replies", cfg.Replies.Create)
	tickets.Get("/:id/replies", cfg.Replies.ListByTicket)
	tickets.Put("/:id/read", cfg.Replies.MarkRead)

	replies := app.Group("/replies", cfg.AuthMiddleware.Handle)
	replies.Get("/", cfg.Replies.ListAll)
	replies.Put("/:id", cfg.Replies.Update)
	replies.Delete("/:id", cfg.Replies.Delete)
}
