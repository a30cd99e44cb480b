package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JoshyLop/intranet-tickets-api/internal/api/http/handlers"
	"github.com/JoshyLop/intranet-tickets-api/internal/auth"
	"github.com/JoshyLop/intranet-tickets-api/internal/observability"
)

// RouteConfig bundles everything the router needs.
type RouteConfig struct {
	App            *fiber.App
	AuthMiddleware *auth.Middleware
	Metrics        *observability.Metrics
	Health         *handlers.HealthHandler
	Users          *handlers.UserHandler
	Tickets        *handlers.TicketHandler
	Comments       *handlers.CommentHandler
	Profiles       *handlers.ProfileHandler
}

// RegisterRoutes mounts all endpoints. Fixed-segment routes are registered
// before their ":id" siblings so they are not captured as identifiers.
func RegisterRoutes(cfg RouteConfig) {
	app := cfg.App

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Handler())

	authGroup := app.Group("/auth/users")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/my-tickets", cfg.Tickets.ListMine)
	tickets.Get("/assigned-to-me", cfg.Tickets.ListAssignedToMe)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", auth.RequireAdmin(), cfg.Tickets.Delete)
	tickets.Post("/:id/close", cfg.Tickets.Close)
	tickets.Post("/:id/reopen", cfg.Tickets.Reopen)

	comments := api.Group("/comments")
	comments.Post("/", cfg.Comments.Create)
	comments.Get("/", cfg.Comments.List)
	comments.Get("/:id", cfg.Comments.Get)
	comments.Patch("/:id", cfg.Comments.Update)
	comments.Put("/:id", cfg.Comments.Update)
	comments.Delete("/:id", cfg.Comments.Delete)

	profiles := api.Group("/profiles")
	profiles.Post("/", cfg.Profiles.Create)
	profiles.Get("/", cfg.Profiles.List)
	profiles.Get("/me", cfg.Profiles.Me)
	profiles.Get("/:id", cfg.Profiles.Get)
	profiles.Patch("/:id", cfg.Profiles.Update)
	profiles.Put("/:id", cfg.Profiles.Update)
	profiles.Delete("/:id", auth.RequireAdmin(), cfg.Profiles.Delete)

	users := api.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
}
