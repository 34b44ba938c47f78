package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/booking-service/internal/api/http/handlers"
	"github.com/spec-kit/booking-service/internal/auth"
	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Services       *handlers.ServicesHandler
	Bookings       *handlers.BookingsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api/v1")
	session := cfg.AuthMiddleware.Handle
	providers := auth.RequireRole(domain.RoleProvider, domain.RoleAdmin)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/getUser", session, cfg.Auth.GetUser)

	serviceGroup := api.Group("/service")
	serviceGroup.Get("/get-services", cfg.Services.List)
	serviceGroup.Get("/get-service/:id", cfg.Services.Get)
	serviceGroup.Post("/create-service", session, providers, cfg.Services.Create)
	serviceGroup.Put("/update-service/:id", session, providers, cfg.Services.Update)
	serviceGroup.Delete("/delete-service/:id", session, providers, cfg.Services.Delete)

	bookingGroup := api.Group("/booking", session)
	bookingGroup.Get("/get-bookings", cfg.Bookings.List)
	bookingGroup.Post("/create-booking", cfg.Bookings.Create)
	bookingGroup.Get("/get-booking/:id", cfg.Bookings.Get)
	bookingGroup.Put("/update-booking/:id", cfg.Bookings.Update)
	bookingGroup.Delete("/delete-booking/:id", cfg.Bookings.Delete)
}
