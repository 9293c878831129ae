package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/loan-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Loans  *handlers.LoansHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	loans := app.Group("/loans")
	loans.Post("/", cfg.Loans.CreateLoan)
	loans.Get("/active", cfg.Loans.ListActiveLoans)
	loans.Get("/:id", cfg.Loans.GetLoan)
	loans.Post("/:id/return", cfg.Loans.ReturnLoan)

	app.Get("/users/:id/loans/active", cfg.Loans.ListUserActiveLoans)
}
