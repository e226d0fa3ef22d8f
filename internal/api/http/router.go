package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loanworks/loan-service/internal/api/http/handlers"
	"github.com/loanworks/loan-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Loans          *handlers.LoansHandler
	Payments       *handlers.PaymentsHandler
	Cibil          *handlers.CibilHandler
	Notifications  *handlers.NotificationsHandler
	Jobs           *handlers.JobsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/register", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Get("/:id", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Users.GetProfile)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	loans := protected.Group("/loans")
	loans.Post("/apply", cfg.Loans.Apply)
	loans.Get("/emi", cfg.Loans.ComputeEMI)
	loans.Get("/user/:userId", cfg.Loans.ListByUser)
	loans.Get("", auth.RequireAdmin(), cfg.Loans.ListAll)
	loans.Get("/:id", cfg.Loans.GetByID)
	loans.Put("/:id", auth.RequireAdmin(), cfg.Loans.Update)
	loans.Delete("/:id", auth.RequireAdmin(), cfg.Loans.Delete)

	payments := protected.Group("/payments")
	payments.Get("/user/:userId/pending", cfg.Payments.ListPendingByUser)
	payments.Get("/user/:userId", cfg.Payments.ListByUser)
	payments.Get("/loan/:loanId", cfg.Payments.ListByLoan)
	payments.Get("", auth.RequireAdmin(), cfg.Payments.ListAll)
	payments.Post("", auth.RequireAdmin(), cfg.Payments.Create)
	payments.Put("/:id/status", auth.RequireAdmin(), cfg.Payments.UpdateStatus)

	cibil := protected.Group("/cibil")
	cibil.Get("/user/:userId", cfg.Cibil.GetByUser)
	cibil.Post("/user/:userId", cfg.Cibil.Upsert)
	cibil.Put("/user/:userId", cfg.Cibil.Upsert)

	notifications := protected.Group("/notifications")
	notifications.Get("/user/:userId", cfg.Notifications.ListByUser)
	notifications.Put("/:id/read", cfg.Notifications.MarkRead)
	notifications.Post("", auth.RequireAdmin(), cfg.Notifications.Create)
	notifications.Delete("/:id", auth.RequireAdmin(), cfg.Notifications.Delete)

	jobs := protected.Group("/jobs")
	jobs.Get("", cfg.Jobs.ListAll)
	jobs.Get("/:id", cfg.Jobs.GetByID)
	jobs.Post("", auth.RequireAdmin(), cfg.Jobs.Create)
	jobs.Delete("/:id", auth.RequireAdmin(), cfg.Jobs.Delete)

	admin := protected.Group("/admin", auth.RequireAdmin())
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Get("/distribution", cfg.Admin.Distribution)
	admin.Get("/trends", cfg.Admin.Trends)
	admin.Get("/logs", cfg.Admin.Logs)
	admin.Get("/report/download", cfg.Admin.DownloadReport)
	admin.Post("/loan/:id/decision", cfg.Admin.DecideLoan)
}
