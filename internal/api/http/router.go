package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-service/internal/auth"
	"github.com/spec-kit/maintenance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Requests       *handlers.RequestsHandler
	StaffRequests  *handlers.StaffRequestsHandler
	Workers        *handlers.WorkersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/tenants/register", cfg.Auth.RegisterTenant)
	authGroup.Post("/tenants/login", cfg.Auth.LoginTenant)
	authGroup.Post("/staff/login", cfg.Auth.LoginStaff)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	// Tenant surface.
	tenantGroup := app.Group("/requests", cfg.AuthMiddleware.Handle, auth.RequireTenant())
	tenantGroup.Post("/", cfg.Requests.CreateRequest)
	tenantGroup.Get("/", cfg.Requests.ListRequests)
	tenantGroup.Get("/:id", cfg.Requests.GetRequest)
	tenantGroup.Patch("/:id", cfg.Requests.UpdateRequest)
	tenantGroup.Post("/:id/submit", cfg.Requests.SubmitRequest)
	tenantGroup.Post("/:id/cancel", cfg.Requests.CancelRequest)

	// Staff scheduling surface; admins and superintendents only.
	managerRoles := []domain.Role{domain.RoleSystemAdmin, domain.RolePropertySuperintendent}
	staffGroup := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(managerRoles...))
	staffGroup.Get("/requests", cfg.StaffRequests.ListRequests)
	staffGroup.Get("/requests/queue", cfg.StaffRequests.PriorityQueue)
	staffGroup.Get("/requests/overdue", cfg.StaffRequests.ListOverdue)
	staffGroup.Get("/requests/:id", cfg.Requests.GetRequest)
	staffGroup.Patch("/requests/:id", cfg.Requests.UpdateRequest)
	staffGroup.Post("/requests/:id/cancel", cfg.Requests.CancelRequest)
	staffGroup.Get("/requests/:id/candidates", cfg.StaffRequests.Candidates)
	staffGroup.Post("/requests/:id/schedule", cfg.StaffRequests.ScheduleRequest)
	staffGroup.Post("/requests/:id/decline", cfg.StaffRequests.DeclineRequest)
	staffGroup.Post("/requests/:id/close", cfg.StaffRequests.CloseRequest)

	staffGroup.Post("/workers", cfg.Workers.CreateWorker)
	staffGroup.Get("/workers", cfg.Workers.ListWorkers)
	staffGroup.Get("/workers/:id", cfg.Workers.GetWorker)
	staffGroup.Patch("/workers/:id", cfg.Workers.UpdateWorker)
	staffGroup.Get("/workers/:id/availability", cfg.Workers.Availability)

	// Worker self-service surface.
	workerGroup := app.Group("/worker", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(domain.RoleWorker))
	workerGroup.Get("/assignments", cfg.Workers.MyAssignments)
	workerGroup.Get("/requests", cfg.Workers.MyRequests)
	workerGroup.Get("/requests/:id", cfg.Requests.GetRequest)
	workerGroup.Post("/requests/:id/complete", cfg.Workers.CompleteWork)
	workerGroup.Post("/requests/:id/report-issue", cfg.Workers.ReportIssue)
}
