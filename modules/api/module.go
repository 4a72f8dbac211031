package api

import (
	"context"
	"fmt"

	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// HealthFunc reports the aggregated health of the running application.
type HealthFunc func(ctx context.Context) mono.FrameworkHealth

// APIModule is the HTTP API module.
type APIModule struct {
	addr     string
	health   HealthFunc
	app      *fiber.App
	authPort auth.AuthPort
	taskPort task.TaskPort
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*APIModule)(nil)
	_ mono.DependentModule       = (*APIModule)(nil)
	_ mono.HealthCheckableModule = (*APIModule)(nil)
)

// NewModule creates a new APIModule listening on addr. health backs GET /health.
func NewModule(addr string, health HealthFunc, logger types.Logger) *APIModule {
	return &APIModule{
		addr:   addr,
		health: health,
		logger: logger.WithModule("api"),
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "task":
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.taskPort == nil {
		return fmt.Errorf("task dependency not set")
	}

	m.app = newApp(NewHandlers(m.authPort, m.taskPort, m.health, m.logger), m.authPort)
	m.app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Route not found",
		})
	})

	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", m.addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// newApp builds the Fiber application with middleware and routes.
func newApp(h *Handlers, authPort auth.AuthPort) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
	}))
	app.Use(cors.New())

	setupRoutes(app, h, authPort)
	return app
}

// setupRoutes configures all API routes.
func setupRoutes(app *fiber.App, h *Handlers, authPort auth.AuthPort) {
	app.Get("/health", h.Health)

	v1 := app.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", h.Register)
	authRoutes.Post("/login", h.Login)
	authRoutes.Post("/refresh", h.Refresh)
	authRoutes.Post("/logout", h.Logout)
	authRoutes.Get("/profile", AuthMiddleware(authPort), h.Profile)

	tasks := v1.Group("/tasks", AuthMiddleware(authPort))
	tasks.Get("/", h.ListTasks)
	tasks.Post("/", h.CreateTask)
	tasks.Get("/:id", h.GetTask)
	tasks.Put("/:id", h.ReplaceTask)
	tasks.Patch("/:id", h.PatchTask)
	tasks.Delete("/:id", h.DeleteTask)
	tasks.Patch("/:id/assign", h.AssignTask)
	tasks.Patch("/:id/complete", h.CompleteTask)
	tasks.Patch("/:id/status", h.UpdateStatus)
	tasks.Get("/:id/comments", h.ListComments)
	tasks.Post("/:id/comments", h.CreateComment)
	tasks.Delete("/:id/comments/:commentId", h.DeleteComment)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
