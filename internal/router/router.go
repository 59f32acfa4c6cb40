package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/examconnect/exam-api/internal/config"
	"github.com/examconnect/exam-api/internal/handler"
	"github.com/examconnect/exam-api/internal/middleware"
	"github.com/examconnect/exam-api/internal/models"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	AdminHandler   *handler.AdminHandler
	TeacherHandler *handler.TeacherHandler
	StudentHandler *handler.StudentHandler
	Authenticate   fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Route families
// are role-prefixed; each protected group authenticates the bearer token and
// then checks the exact role.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	authenticate := deps.Authenticate
	if authenticate == nil {
		authenticate = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		auth.Post("/login", deps.AuthHandler.Login)
		auth.Get("/me", authenticate, deps.AuthHandler.Me)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", authenticate, middleware.RequireRole(models.RoleAdmin))
		deps.AdminHandler.Register(admin)
	}

	if deps.TeacherHandler != nil {
		teacher := api.Group("/teacher", authenticate, middleware.RequireRole(models.RoleTeacher))
		deps.TeacherHandler.Register(teacher)
	}

	if deps.StudentHandler != nil {
		student := api.Group("/student", authenticate, middleware.RequireRole(models.RoleStudent))
		deps.StudentHandler.Register(student)
	}
}
