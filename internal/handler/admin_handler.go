package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/middleware"
	"github.com/examconnect/exam-api/internal/models"
	"github.com/examconnect/exam-api/internal/service"
	"github.com/examconnect/exam-api/internal/utils"
)

// AdminHandler serves platform administration: dashboard stats, user
// management, and platform-wide exam oversight.
type AdminHandler struct {
	users  service.UserService
	exams  service.ExamService
	logger zerolog.Logger
}

// NewAdminHandler builds an admin handler instance.
func NewAdminHandler(users service.UserService, exams service.ExamService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		users:  users,
		exams:  exams,
		logger: logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the admin routes to the provided router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/dashboard-stats", h.dashboardStats)
	router.Get("/users", h.listUsers)
	router.Post("/users", h.createUser)
	router.Put("/users/:id/role", h.updateUserRole)
	router.Delete("/users/:id", h.deleteUser)
	router.Get("/exams", h.listExams)
	router.Delete("/exams/:id", h.deleteExam)
}

func (h *AdminHandler) dashboardStats(c *fiber.Ctx) error {
	stats, err := h.users.DashboardStats(c.Context())
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, stats)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context(), c.Query("role"))
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, users)
}

func (h *AdminHandler) createUser(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.users.Create(c.Context(), payload, models.RoleStudent)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendMessage(c, fiber.StatusCreated, "user created", user)
}

func (h *AdminHandler) updateUserRole(c *fiber.Ctx) error {
	var payload dto.RoleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.users.UpdateRole(c.Context(), c.Params("id"), payload.Role)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendMessage(c, fiber.StatusOK, "role updated", user)
}

func (h *AdminHandler) deleteUser(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	if err := h.users.Delete(c.Context(), principal.ID, c.Params("id")); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendMessage(c, fiber.StatusOK, "user deleted", nil)
}

func (h *AdminHandler) listExams(c *fiber.Ctx) error {
	exams, err := h.exams.ListAll(c.Context())
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, exams)
}

func (h *AdminHandler) deleteExam(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.exams.DeleteAny(c.Context(), examID); err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendMessage(c, fiber.StatusOK, "exam deleted", nil)
}
