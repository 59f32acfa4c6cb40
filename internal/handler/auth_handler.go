package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examconnect/exam-api/internal/dto"
	"github.com/examconnect/exam-api/internal/middleware"
	"github.com/examconnect/exam-api/internal/service"
	"github.com/examconnect/exam-api/internal/utils"
)

// AuthHandler serves login and the caller's own profile.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, response)
}

// Me returns the authenticated caller's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	profile, err := h.service.Me(c.Context(), principal)
	if err != nil {
		return sendServiceError(c, h.logger, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, profile)
}
