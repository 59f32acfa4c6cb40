package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examconnect/exam-api/internal/identity"
	"github.com/examconnect/exam-api/internal/service"
	"github.com/examconnect/exam-api/internal/utils"
)

// sendServiceError maps service errors to the HTTP error taxonomy. Unknown
// errors are logged and surfaced as a generic 500, never as raw store
// messages.
func sendServiceError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrExamNotFound),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrAnswerNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, identity.ErrAccountNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotAssigned):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrSelfDelete),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrMarksOutOfRange),
		errors.Is(err, identity.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
