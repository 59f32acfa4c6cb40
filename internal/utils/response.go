package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the envelope returned on every failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse wraps mutations that report an outcome message, optionally
// alongside the affected data.
type MessageResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{Error: message})
}

// SendJSON serializes the payload as-is using the provided HTTP status code.
func SendJSON(c *fiber.Ctx, status int, payload interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(payload)
}

// SendMessage sends a message envelope using the provided HTTP status code.
func SendMessage(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return SendJSON(c, status, MessageResponse{Message: message, Data: data})
}
