package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/examconnect/exam-api/internal/utils"
)

// RequireRole ensures that the authenticated principal holds exactly the
// required role. Admin, teacher, and student route families are mutually
// exclusive; there is no role hierarchy.
func RequireRole(role string) fiber.Handler {
	required := strings.ToLower(strings.TrimSpace(role))

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if principal.Role != required {
			return utils.SendError(c, fiber.StatusForbidden, required+" access required")
		}

		return c.Next()
	}
}
