package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/examconnect/exam-api/internal/identity"
	"github.com/examconnect/exam-api/internal/utils"
)

const principalLocalKey = "principal"

// TokenVerifier resolves a bearer token into a Principal.
type TokenVerifier interface {
	Verify(token string) (identity.Principal, error)
}

// Authenticate returns a middleware that verifies bearer tokens and binds
// the resolved Principal to the request.
func Authenticate(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication token is missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		principal, err := verifier.Verify(strings.TrimSpace(authorization[len(bearer):]))
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(principalLocalKey, principal)

		return c.Next()
	}
}

// PrincipalFrom returns the Principal bound by Authenticate, if any.
func PrincipalFrom(c *fiber.Ctx) (identity.Principal, bool) {
	principal, ok := c.Locals(principalLocalKey).(identity.Principal)
	return principal, ok
}
