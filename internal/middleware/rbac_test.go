package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/examconnect/exam-api/internal/identity"
	"github.com/examconnect/exam-api/internal/middleware"
	"github.com/examconnect/exam-api/internal/models"
)

func newProtectedApp(t *testing.T, issuer *identity.TokenIssuer, role string) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Get("/protected", middleware.Authenticate(issuer), middleware.RequireRole(role), func(c *fiber.Ctx) error {
		principal, _ := middleware.PrincipalFrom(c)
		return c.JSON(fiber.Map{"id": principal.ID})
	})
	return app
}

func issueToken(t *testing.T, issuer *identity.TokenIssuer, role string) string {
	t.Helper()

	token, err := issuer.Issue(identity.Account{
		ID:    "00000000-0000-0000-0000-000000000001",
		Email: "user@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	issuer, err := identity.NewTokenIssuer("rbac-test-secret", time.Hour)
	require.NoError(t, err)
	app := newProtectedApp(t, issuer, models.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	issuer, err := identity.NewTokenIssuer("rbac-test-secret", time.Hour)
	require.NoError(t, err)
	app := newProtectedApp(t, issuer, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleMatchesExactly(t *testing.T) {
	issuer, err := identity.NewTokenIssuer("rbac-test-secret", time.Hour)
	require.NoError(t, err)
	app := newProtectedApp(t, issuer, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, issuer, models.RoleTeacher))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, issuer, models.RoleAdmin))

	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
