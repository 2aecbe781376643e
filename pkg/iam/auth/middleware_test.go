package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx/errxfiber"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/auth"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

func newProtectedApp(t *testing.T) (*fiber.App, *auth.JWTService) {
	t.Helper()
	svc, err := auth.NewHMACService([]byte("0123456789abcdef0123456789abcdef"), auth.JWTOptions{Issuer: "roa.io"})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: errxfiber.ErrorHandler(logx.Discard())})
	mw := auth.NewAuthMiddleware(svc)
	app.Get("/me", mw.Authenticate(), func(c *fiber.Ctx) error {
		ac, ok := auth.AuthContextFrom(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(ac.Email)
	})
	app.Get("/admin", mw.Authenticate(), mw.RequirePermission("CanManageUsers"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app, svc
}

func TestMiddlewareAcceptsBearerAndCookie(t *testing.T) {
	app, svc := newProtectedApp(t)
	token, _, err := svc.GenerateAccessToken(auth.TokenClaims{AccountID: 1, Email: "a@b.io", Role: "Basic"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: token})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareRejects(t *testing.T) {
	app, svc := newProtectedApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, _, err := svc.GenerateAccessToken(auth.TokenClaims{AccountID: 1, Permissions: []string{"CanViewReports"}})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
