package errxfiber_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx/errxfiber"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

var registry = errx.NewRegistry("TEST")

var codeConflict = registry.Register("TAKEN", errx.TypeConflict, http.StatusConflict, "Already taken")

func serve(t *testing.T, handler fiber.Handler) (int, errx.Response) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: errxfiber.ErrorHandler(logx.Discard())})
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body errx.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRendersRegisteredError(t *testing.T) {
	status, body := serve(t, func(*fiber.Ctx) error {
		return registry.New(codeConflict).WithDetail("email", "a@b.io")
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "TEST_TAKEN", body.Code)
	assert.Equal(t, "a@b.io", body.Details["email"])
}

func TestHidesUnexpectedErrors(t *testing.T) {
	status, body := serve(t, func(*fiber.Ctx) error {
		return errors.New("pq: connection refused on 10.0.0.3")
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, body.Message, "10.0.0.3")
	assert.Empty(t, body.Details)
}

func TestMapsFiberErrors(t *testing.T) {
	status, body := serve(t, func(*fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, string(errx.TypeNotFound), body.Type)
}
