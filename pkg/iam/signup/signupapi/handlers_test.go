package signupapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/cachex/cachexmemory"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx/errxfiber"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/auth"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/auth/authinfra"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup/signupapi"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup/signupsrv"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

type stubAccounts struct {
	created []account.ProvisionRequest
}

func (s *stubAccounts) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return email == "taken@example.com", nil
}

func (s *stubAccounts) FindByEmail(context.Context, string) (*account.Profile, error) {
	return nil, account.ErrNotFound()
}

func (s *stubAccounts) FindByID(context.Context, kernel.AccountID) (*account.Profile, error) {
	return nil, account.ErrNotFound()
}

func (s *stubAccounts) Provision(_ context.Context, req account.ProvisionRequest) (*account.Profile, error) {
	s.created = append(s.created, req)
	acc := req.Account
	acc.ID = kernel.AccountID(100 + len(s.created))
	return &account.Profile{
		Account:      acc,
		Credential:   req.Credential,
		Subscription: account.Subscription{AccountID: acc.ID, PlanName: req.PlanName, Status: account.StatusActive},
	}, nil
}

func (s *stubAccounts) Ping(context.Context) error { return nil }

func newApp(t *testing.T) (*fiber.App, *int) {
	t.Helper()
	logger := logx.Discard()
	store := cachexmemory.NewStore()
	tokens, err := auth.NewHMACService([]byte("0123456789abcdef0123456789abcdef"), auth.JWTOptions{})
	require.NoError(t, err)

	lastCode := new(int)
	mailer := signup.MailerFunc(func(_ context.Context, email signup.VerificationEmail) error {
		*lastCode = email.Code
		return nil
	})

	svc := signupsrv.NewSignupService(&stubAccounts{}, store, authinfra.NewBcryptHasher(bcrypt.MinCost),
		auth.NewTokenIssuer(tokens, store, 7*24*time.Hour, logger), mailer,
		authinfra.NewLogxAuditService(logger), logger, signupsrv.DefaultConfig())

	app := fiber.New(fiber.Config{ErrorHandler: errxfiber.ErrorHandler(logger)})
	signupapi.NewSignupHandlers(svc, true).RegisterRoutes(app)
	return app, lastCode
}

func do(t *testing.T, app *fiber.App, path, session, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(signupapi.SessionHeader, session)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestSignupOverHTTP(t *testing.T) {
	app, code := newApp(t)

	resp, body := do(t, app, "/api/user/signup", "", `{"email":"ana@example.com","password":"Secret123","confirmPassword":"Secret123"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	session := body["session"].(string)
	assert.NotEmpty(t, body["signUpSessionExpAt"])

	resp, body = do(t, app, "/api/user/signup/email-verification", session, `{"otp":`+strconv.Itoa(*code)+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	verified := body["session"].(string)

	resp, body = do(t, app, "/api/user/signup/user-creation", verified, `{"firstName":"Anabella","lastName":"Martinez"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/api/user/101", resp.Header.Get("Location"))
	assert.NotEmpty(t, body["token"])

	meta := body["metaData"].(map[string]any)
	assert.Equal(t, "ana@example.com", meta["email"])
	assert.Equal(t, "Basic", meta["plan"])

	var hasAccessCookie bool
	for _, c := range resp.Cookies() {
		if c.Name == auth.AccessTokenCookie {
			hasAccessCookie = c.HttpOnly && c.Secure
		}
	}
	assert.True(t, hasAccessCookie)

	resp, _ = do(t, app, "/api/user/signup/user-creation", session, `{"firstName":"Anabella","lastName":"Martinez"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	app, _ := newApp(t)

	resp, body := do(t, app, "/api/user/signup", "", `{"email":"ana@example.com","password":"weakpass","confirmPassword":"weakpass"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["details"], "password")

	resp, _ = do(t, app, "/api/user/signup", "", `{"email":"ana@example.com","password":"Secret123","confirmPassword":"Secret321"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, app, "/api/user/signup", "", `{"email":"taken@example.com","password":"Secret123","confirmPassword":"Secret123"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, account.CodeAlreadyExists.Code, body["code"])

	resp, _ = do(t, app, "/api/user/signup/email-verification", "", `{"otp":123456}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, app, "/api/user/signup/email-verification", "unknown", `{"otp":123456}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, signup.CodeSessionExpired.Code, body["code"])

	resp, _ = do(t, app, "/api/user/signup/user-creation", "whatever", `{"firstName":"Ana1","lastName":"Martinez"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
