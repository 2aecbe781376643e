package signupapi

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/auth"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup/signupsrv"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/ptrx"
)

// SessionHeader carries the signup session token between stages.
const SessionHeader = "Auth-Session-Token"

type SignupHandlers struct {
	service       *signupsrv.SignupService
	secureCookies bool
}

func NewSignupHandlers(service *signupsrv.SignupService, secureCookies bool) *SignupHandlers {
	return &SignupHandlers{service: service, secureCookies: secureCookies}
}

func (h *SignupHandlers) RegisterRoutes(app fiber.Router) {
	user := app.Group("/api/user")

	user.Post("/signup", h.BeginSignup)
	user.Post("/signup/email-verification", h.VerifyEmail)
	user.Post("/signup/user-creation", h.CreateAccount)
}

func (h *SignupHandlers) BeginSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return iam.ErrInvalidRequest(err)
	}
	if err := req.Validate(); err != nil {
		return iam.ErrInvalidRequest(err)
	}

	ticket, err := h.service.BeginSignup(c.UserContext(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(SignupResponse{
		Message:            "Verification code sent",
		Session:            ticket.Session,
		SignUpSessionExpAt: ticket.ExpiresAt,
	})
}

func (h *SignupHandlers) VerifyEmail(c *fiber.Ctx) error {
	session, err := sessionToken(c)
	if err != nil {
		return err
	}

	var req VerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return iam.ErrInvalidRequest(err)
	}
	if err := req.Validate(); err != nil {
		return iam.ErrInvalidRequest(err)
	}

	ticket, err := h.service.VerifyEmail(c.UserContext(), session, req.OTP)
	if err != nil {
		return err
	}

	return c.JSON(VerificationResponse{
		Message:   "Email verified",
		Session:   ticket.Session,
		ExpiredAt: ticket.ExpiresAt,
	})
}

func (h *SignupHandlers) CreateAccount(c *fiber.Ctx) error {
	session, err := sessionToken(c)
	if err != nil {
		return err
	}

	var req UserCreationRequest
	if err := c.BodyParser(&req); err != nil {
		return iam.ErrInvalidRequest(err)
	}
	if err := req.Validate(); err != nil {
		return iam.ErrInvalidRequest(err)
	}

	created, err := h.service.CreateAccount(c.UserContext(), session, signup.AccountDetails{
		FirstName:  req.FirstName,
		MiddleName: ptrx.NonZero(strings.TrimSpace(ptrx.Value(req.MiddleName))),
		LastName:   req.LastName,
	})
	if err != nil {
		return err
	}

	acc := created.Profile.Account
	auth.SetTokenCookies(c, created.Tokens, h.secureCookies)
	c.Location("/api/user/" + acc.ID.String())
	return c.Status(fiber.StatusCreated).JSON(UserCreatedResponse{
		MetaData: UserMetaData{
			UserID:     acc.ID,
			Email:      acc.Email,
			FirstName:  acc.FirstName,
			MiddleName: acc.MiddleName,
			LastName:   acc.LastName,
			Plan:       created.Profile.Subscription.PlanName,
		},
		Token: created.Tokens.AccessToken,
	})
}

func sessionToken(c *fiber.Ctx) (string, error) {
	session := strings.TrimSpace(c.Get(SessionHeader))
	if session == "" {
		return "", iam.ErrInvalidRequest(fmt.Errorf("missing %s header", SessionHeader)).WithDetail("header", SessionHeader)
	}
	return session, nil
}
