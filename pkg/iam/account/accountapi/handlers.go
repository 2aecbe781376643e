package accountapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account/accountsrv"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/auth"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
)

type AccountHandlers struct {
	service       *accountsrv.AccountService
	secureCookies bool
}

func NewAccountHandlers(service *accountsrv.AccountService, secureCookies bool) *AccountHandlers {
	return &AccountHandlers{service: service, secureCookies: secureCookies}
}

// RegisterRoutes mounts the login, token and lookup routes under /api/user.
func (h *AccountHandlers) RegisterRoutes(app fiber.Router, authMiddleware *auth.TokenMiddleware) {
	user := app.Group("/api/user")

	user.Post("/signup/signin", h.SignIn)
	user.Post("/token/refresh", h.RefreshToken)
	user.Post("/signout", authMiddleware.Authenticate(), h.SignOut)
	user.Get("/me", authMiddleware.Authenticate(), h.Me)
	user.Get("/:id", h.GetByID)
}

func (h *AccountHandlers) SignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return iam.ErrInvalidRequest(err)
	}
	if err := req.Validate(); err != nil {
		return iam.ErrInvalidRequest(err)
	}

	res, err := h.service.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	auth.SetTokenCookies(c, res.Tokens, h.secureCookies)
	return c.JSON(newLoginResponse(res))
}

// RefreshToken reads the refresh token from its cookie, falling back to the
// request body.
func (h *AccountHandlers) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return iam.ErrInvalidRequest(err)
	}
	if err := req.Validate(); err != nil {
		return iam.ErrInvalidRequest(err)
	}

	presented := c.Cookies(auth.RefreshTokenCookie)
	if presented == "" {
		presented = req.RefreshToken
	}

	pair, err := h.service.RefreshSession(c.UserContext(), req.UserID, presented)
	if err != nil {
		return err
	}

	auth.SetTokenCookies(c, pair, h.secureCookies)
	return c.JSON(TokenResponse{Token: pair.AccessToken, ExpiredAt: pair.AccessExpiresAt})
}

func (h *AccountHandlers) SignOut(c *fiber.Ctx) error {
	authContext, ok := auth.AuthContextFrom(c)
	if !ok {
		return iam.ErrUnauthorized()
	}
	if err := h.service.SignOut(c.UserContext(), authContext.AccountID); err != nil {
		return err
	}
	auth.ClearTokenCookies(c, h.secureCookies)
	return c.JSON(MessageResponse{Message: "Signed out"})
}

func (h *AccountHandlers) Me(c *fiber.Ctx) error {
	authContext, ok := auth.AuthContextFrom(c)
	if !ok {
		return iam.ErrUnauthorized()
	}
	summary, err := h.service.GetAccountByID(c.UserContext(), authContext.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (h *AccountHandlers) GetByID(c *fiber.Ctx) error {
	id, err := kernel.ParseAccountID(c.Params("id"))
	if err != nil {
		return iam.ErrInvalidRequest(err).WithDetail("id", c.Params("id"))
	}
	summary, err := h.service.GetAccountByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
