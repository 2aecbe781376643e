package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
)

const localsAuthKey = "auth"

// TokenMiddleware authenticates requests carrying an access token.
type TokenMiddleware struct {
	tokenService TokenService
}

func NewAuthMiddleware(tokenService TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokenService: tokenService}
}

// Authenticate accepts "Authorization: Bearer <token>" or the access token
// cookie, in that order.
func (am *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := extractToken(c)
		if !ok {
			return iam.ErrUnauthorized()
		}

		claims, err := am.tokenService.ValidateAccessToken(token)
		if err != nil {
			return iam.ErrInvalidToken().WithCause(err)
		}

		c.Locals(localsAuthKey, &kernel.AuthContext{
			AccountID:   claims.AccountID,
			Email:       claims.Email,
			Plan:        claims.Role,
			Permissions: claims.Permissions,
		})
		return c.Next()
	}
}

// RequirePermission must run after Authenticate.
func (am *TokenMiddleware) RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := AuthContextFrom(c)
		if !ok {
			return iam.ErrUnauthorized()
		}
		if !authContext.HasPermission(permission) {
			return iam.ErrAccessDenied().WithDetail("required_permission", permission)
		}
		return c.Next()
	}
}

// AuthContextFrom returns the context stored by Authenticate.
func AuthContextFrom(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	authContext, ok := c.Locals(localsAuthKey).(*kernel.AuthContext)
	return authContext, ok && authContext.IsValid()
}

func extractToken(c *fiber.Ctx) (string, bool) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return parts[1], true
		}
	}
	if token := c.Cookies(AccessTokenCookie); token != "" {
		return token, true
	}
	return "", false
}
