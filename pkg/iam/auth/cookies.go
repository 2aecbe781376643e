package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RefreshCookiePath scopes the refresh cookie to the token endpoints.
const RefreshCookiePath = "/api/user/token"

// SetTokenCookies writes the access cookie and, when pair carries one, the
// refresh cookie. Both are HttpOnly and SameSite=Strict.
func SetTokenCookies(c *fiber.Ctx, pair *TokenPair, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	if pair.RefreshToken == "" {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     RefreshCookiePath,
		Expires:  pair.RefreshExpiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearTokenCookies expires both cookies.
func ClearTokenCookies(c *fiber.Ctx, secure bool) {
	past := time.Unix(0, 0)
	for _, ck := range []struct{ name, path string }{
		{AccessTokenCookie, "/"},
		{RefreshTokenCookie, RefreshCookiePath},
	} {
		c.Cookie(&fiber.Cookie{
			Name:     ck.name,
			Value:    "",
			Path:     ck.path,
			Expires:  past,
			HTTPOnly: true,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteStrictMode,
		})
	}
}
