package auth

import (
	"net/http"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
)

// TokenClaims is the decoded content of an access token.
type TokenClaims struct {
	AccountID   kernel.AccountID `json:"account_id"`
	Email       string           `json:"email"`
	Role        string           `json:"role"`
	Permissions []string         `json:"permissions"`
	IssuedAt    time.Time        `json:"iat"`
	ExpiresAt   time.Time        `json:"exp"`
}

// Subject identifies whom a token pair is issued to. Role is the plan name.
type Subject struct {
	AccountID kernel.AccountID
	Email     string
	Role      string
}

// TokenPair is the result of a successful login or account creation.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// Cookie names set by the HTTP layer.
const (
	AccessTokenCookie  = "AuthToken"
	RefreshTokenCookie = "RefreshToken"
)

// RefreshKey is the cache key of the single refresh token slot of an account.
func RefreshKey(id kernel.AccountID) string {
	return "refresh." + id.String()
}

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeInvalidRefreshToken   = ErrRegistry.Register("INVALID_REFRESH_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid refresh token")
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token generation failed")
	CodeTokenValidationFailed = ErrRegistry.Register("TOKEN_VALIDATION_FAILED", errx.TypeAuthorization, http.StatusUnauthorized, "Token validation failed")
	CodeInvalidSigningKey     = ErrRegistry.Register("INVALID_SIGNING_KEY", errx.TypeInternal, http.StatusInternalServerError, "Invalid token signing key")
)

func ErrInvalidRefreshToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidRefreshToken)
}

func ErrTokenGenerationFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeTokenGenerationFailed, cause)
}

func ErrTokenValidationFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeTokenValidationFailed, cause)
}
