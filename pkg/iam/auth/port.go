package auth

import (
	"context"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
)

// TokenService signs and verifies access tokens.
type TokenService interface {
	GenerateAccessToken(claims TokenClaims) (token string, expiresAt time.Time, err error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare reports whether password matches hash. A malformed hash is an
	// error, a mismatch is not.
	Compare(hash, password string) (bool, error)
}

// AuditService records security relevant events.
type AuditService interface {
	LogLoginAttempt(ctx context.Context, email string, accountID kernel.AccountID, success bool, reason string)
	LogAccountCreated(ctx context.Context, accountID kernel.AccountID, email string)
	LogTokenRefresh(ctx context.Context, accountID kernel.AccountID, success bool)
	LogLogout(ctx context.Context, accountID kernel.AccountID)
	LogOTPVerification(ctx context.Context, email string, success bool)
}
