// Package signup stages a new account through email verification before it
// is persisted. All intermediate state lives in the session cache under keys
// derived from opaque session tokens.
package signup

import (
	"context"
	"net/http"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
)

// Stage is the position of a staged payload in the signup flow. Expiry is
// implicit: an expired session simply has no keys left.
type Stage string

const (
	StagePending       Stage = "pending"
	StageEmailVerified Stage = "email_verified"
	StageConsumed      Stage = "consumed"
)

// Payload is the not-yet-durable signup data.
type Payload struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Verified     bool      `json:"verified"`
	Stage        Stage     `json:"stage"`
	CreatedAt    time.Time `json:"created_at"`
}

func OTPKey(session string) string      { return "otp." + session }
func PayloadKey(session string) string  { return "signup-payload." + session }
func VerifiedKey(session string) string { return "verified-payload." + session }

// VerificationEmail is the model rendered into the verification template.
type VerificationEmail struct {
	To           string `json:"to"`
	Code         int    `json:"code"`
	ValidMinutes int    `json:"valid_minutes"`
}

// Mailer delivers verification codes. Its errors never fail a signup.
type Mailer interface {
	SendVerification(ctx context.Context, email VerificationEmail) error
}

// MailerFunc adapts a function to Mailer.
type MailerFunc func(ctx context.Context, email VerificationEmail) error

func (f MailerFunc) SendVerification(ctx context.Context, email VerificationEmail) error {
	return f(ctx, email)
}

// SessionTicket is handed to the client after the first two stages.
type SessionTicket struct {
	Session   string    `json:"session"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AccountDetails completes a verified signup.
type AccountDetails struct {
	FirstName  string
	MiddleName *string
	LastName   string
}

var ErrRegistry = errx.NewRegistry("SIGNUP")

var (
	CodeSessionExpired   = ErrRegistry.Register("SESSION_EXPIRED", errx.TypeNotFound, http.StatusNotFound, "Signup session expired or not found")
	CodePasswordMismatch = ErrRegistry.Register("PASSWORD_MISMATCH", errx.TypeValidation, http.StatusBadRequest, "Passwords do not match")
	CodeEmailNotVerified = ErrRegistry.Register("EMAIL_NOT_VERIFIED", errx.TypeAuthorization, http.StatusForbidden, "Email has not been verified")
)

func ErrSessionExpired() *errx.Error {
	return ErrRegistry.New(CodeSessionExpired)
}

func ErrPasswordMismatch() *errx.Error {
	return ErrRegistry.New(CodePasswordMismatch)
}

func ErrEmailNotVerified() *errx.Error {
	return ErrRegistry.New(CodeEmailNotVerified)
}
