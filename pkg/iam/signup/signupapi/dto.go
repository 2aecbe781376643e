package signupapi

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
)

var (
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)
	lettersOnly = regexp.MustCompile(`^\p{L}+$`)
)

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(8, 50),
		validation.Match(hasUpper).Error("must contain an uppercase letter"),
		validation.Match(hasLower).Error("must contain a lowercase letter"),
		validation.Match(hasDigit).Error("must contain a digit"),
	}
}

type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, passwordRules()...),
		validation.Field(&r.ConfirmPassword, validation.Required),
	)
}

type VerificationRequest struct {
	OTP int `json:"otp"`
}

func (r VerificationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OTP, validation.Required, validation.Min(100000), validation.Max(999999)),
	)
}

type UserCreationRequest struct {
	FirstName  string  `json:"firstName"`
	MiddleName *string `json:"middleName"`
	LastName   string  `json:"lastName"`
}

func (r UserCreationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(8, 50), validation.Match(lettersOnly).Error("must contain letters only")),
		validation.Field(&r.MiddleName, validation.Length(0, 50), validation.Match(lettersOnly).Error("must contain letters only")),
		validation.Field(&r.LastName, validation.Required, validation.Length(8, 50), validation.Match(lettersOnly).Error("must contain letters only")),
	)
}

type SignupResponse struct {
	Message            string    `json:"message"`
	Session            string    `json:"session"`
	SignUpSessionExpAt time.Time `json:"signUpSessionExpAt"`
}

type VerificationResponse struct {
	Message   string    `json:"message"`
	Session   string    `json:"session"`
	ExpiredAt time.Time `json:"expiredAt"`
}

type UserMetaData struct {
	UserID     kernel.AccountID `json:"userId"`
	Email      string           `json:"email"`
	FirstName  string           `json:"firstName"`
	MiddleName *string          `json:"middleName,omitempty"`
	LastName   string           `json:"lastName"`
	Plan       string           `json:"plan"`
}

type UserCreatedResponse struct {
	MetaData UserMetaData `json:"metaData"`
	Token    string       `json:"token"`
}
