package otp

import (
	"net/http"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("OTP")

var (
	CodeInvalidOTP       = ErrRegistry.Register("INVALID_OTP", errx.TypeValidation, http.StatusBadRequest, "Invalid or incorrect OTP code")
	CodeGenerationFailed = ErrRegistry.Register("GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Could not generate a random secret")
)

func ErrInvalidOTP() *errx.Error { return ErrRegistry.New(CodeInvalidOTP) }

func ErrGenerationFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeGenerationFailed, cause)
}
