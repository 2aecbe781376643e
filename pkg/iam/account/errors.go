package account

import (
	"net/http"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("ACCOUNT")

var (
	CodeAlreadyExists         = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "An account with this email already exists")
	CodeNotFound              = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Account not found")
	CodePlanNotFound          = ErrRegistry.Register("PLAN_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Subscription plan not found")
	CodeNoActiveSubscription  = ErrRegistry.Register("NO_ACTIVE_SUBSCRIPTION", errx.TypeInternal, http.StatusInternalServerError, "Account has no active subscription")
	CodeHasNoPassword         = ErrRegistry.Register("HAS_NO_PASSWORD", errx.TypeBusiness, http.StatusBadRequest, "Account was created with an external provider and has no password")
	CodeInvalidCredentials    = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid email or password")
	CodeRepositoryUnavailable = ErrRegistry.Register("REPOSITORY_UNAVAILABLE", errx.TypeExternal, http.StatusInternalServerError, "Account storage unavailable")
)

func ErrAlreadyExists(email string) *errx.Error {
	return ErrRegistry.New(CodeAlreadyExists).WithDetail("email", email)
}

func ErrNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrPlanNotFound(plan string) *errx.Error {
	return ErrRegistry.New(CodePlanNotFound).WithDetail("plan", plan)
}

func ErrNoActiveSubscription() *errx.Error {
	return ErrRegistry.New(CodeNoActiveSubscription)
}

func ErrHasNoPassword() *errx.Error {
	return ErrRegistry.New(CodeHasNoPassword)
}

func ErrInvalidCredentials() *errx.Error {
	return ErrRegistry.New(CodeInvalidCredentials)
}

func ErrRepositoryUnavailable(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeRepositoryUnavailable, cause)
}

func IsNotFound(err error) bool {
	return errx.HasCode(err, CodeNotFound)
}
