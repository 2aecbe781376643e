package errx

import "net/http"

// Type represents the category of error
type Type string

const (
	TypeInternal      Type = "INTERNAL"
	TypeValidation    Type = "VALIDATION"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeBusiness      Type = "BUSINESS"
	// TypeExternal covers failures of a dependency (cache, mail provider).
	TypeExternal Type = "EXTERNAL"
)

func (t Type) String() string {
	return string(t)
}

// HTTPStatus is the default status for errors of this type.
func (t Type) HTTPStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeAuthorization:
		return http.StatusUnauthorized
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Exposed reports whether details of this error type may reach a client.
func (t Type) Exposed() bool {
	return t != TypeInternal && t != TypeExternal
}
