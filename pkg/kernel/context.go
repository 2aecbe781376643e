package kernel

import "slices"

// AuthContext is what the token middleware exposes to handlers for an
// authenticated request.
type AuthContext struct {
	AccountID   AccountID `json:"account_id"`
	Email       string    `json:"email"`
	Plan        string    `json:"plan"`
	Permissions []string  `json:"permissions"`
}

func (ac *AuthContext) IsValid() bool {
	return ac != nil && !ac.AccountID.IsZero()
}

func (ac *AuthContext) HasPermission(permission string) bool {
	return slices.Contains(ac.Permissions, permission)
}

// HasAnyPermission reports whether at least one of permissions is granted.
func (ac *AuthContext) HasAnyPermission(permissions ...string) bool {
	for _, p := range permissions {
		if ac.HasPermission(p) {
			return true
		}
	}
	return false
}

type ContextKey string

const (
	AuthContextKey ContextKey = "auth_context"
	RequestIDKey   ContextKey = "request_id"
)
