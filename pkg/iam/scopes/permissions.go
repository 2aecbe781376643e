// Package scopes holds the fixed mapping from subscription plan to the
// permission claims embedded in access tokens.
package scopes

// Permission is a capability granted through a plan.
type Permission string

const (
	CanManageUsers           Permission = "CanManageUsers"
	CanEditReports           Permission = "CanEditReports"
	CanViewReports           Permission = "CanViewReports"
	CanAccessPremiumFeatures Permission = "CanAccessPremiumFeatures"
)

// Plan names as stored in subscription_plans.plan_name.
const (
	PlanBasic           = "Basic"
	PlanConsumer        = "Consumer"
	PlanPremiumConsumer = "Premium Consumer"
	PlanAdmin           = "Admin"
)

// ForPlan returns the permissions of plan. ok is false for plans outside the
// table, which receive no permissions. PlanBasic is one of them.
func ForPlan(plan string) (perms []Permission, ok bool) {
	switch plan {
	case PlanAdmin:
		return []Permission{CanManageUsers, CanEditReports}, true
	case PlanPremiumConsumer:
		return []Permission{CanViewReports, CanAccessPremiumFeatures}, true
	case PlanConsumer:
		return []Permission{CanViewReports}, true
	default:
		return nil, false
	}
}

// Strings converts perms for embedding in claims.
func Strings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
