package scopes_test

import (
	"testing"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/scopes"
	"github.com/stretchr/testify/assert"
)

func TestForPlan(t *testing.T) {
	tests := []struct {
		plan  string
		perms []string
		known bool
	}{
		{scopes.PlanAdmin, []string{"CanManageUsers", "CanEditReports"}, true},
		{scopes.PlanPremiumConsumer, []string{"CanViewReports", "CanAccessPremiumFeatures"}, true},
		{scopes.PlanConsumer, []string{"CanViewReports"}, true},
		{scopes.PlanBasic, []string{}, false},
		{"Enterprise", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.plan, func(t *testing.T) {
			perms, ok := scopes.ForPlan(tt.plan)
			assert.Equal(t, tt.known, ok)
			assert.Equal(t, tt.perms, scopes.Strings(perms))
		})
	}
}
