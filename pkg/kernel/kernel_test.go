package kernel_test

import (
	"testing"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountID(t *testing.T) {
	id, err := kernel.ParseAccountID("42")
	require.NoError(t, err)
	assert.Equal(t, kernel.AccountID(42), id)
	assert.Equal(t, "42", id.String())

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := kernel.ParseAccountID(bad)
		assert.Error(t, err, bad)
	}
}

func TestAuthContextPermissions(t *testing.T) {
	ac := &kernel.AuthContext{AccountID: 1, Permissions: []string{"CanViewReports"}}

	assert.True(t, ac.IsValid())
	assert.True(t, ac.HasPermission("CanViewReports"))
	assert.False(t, ac.HasPermission("CanManageUsers"))
	assert.True(t, ac.HasAnyPermission("CanManageUsers", "CanViewReports"))

	var empty *kernel.AuthContext
	assert.False(t, empty.IsValid())
}
