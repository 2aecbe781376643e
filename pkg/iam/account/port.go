package account

import (
	"context"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/auth"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
)

type Repository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindByEmail and FindByID return CodeNotFound for unknown accounts and
	// CodeNoActiveSubscription when the account has no active subscription.
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	FindByID(ctx context.Context, id kernel.AccountID) (*Profile, error)
	// Provision inserts the account, its credential and an active
	// subscription to PlanName in one transaction.
	Provision(ctx context.Context, req ProvisionRequest) (*Profile, error)
	Ping(ctx context.Context) error
}

type ProvisionRequest struct {
	Account    Account
	Credential Credential
	PlanName   string
}

// LoginResult is returned by a successful password login.
type LoginResult struct {
	Account   Account
	PlanName  string
	ExpiredAt *time.Time
	Remaining RemainingTime
	Tokens    *auth.TokenPair
}

// Summary is the read model behind account lookups.
type Summary struct {
	AccountID       kernel.AccountID `json:"userId"`
	Email           string           `json:"email"`
	FirstName       string           `json:"firstName"`
	MiddleName      *string          `json:"middleName,omitempty"`
	LastName        string           `json:"lastName"`
	DisplayName     string           `json:"displayName"`
	IsEmailVerified bool             `json:"isEmailVerified"`
	Plan            string           `json:"userSubscriptionPlan"`
	ExpiredAt       *time.Time       `json:"expiredAt"`
	RemainingTime   string           `json:"remainingTime"`
}
