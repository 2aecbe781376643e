package account

import (
	"strings"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/ptrx"
)

// ProviderLocal marks a credential backed by a password hash.
const ProviderLocal = "local"

// Subscription statuses.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Account is a durable user identity.
type Account struct {
	ID              kernel.AccountID `db:"user_id" json:"user_id"`
	Email           string           `db:"email" json:"email"`
	FirstName       string           `db:"first_name" json:"first_name"`
	MiddleName      *string          `db:"middle_name" json:"middle_name,omitempty"`
	LastName        string           `db:"last_name" json:"last_name"`
	IsEmailVerified bool             `db:"is_email_verified" json:"is_email_verified"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// NewAccount builds an unsaved, email-verified account.
func NewAccount(email, firstName string, middleName *string, lastName string, now time.Time) Account {
	return Account{
		Email:           NormalizeEmail(email),
		FirstName:       strings.TrimSpace(firstName),
		MiddleName:      middleName,
		LastName:        strings.TrimSpace(lastName),
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// DisplayName joins the non-empty name parts.
func (a Account) DisplayName() string {
	parts := []string{a.FirstName}
	if middle := ptrx.Value(a.MiddleName); middle != "" {
		parts = append(parts, middle)
	}
	parts = append(parts, a.LastName)
	return strings.Join(parts, " ")
}

// Credential is how an account proves its identity. A credential without a
// password hash belongs to an external provider.
type Credential struct {
	ID             int64            `db:"user_auth_id"`
	AccountID      kernel.AccountID `db:"user_id"`
	Provider       string           `db:"auth_provider"`
	ProviderUserID *string          `db:"provider_user_id"`
	PasswordHash   *string          `db:"password_hashed"`
	CreatedAt      time.Time        `db:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at"`
}

func NewPasswordCredential(hash string, now time.Time) Credential {
	return Credential{
		Provider:     ProviderLocal,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (c Credential) HasPassword() bool {
	return c.PasswordHash != nil && *c.PasswordHash != ""
}

// Subscription assigns a plan to an account. A nil EndDate never expires.
type Subscription struct {
	ID        int64            `db:"subscription_id" json:"subscription_id"`
	AccountID kernel.AccountID `db:"user_id" json:"user_id"`
	PlanID    int64            `db:"plan_id" json:"plan_id"`
	PlanName  string           `db:"plan_name" json:"plan_name"`
	StartDate time.Time        `db:"start_date" json:"start_date"`
	EndDate   *time.Time       `db:"end_date" json:"end_date,omitempty"`
	Status    string           `db:"subscription_status" json:"status"`
}

func (s Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// Profile is an account together with its credential and its single active
// subscription.
type Profile struct {
	Account      Account
	Credential   Credential
	Subscription Subscription
}

// NormalizeEmail trims and lower-cases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
