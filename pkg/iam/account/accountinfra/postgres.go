package accountinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
)

const uniqueViolation = "23505"

const (
	accountColumns = `user_id, email, first_name, middle_name, last_name, is_email_verified, created_at, updated_at`

	credentialColumns = `user_auth_id, user_id, auth_provider, provider_user_id, password_hashed, created_at, updated_at`

	activeSubscriptionQuery = `
		SELECT s.subscription_id, s.user_id, s.plan_id, p.plan_name, s.start_date, s.end_date, s.subscription_status
		FROM subscriptions s
		JOIN subscription_plans p ON p.plan_id = s.plan_id
		WHERE s.user_id = ? AND s.subscription_status = 'active'`
)

// PostgresAccountRepository implements account.Repository on sqlx. Queries
// are written with '?' placeholders and rebound for the driver in use.
type PostgresAccountRepository struct {
	db *sqlx.DB
}

func NewPostgresAccountRepository(db *sqlx.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return account.ErrRepositoryUnavailable(err)
	}
	return nil
}

func (r *PostgresAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`)
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, account.ErrRepositoryUnavailable(err).WithDetail("op", "exists_by_email")
	}
	return exists, nil
}

func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*account.Profile, error) {
	var acc account.Account
	query := r.db.Rebind(`SELECT ` + accountColumns + ` FROM users WHERE email = ?`)
	if err := r.db.GetContext(ctx, &acc, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound().WithDetail("email", email)
		}
		return nil, account.ErrRepositoryUnavailable(err).WithDetail("op", "find_by_email")
	}
	return r.loadProfile(ctx, acc)
}

func (r *PostgresAccountRepository) FindByID(ctx context.Context, id kernel.AccountID) (*account.Profile, error) {
	var acc account.Account
	query := r.db.Rebind(`SELECT ` + accountColumns + ` FROM users WHERE user_id = ?`)
	if err := r.db.GetContext(ctx, &acc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound().WithDetail("account_id", id)
		}
		return nil, account.ErrRepositoryUnavailable(err).WithDetail("op", "find_by_id")
	}
	return r.loadProfile(ctx, acc)
}

func (r *PostgresAccountRepository) loadProfile(ctx context.Context, acc account.Account) (*account.Profile, error) {
	profile := &account.Profile{Account: acc}

	query := r.db.Rebind(`SELECT ` + credentialColumns + ` FROM user_auths WHERE user_id = ? ORDER BY user_auth_id LIMIT 1`)
	err := r.db.GetContext(ctx, &profile.Credential, query, acc.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Treated as a provider-only account with no password.
	case err != nil:
		return nil, account.ErrRepositoryUnavailable(err).WithDetail("op", "load_credential")
	}

	err = r.db.GetContext(ctx, &profile.Subscription, r.db.Rebind(activeSubscriptionQuery), acc.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNoActiveSubscription().WithDetail("account_id", acc.ID)
		}
		return nil, account.ErrRepositoryUnavailable(err).WithDetail("op", "load_subscription")
	}
	return profile, nil
}

// Provision writes the account, its credential and the default subscription
// in a single transaction. Nothing is visible to other readers unless all
// three inserts succeed.
func (r *PostgresAccountRepository) Provision(ctx context.Context, req account.ProvisionRequest) (profile *account.Profile, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, account.ErrRepositoryUnavailable(err).WithDetail("op", "begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	acc := req.Account
	err = tx.QueryRowxContext(ctx, tx.Rebind(`
		INSERT INTO users (email, first_name, middle_name, last_name, is_email_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING user_id`),
		acc.Email, acc.FirstName, acc.MiddleName, acc.LastName, acc.IsEmailVerified, acc.CreatedAt, acc.UpdatedAt,
	).Scan(&acc.ID)
	if err != nil {
		return nil, translateWriteError(err, acc.Email, "insert_account")
	}

	cred := req.Credential
	cred.AccountID = acc.ID
	err = tx.QueryRowxContext(ctx, tx.Rebind(`
		INSERT INTO user_auths (user_id, auth_provider, provider_user_id, password_hashed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING user_auth_id`),
		cred.AccountID, cred.Provider, cred.ProviderUserID, cred.PasswordHash, cred.CreatedAt, cred.UpdatedAt,
	).Scan(&cred.ID)
	if err != nil {
		return nil, translateWriteError(err, acc.Email, "insert_credential")
	}

	var planID int64
	err = tx.GetContext(ctx, &planID, tx.Rebind(`SELECT plan_id FROM subscription_plans WHERE plan_name = ? AND is_active`), req.PlanName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrPlanNotFound(req.PlanName)
		}
		return nil, account.ErrRepositoryUnavailable(err).WithDetail("op", "find_plan")
	}

	sub := account.Subscription{
		AccountID: acc.ID,
		PlanID:    planID,
		PlanName:  req.PlanName,
		StartDate: acc.CreatedAt,
		Status:    account.StatusActive,
	}
	err = tx.QueryRowxContext(ctx, tx.Rebind(`
		INSERT INTO subscriptions (user_id, plan_id, start_date, end_date, subscription_status)
		VALUES (?, ?, ?, ?, ?)
		RETURNING subscription_id`),
		sub.AccountID, sub.PlanID, sub.StartDate, sub.EndDate, sub.Status,
	).Scan(&sub.ID)
	if err != nil {
		return nil, translateWriteError(err, acc.Email, "insert_subscription")
	}

	if err = tx.Commit(); err != nil {
		return nil, account.ErrRepositoryUnavailable(err).WithDetail("op", "commit")
	}

	return &account.Profile{Account: acc, Credential: cred, Subscription: sub}, nil
}

// translateWriteError maps a unique violation on users.email to
// CodeAlreadyExists so a lost signup race surfaces as a conflict.
func translateWriteError(err error, email, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return account.ErrAlreadyExists(email).WithCause(err)
	}
	return account.ErrRepositoryUnavailable(err).WithDetail("op", op)
}
