package accountinfra_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account/accountinfra"
)

var sqliteSchema = []string{
	`CREATE TABLE users (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL,
		middle_name TEXT,
		last_name TEXT NOT NULL,
		is_email_verified BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE user_auths (
		user_auth_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users (user_id),
		auth_provider TEXT NOT NULL,
		provider_user_id TEXT,
		password_hashed TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE subscription_plans (
		plan_id INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_name TEXT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE subscriptions (
		subscription_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users (user_id),
		plan_id INTEGER NOT NULL REFERENCES subscription_plans (plan_id),
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP,
		subscription_status TEXT NOT NULL
	)`,
	`INSERT INTO subscription_plans (plan_name) VALUES ('Basic')`,
}

func newSQLiteRepo(t *testing.T) (*accountinfra.PostgresAccountRepository, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range sqliteSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return accountinfra.NewPostgresAccountRepository(db), db
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

func TestProvisionRoundTrip(t *testing.T) {
	repo, db := newSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.Provision(ctx, provisionRequest())
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", found.Account.Email)
	assert.True(t, found.Account.IsEmailVerified)
	assert.True(t, found.Credential.HasPassword())
	assert.Equal(t, "Basic", found.Subscription.PlanName)

	exists, err := repo.ExistsByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, countRows(t, db, "subscriptions"))
}

func TestProvisionIsAtomicWhenSubscriptionInsertFails(t *testing.T) {
	repo, db := newSQLiteRepo(t)
	_, err := db.Exec(`CREATE TRIGGER fail_subscription BEFORE INSERT ON subscriptions
		BEGIN SELECT RAISE(ABORT, 'subscription insert failed'); END`)
	require.NoError(t, err)

	_, err = repo.Provision(context.Background(), provisionRequest())
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, account.CodeRepositoryUnavailable))

	assert.Zero(t, countRows(t, db, "users"))
	assert.Zero(t, countRows(t, db, "user_auths"))
	assert.Zero(t, countRows(t, db, "subscriptions"))
}
