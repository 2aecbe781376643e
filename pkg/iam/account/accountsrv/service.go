package accountsrv

import (
	"context"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/auth"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

// AccountService authenticates returning users and serves account lookups.
type AccountService struct {
	repo   account.Repository
	hasher auth.PasswordHasher
	issuer *auth.TokenIssuer
	audit  auth.AuditService
	logger *logx.Logger
	now    func() time.Time
}

type Option func(*AccountService)

// WithClock overrides the time source used for remaining-time computation.
func WithClock(now func() time.Time) Option {
	return func(s *AccountService) { s.now = now }
}

func NewAccountService(
	repo account.Repository,
	hasher auth.PasswordHasher,
	issuer *auth.TokenIssuer,
	audit auth.AuditService,
	logger *logx.Logger,
	opts ...Option,
) *AccountService {
	s := &AccountService{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		audit:  audit,
		logger: logger.Named("account_service"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate verifies email and password and issues a token pair. A failure
// to persist the refresh token fails the login.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*account.LoginResult, error) {
	email = account.NormalizeEmail(email)

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !exists {
		s.audit.LogLoginAttempt(ctx, email, 0, false, "unknown email")
		return nil, account.ErrNotFound().WithDetail("email", email)
	}

	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	acc := profile.Account

	if !profile.Credential.HasPassword() {
		s.audit.LogLoginAttempt(ctx, email, acc.ID, false, "no password")
		return nil, account.ErrHasNoPassword()
	}

	ok, err := s.hasher.Compare(*profile.Credential.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.audit.LogLoginAttempt(ctx, email, acc.ID, false, "invalid password")
		return nil, account.ErrInvalidCredentials()
	}

	sub := profile.Subscription
	remaining := account.NewRemainingTime(sub.EndDate, s.now())

	tokens, err := s.issuer.Issue(ctx, auth.Subject{AccountID: acc.ID, Email: acc.Email, Role: sub.PlanName})
	if err != nil {
		s.logger.WithError(err).WithField("account_id", acc.ID).Error("Token issuance failed during login")
		return nil, err
	}

	s.audit.LogLoginAttempt(ctx, email, acc.ID, true, "")
	return &account.LoginResult{
		Account:   acc,
		PlanName:  sub.PlanName,
		ExpiredAt: sub.EndDate,
		Remaining: remaining,
		Tokens:    tokens,
	}, nil
}

// GetAccountByID returns the account summary with the remaining time rendered
// as text.
func (s *AccountService) GetAccountByID(ctx context.Context, id kernel.AccountID) (*account.Summary, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.summarize(profile), nil
}

func (s *AccountService) summarize(profile *account.Profile) *account.Summary {
	acc, sub := profile.Account, profile.Subscription
	return &account.Summary{
		AccountID:       acc.ID,
		Email:           acc.Email,
		FirstName:       acc.FirstName,
		MiddleName:      acc.MiddleName,
		LastName:        acc.LastName,
		DisplayName:     acc.DisplayName(),
		IsEmailVerified: acc.IsEmailVerified,
		Plan:            sub.PlanName,
		ExpiredAt:       sub.EndDate,
		RemainingTime:   account.NewRemainingTime(sub.EndDate, s.now()).Summary(),
	}
}

// RefreshSession exchanges a valid refresh token for a new pair. The plan is
// re-read so that plan changes reach the next access token.
func (s *AccountService) RefreshSession(ctx context.Context, id kernel.AccountID, refreshToken string) (*auth.TokenPair, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if account.IsNotFound(err) {
			s.audit.LogTokenRefresh(ctx, id, false)
			return nil, auth.ErrInvalidRefreshToken()
		}
		return nil, err
	}

	subject := auth.Subject{AccountID: id, Email: profile.Account.Email, Role: profile.Subscription.PlanName}
	pair, err := s.issuer.Rotate(ctx, subject, refreshToken)
	s.audit.LogTokenRefresh(ctx, id, err == nil)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// SignOut drops the refresh token of id. Access tokens stay valid until they
// expire.
func (s *AccountService) SignOut(ctx context.Context, id kernel.AccountID) error {
	if err := s.issuer.Revoke(ctx, id); err != nil {
		return err
	}
	s.audit.LogLogout(ctx, id)
	return nil
}

// Ping reports whether account storage is reachable.
func (s *AccountService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
