package signupsrv

import (
	"context"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/cachex"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/auth"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/otp"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/scopes"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

const (
	stageBegin  = "begin"
	stageVerify = "verify"
	stageCreate = "create"
)

type Config struct {
	SessionTTL  time.Duration
	OTPTTL      time.Duration
	VerifiedTTL time.Duration
	DefaultPlan string
}

func DefaultConfig() Config {
	return Config{
		SessionTTL:  15 * time.Minute,
		OTPTTL:      10 * time.Minute,
		VerifiedTTL: 10 * time.Minute,
		DefaultPlan: scopes.PlanBasic,
	}
}

// Created is the result of the final stage.
type Created struct {
	Profile *account.Profile
	Tokens  *auth.TokenPair
}

// SignupService drives a signup session from pending to consumed.
type SignupService struct {
	accounts account.Repository
	store    cachex.Store
	hasher   auth.PasswordHasher
	issuer   *auth.TokenIssuer
	mailer   signup.Mailer
	audit    auth.AuditService
	metrics  *Metrics
	logger   *logx.Logger
	cfg      Config
	now      func() time.Time
}

type Option func(*SignupService)

func WithClock(now func() time.Time) Option {
	return func(s *SignupService) { s.now = now }
}

func WithMetrics(m *Metrics) Option {
	return func(s *SignupService) { s.metrics = m }
}

func NewSignupService(
	accounts account.Repository,
	store cachex.Store,
	hasher auth.PasswordHasher,
	issuer *auth.TokenIssuer,
	mailer signup.Mailer,
	audit auth.AuditService,
	logger *logx.Logger,
	cfg Config,
	opts ...Option,
) *SignupService {
	s := &SignupService{
		accounts: accounts,
		store:    store,
		hasher:   hasher,
		issuer:   issuer,
		mailer:   mailer,
		audit:    audit,
		logger:   logger.Named("signup_service"),
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
}

// BeginSignup stages the credentials and an OTP under a fresh session and
// sends the code by email. Mail delivery does not affect the result.
func (s *SignupService) BeginSignup(ctx context.Context, email, password, confirmPassword string) (ticket *signup.SessionTicket, err error) {
	defer func() { s.metrics.record(stageBegin, err) }()

	email = account.NormalizeEmail(email)
	if password != confirmPassword {
		return nil, signup.ErrPasswordMismatch()
	}

	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, account.ErrAlreadyExists(email)
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return nil, err
	}
	session, err := otp.GenerateSessionToken()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	payload := signup.Payload{
		Email:        email,
		PasswordHash: hash,
		Stage:        signup.StagePending,
		CreatedAt:    now,
	}
	if err := s.store.Set(ctx, signup.PayloadKey(session), payload, s.cfg.SessionTTL); err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, signup.OTPKey(session), code, s.cfg.OTPTTL); err != nil {
		return nil, err
	}

	mail := signup.VerificationEmail{
		To:           email,
		Code:         code,
		ValidMinutes: int(s.cfg.OTPTTL / time.Minute),
	}
	if mailErr := s.mailer.SendVerification(ctx, mail); mailErr != nil {
		s.logger.WithError(mailErr).WithField("email", email).Error("Verification email was not sent")
	}

	s.logger.WithField("email", email).Info("Signup started")
	return &signup.SessionTicket{Session: session, ExpiresAt: now.Add(s.cfg.SessionTTL)}, nil
}

// VerifyEmail checks code against the OTP of session. A wrong code leaves the
// OTP in place. A matching code claims the OTP with GetDel, so concurrent
// verifications of one session succeed at most once. On success the payload
// moves to a new session token and the old payload key is deleted.
func (s *SignupService) VerifyEmail(ctx context.Context, session string, code int) (ticket *signup.SessionTicket, err error) {
	defer func() { s.metrics.record(stageVerify, err) }()

	expected, err := cachex.Get[int](ctx, s.store, signup.OTPKey(session))
	if err != nil {
		if cachex.IsMiss(err) {
			return nil, signup.ErrSessionExpired()
		}
		return nil, err
	}

	if !otp.Matches(expected, code) {
		s.audit.LogOTPVerification(ctx, "", false)
		return nil, otp.ErrInvalidOTP()
	}
	if _, err := cachex.Take[int](ctx, s.store, signup.OTPKey(session)); err != nil {
		if cachex.IsMiss(err) {
			return nil, signup.ErrSessionExpired()
		}
		return nil, err
	}

	payload, err := cachex.Get[signup.Payload](ctx, s.store, signup.PayloadKey(session))
	if err != nil {
		if cachex.IsMiss(err) {
			return nil, signup.ErrSessionExpired()
		}
		return nil, err
	}

	next, err := otp.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	payload.Verified = true
	payload.Stage = signup.StageEmailVerified
	if err := s.store.Set(ctx, signup.VerifiedKey(next), payload, s.cfg.VerifiedTTL); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, signup.PayloadKey(session)); err != nil {
		return nil, err
	}

	s.audit.LogOTPVerification(ctx, payload.Email, true)
	return &signup.SessionTicket{Session: next, ExpiresAt: s.now().Add(s.cfg.VerifiedTTL)}, nil
}

// CreateAccount provisions the account staged under a verified session and
// issues its first token pair. The verified payload is consumed on success.
func (s *SignupService) CreateAccount(ctx context.Context, session string, details signup.AccountDetails) (created *Created, err error) {
	defer func() { s.metrics.record(stageCreate, err) }()

	payload, err := cachex.Get[signup.Payload](ctx, s.store, signup.VerifiedKey(session))
	if err != nil {
		if cachex.IsMiss(err) {
			return nil, signup.ErrSessionExpired()
		}
		return nil, err
	}
	if !payload.Verified {
		return nil, signup.ErrEmailNotVerified()
	}

	now := s.now()
	profile, err := s.accounts.Provision(ctx, account.ProvisionRequest{
		Account:    account.NewAccount(payload.Email, details.FirstName, details.MiddleName, details.LastName, now),
		Credential: account.NewPasswordCredential(payload.PasswordHash, now),
		PlanName:   s.cfg.DefaultPlan,
	})
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logx.Fields{"account_id": profile.Account.ID, "email": profile.Account.Email})

	if delErr := s.store.Delete(ctx, signup.VerifiedKey(session)); delErr != nil {
		log.WithError(delErr).Warn("Could not delete consumed signup payload")
	}
	s.audit.LogAccountCreated(ctx, profile.Account.ID, profile.Account.Email)

	tokens, err := s.issuer.Issue(ctx, auth.Subject{
		AccountID: profile.Account.ID,
		Email:     profile.Account.Email,
		Role:      profile.Subscription.PlanName,
	})
	if err != nil {
		if tokens == nil {
			return nil, err
		}
		log.WithError(err).Warn("Refresh token was not stored, returning access token only")
	}

	log.Info("Account created")
	return &Created{Profile: profile, Tokens: tokens}, nil
}
