package iamcontainer

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/cachex"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/config"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account/accountapi"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account/accountinfra"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/account/accountsrv"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/auth"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/auth/authinfra"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup/signupapi"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup/signupinfra"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup/signupsrv"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/jobx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/notifx"
)

// ---------------------------------------------------------------------------
// Deps: explicit external dependencies this bounded context requires.
// ---------------------------------------------------------------------------

type Deps struct {
	DB     *sqlx.DB
	Cache  cachex.Store
	Mail   *notifx.Client
	Cfg    *config.Config
	Logger *logx.Logger

	// Jobs is required when SIGNUP_MAILER_MODE is "queue".
	Jobs jobx.Enqueuer
	// Metrics may be nil.
	Metrics prometheus.Registerer
}

// ---------------------------------------------------------------------------
// Container: the public surface of the IAM module.
// ---------------------------------------------------------------------------

type Container struct {
	AccountService *accountsrv.AccountService
	SignupService  *signupsrv.SignupService
	TokenService   auth.TokenService
	TokenIssuer    *auth.TokenIssuer

	AccountHandlers *accountapi.AccountHandlers
	SignupHandlers  *signupapi.SignupHandlers

	AuthMiddleware *auth.TokenMiddleware

	// VerificationMailer delivers inline. Queue workers use it to drain the
	// email queue.
	VerificationMailer signup.Mailer
}

// ---------------------------------------------------------------------------
// New: constructs the IAM dependency graph.
// Order matters: infra → repos → services → handlers → middleware.
// ---------------------------------------------------------------------------

func New(deps Deps) (*Container, error) {
	logger := deps.Logger.Named("iam")
	logger.Info("Initializing IAM container")

	cfg := deps.Cfg
	c := &Container{}

	// ── Token signing ────────────────────────────────────────────────────

	tokens, err := newTokenService(cfg.Auth)
	if err != nil {
		return nil, err
	}
	c.TokenService = tokens
	c.TokenIssuer = auth.NewTokenIssuer(tokens, deps.Cache, cfg.Auth.RefreshTokenTTL, deps.Logger)
	logger.WithField("mode", cfg.Auth.JWTMode).Info("Token service configured")

	// ── Repositories and infra services ──────────────────────────────────

	accountRepo := accountinfra.NewPostgresAccountRepository(deps.DB)
	hasher := authinfra.NewBcryptHasher(cfg.Auth.BcryptCost)
	audit := authinfra.NewLogxAuditService(deps.Logger)

	c.VerificationMailer = signupinfra.NewNotifxMailer(deps.Mail, cfg.Signup.EmailSubject)
	mailer, err := buildMailer(cfg.Signup, c.VerificationMailer, deps.Jobs, deps.Logger)
	if err != nil {
		return nil, err
	}
	logger.WithField("mode", cfg.Signup.MailerMode).Info("Verification mailer configured")

	// ── Domain services ──────────────────────────────────────────────────

	c.AccountService = accountsrv.NewAccountService(accountRepo, hasher, c.TokenIssuer, audit, deps.Logger)

	c.SignupService = signupsrv.NewSignupService(
		accountRepo,
		deps.Cache,
		hasher,
		c.TokenIssuer,
		mailer,
		audit,
		deps.Logger,
		signupsrv.Config{
			SessionTTL:  cfg.Signup.SessionTTL,
			OTPTTL:      cfg.Signup.OTPTTL,
			VerifiedTTL: cfg.Signup.VerifiedTTL,
			DefaultPlan: cfg.Auth.DefaultPlan,
		},
		signupsrv.WithMetrics(signupsrv.NewMetrics(deps.Metrics)),
	)

	// ── Handlers and middleware ──────────────────────────────────────────

	c.AccountHandlers = accountapi.NewAccountHandlers(c.AccountService, cfg.Auth.CookieSecure)
	c.SignupHandlers = signupapi.NewSignupHandlers(c.SignupService, cfg.Auth.CookieSecure)
	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService)

	logger.Info("IAM container initialized")
	return c, nil
}

// RegisterRoutes mounts every IAM route on app.
func (c *Container) RegisterRoutes(app fiber.Router) {
	c.SignupHandlers.RegisterRoutes(app)
	c.AccountHandlers.RegisterRoutes(app, c.AuthMiddleware)
}

// RegisterJobHandlers lets a jobx worker deliver queued verification emails.
func (c *Container) RegisterJobHandlers(jobs *jobx.Client) {
	jobs.Register(signupinfra.JobTypeVerificationEmail, signupinfra.VerificationEmailHandler(c.VerificationMailer))
}

// Ping checks the account store.
func (c *Container) Ping(ctx context.Context) error {
	return c.AccountService.Ping(ctx)
}

func newTokenService(cfg config.AuthConfig) (*auth.JWTService, error) {
	opts := auth.JWTOptions{
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
		AccessTTL: cfg.AccessTokenTTL,
		Leeway:    cfg.ClockSkew,
	}
	if cfg.JWTMode == config.JWTModeRSA {
		key, err := auth.LoadRSAPrivateKey(cfg.JWTPrivateKeyPath)
		if err != nil {
			return nil, err
		}
		return auth.NewRSAService(key, opts)
	}
	return auth.NewHMACService([]byte(cfg.JWTSecret), opts)
}

func buildMailer(cfg config.SignupConfig, inline signup.Mailer, jobs jobx.Enqueuer, logger *logx.Logger) (signup.Mailer, error) {
	switch cfg.MailerMode {
	case config.MailerQueue:
		if jobs == nil {
			return nil, errMissingQueue()
		}
		return signupinfra.NewQueueMailer(jobs, emailQueue), nil
	case config.MailerAsync:
		return signupinfra.NewAsyncMailer(inline, cfg.MailTimeout, logger), nil
	default:
		return inline, nil
	}
}
