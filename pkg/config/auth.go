package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	JWTModeHMAC = "hmac"
	JWTModeRSA  = "rsa"
)

type AuthConfig struct {
	JWTMode           string        `env:"JWT_MODE" envDefault:"hmac"`
	JWTSecret         string        `env:"JWT_SECRET"`
	JWTPrivateKeyPath string        `env:"JWT_PRIVATE_KEY_PATH"`
	JWTIssuer         string        `env:"JWT_ISSUER" envDefault:"roa.io"`
	JWTAudience       string        `env:"JWT_AUDIENCE" envDefault:"personal-finance-app"`
	AccessTokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL   time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	ClockSkew         time.Duration `env:"CLOCK_SKEW" envDefault:"5m"`
	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"12"`
	DefaultPlan       string        `env:"DEFAULT_PLAN" envDefault:"Basic"`
	CookieSecure      bool          `env:"COOKIE_SECURE" envDefault:"true"`
}

func (c AuthConfig) validate() []error {
	var errs []error
	switch c.JWTMode {
	case JWTModeHMAC:
		if len(c.JWTSecret) < 32 {
			errs = append(errs, errors.New("AUTH_JWT_SECRET must be at least 32 bytes in hmac mode"))
		}
	case JWTModeRSA:
		if c.JWTPrivateKeyPath == "" {
			errs = append(errs, errors.New("AUTH_JWT_PRIVATE_KEY_PATH is required in rsa mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_JWT_MODE must be hmac or rsa, got %q", c.JWTMode))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if c.DefaultPlan == "" {
		errs = append(errs, errors.New("AUTH_DEFAULT_PLAN must not be empty"))
	}
	return errs
}

const (
	MailerInline = "inline"
	MailerAsync  = "async"
	MailerQueue  = "queue"
)

type SignupConfig struct {
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"15m"`
	OTPTTL      time.Duration `env:"OTP_TTL" envDefault:"10m"`
	VerifiedTTL time.Duration `env:"VERIFIED_TTL" envDefault:"10m"`
	// MailerMode selects how verification emails leave the request path.
	MailerMode   string        `env:"MAILER_MODE" envDefault:"async"`
	MailTimeout  time.Duration `env:"MAIL_TIMEOUT" envDefault:"10s"`
	EmailSubject string        `env:"EMAIL_SUBJECT" envDefault:"Email Verification"`
}

func (c SignupConfig) validate() []error {
	var errs []error
	if c.OTPTTL <= 0 || c.SessionTTL <= 0 || c.VerifiedTTL <= 0 {
		errs = append(errs, errors.New("signup TTLs must be positive"))
	}
	if c.OTPTTL > c.SessionTTL {
		errs = append(errs, errors.New("SIGNUP_OTP_TTL must not exceed SIGNUP_SESSION_TTL"))
	}
	switch c.MailerMode {
	case MailerInline, MailerAsync, MailerQueue:
	default:
		errs = append(errs, fmt.Errorf("SIGNUP_MAILER_MODE must be inline, async or queue, got %q", c.MailerMode))
	}
	return errs
}
