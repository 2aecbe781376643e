package auth

import (
	"crypto/rsa"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
)

// JWTOptions are the registered-claim settings shared by both signing modes.
type JWTOptions struct {
	Issuer    string
	Audience  string
	AccessTTL time.Duration
	// Leeway tolerates clock skew when validating exp and nbf.
	Leeway time.Duration
	Now    func() time.Time
}

func (o *JWTOptions) defaults() {
	if o.AccessTTL <= 0 {
		o.AccessTTL = time.Hour
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// JWTService implements TokenService with HS256 or RS256.
type JWTService struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	opts      JWTOptions
	parser    *jwt.Parser
}

type jwtClaims struct {
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// NewHMACService signs with a shared secret.
func NewHMACService(secret []byte, opts JWTOptions) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, ErrRegistry.NewWithMessage(CodeInvalidSigningKey, "empty HMAC secret")
	}
	return newJWTService(jwt.SigningMethodHS256, secret, secret, opts), nil
}

// NewRSAService signs with key and verifies with its public half.
func NewRSAService(key *rsa.PrivateKey, opts JWTOptions) (*JWTService, error) {
	if key == nil {
		return nil, ErrRegistry.NewWithMessage(CodeInvalidSigningKey, "nil RSA key")
	}
	return newJWTService(jwt.SigningMethodRS256, key, &key.PublicKey, opts), nil
}

// LoadRSAPrivateKey reads a PEM encoded PKCS#1 or PKCS#8 RSA key.
func LoadRSAPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeInvalidSigningKey, err).WithDetail("path", path)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeInvalidSigningKey, err).WithDetail("path", path)
	}
	return key, nil
}

func newJWTService(method jwt.SigningMethod, signKey, verifyKey any, opts JWTOptions) *JWTService {
	opts.defaults()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(opts.Leeway),
		jwt.WithTimeFunc(opts.Now),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	return &JWTService{
		method:    method,
		signKey:   signKey,
		verifyKey: verifyKey,
		opts:      opts,
		parser:    jwt.NewParser(parserOpts...),
	}
}

func (j *JWTService) GenerateAccessToken(claims TokenClaims) (string, time.Time, error) {
	now := j.opts.Now()
	expiresAt := now.Add(j.opts.AccessTTL)

	registered := jwt.RegisteredClaims{
		Issuer:    j.opts.Issuer,
		Subject:   claims.AccountID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	if j.opts.Audience != "" {
		registered.Audience = jwt.ClaimStrings{j.opts.Audience}
	}

	token := jwt.NewWithClaims(j.method, jwtClaims{
		Email:            claims.Email,
		Role:             claims.Role,
		Permissions:      claims.Permissions,
		RegisteredClaims: registered,
	})

	signed, err := token.SignedString(j.signKey)
	if err != nil {
		return "", time.Time{}, ErrTokenGenerationFailed(err)
	}
	return signed, expiresAt, nil
}

func (j *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	var claims jwtClaims
	token, err := j.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return j.verifyKey, nil
	})
	if err != nil {
		return nil, ErrTokenValidationFailed(err)
	}
	if !token.Valid {
		return nil, ErrTokenValidationFailed(errors.New("token is invalid"))
	}

	accountID, err := kernel.ParseAccountID(claims.Subject)
	if err != nil {
		return nil, ErrTokenValidationFailed(err)
	}

	out := &TokenClaims{
		AccountID:   accountID,
		Email:       claims.Email,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
