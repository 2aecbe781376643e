package auth_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/auth"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock {
	return &clock{t: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
}

func testOptions(c *clock) auth.JWTOptions {
	return auth.JWTOptions{
		Issuer:    "roa.io",
		Audience:  "personal-finance-app",
		AccessTTL: time.Hour,
		Leeway:    5 * time.Minute,
		Now:       c.now,
	}
}

func TestHMACRoundTrip(t *testing.T) {
	c := newClock()
	svc, err := auth.NewHMACService([]byte("0123456789abcdef0123456789abcdef"), testOptions(c))
	require.NoError(t, err)

	token, exp, err := svc.GenerateAccessToken(auth.TokenClaims{
		AccountID:   42,
		Email:       "ana@example.com",
		Role:        "Basic",
		Permissions: []string{"CanViewReports"},
	})
	require.NoError(t, err)
	assert.Equal(t, c.t.Add(time.Hour), exp)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.AccountID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Basic", claims.Role)
	assert.Equal(t, []string{"CanViewReports"}, claims.Permissions)
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestExpiryHonoursLeeway(t *testing.T) {
	c := newClock()
	svc, err := auth.NewHMACService([]byte("0123456789abcdef0123456789abcdef"), testOptions(c))
	require.NoError(t, err)

	token, _, err := svc.GenerateAccessToken(auth.TokenClaims{AccountID: 1, Role: "Basic"})
	require.NoError(t, err)

	c.advance(time.Hour + 4*time.Minute)
	_, err = svc.ValidateAccessToken(token)
	require.NoError(t, err)

	c.advance(2 * time.Minute)
	_, err = svc.ValidateAccessToken(token)
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, auth.CodeTokenValidationFailed))
}

func TestRejectsForeignIssuerAndTampering(t *testing.T) {
	c := newClock()
	secret := []byte("0123456789abcdef0123456789abcdef")
	svc, err := auth.NewHMACService(secret, testOptions(c))
	require.NoError(t, err)

	other := testOptions(c)
	other.Issuer = "someone-else"
	foreign, err := auth.NewHMACService(secret, other)
	require.NoError(t, err)

	token, _, err := foreign.GenerateAccessToken(auth.TokenClaims{AccountID: 1})
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err)

	token, _, err = svc.GenerateAccessToken(auth.TokenClaims{AccountID: 1})
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(token + "x")
	assert.Error(t, err)

	_, err = auth.NewHMACService(nil, testOptions(c))
	assert.Error(t, err)
}

func TestRSAServiceAndKeyLoading(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "jwt.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

	loaded, err := auth.LoadRSAPrivateKey(path)
	require.NoError(t, err)

	c := newClock()
	svc, err := auth.NewRSAService(loaded, testOptions(c))
	require.NoError(t, err)

	token, _, err := svc.GenerateAccessToken(auth.TokenClaims{AccountID: 7, Role: "Admin"})
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.AccountID)

	hmac, err := auth.NewHMACService([]byte("0123456789abcdef0123456789abcdef"), testOptions(c))
	require.NoError(t, err)
	_, err = hmac.ValidateAccessToken(token)
	assert.Error(t, err, "RS256 token must not validate under HS256")

	_, err = auth.LoadRSAPrivateKey(filepath.Join(t.TempDir(), "missing.pem"))
	assert.True(t, errx.HasCode(err, auth.CodeInvalidSigningKey))
}
