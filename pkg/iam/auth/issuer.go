package auth

import (
	"context"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/cachex"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/otp"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/scopes"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/kernel"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

// TokenIssuer mints access tokens and manages the refresh token slot of each
// account. Issuing a new pair overwrites any previous refresh token.
type TokenIssuer struct {
	tokens     TokenService
	store      cachex.Store
	refreshTTL time.Duration
	now        func() time.Time
	logger     *logx.Logger
}

func NewTokenIssuer(tokens TokenService, store cachex.Store, refreshTTL time.Duration, logger *logx.Logger) *TokenIssuer {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenIssuer{
		tokens:     tokens,
		store:      store,
		refreshTTL: refreshTTL,
		now:        time.Now,
		logger:     logger.Named("token_issuer"),
	}
}

// AccessToken signs an access token for subject without touching the refresh
// slot.
func (i *TokenIssuer) AccessToken(subject Subject) (string, time.Time, error) {
	perms, ok := scopes.ForPlan(subject.Role)
	if !ok {
		i.logger.WithFields(logx.Fields{
			"account_id": subject.AccountID,
			"role":       subject.Role,
		}).Warn("Unknown plan, issuing token without permissions")
	}
	return i.tokens.GenerateAccessToken(TokenClaims{
		AccountID:   subject.AccountID,
		Email:       subject.Email,
		Role:        subject.Role,
		Permissions: scopes.Strings(perms),
	})
}

// Issue mints an access token and a fresh refresh token. The access token is
// returned even when storing the refresh token fails; callers decide whether
// that error is fatal.
func (i *TokenIssuer) Issue(ctx context.Context, subject Subject) (*TokenPair, error) {
	access, accessExp, err := i.AccessToken(subject)
	if err != nil {
		return nil, err
	}

	pair := &TokenPair{AccessToken: access, AccessExpiresAt: accessExp}

	refresh, err := otp.GenerateRefreshToken()
	if err != nil {
		return pair, err
	}
	if err := i.store.Set(ctx, RefreshKey(subject.AccountID), refresh, i.refreshTTL); err != nil {
		return pair, err
	}

	pair.RefreshToken = refresh
	pair.RefreshExpiresAt = i.now().Add(i.refreshTTL)
	return pair, nil
}

// Verify checks presented against the stored refresh token of id.
func (i *TokenIssuer) Verify(ctx context.Context, id kernel.AccountID, presented string) error {
	if presented == "" {
		return ErrInvalidRefreshToken()
	}
	stored, err := cachex.Get[string](ctx, i.store, RefreshKey(id))
	if err != nil {
		if cachex.IsMiss(err) {
			return ErrInvalidRefreshToken()
		}
		return err
	}
	if !otp.EqualTokens(stored, presented) {
		return ErrInvalidRefreshToken()
	}
	return nil
}

// Rotate verifies presented and, if valid, replaces it with a new pair.
func (i *TokenIssuer) Rotate(ctx context.Context, subject Subject, presented string) (*TokenPair, error) {
	if err := i.Verify(ctx, subject.AccountID, presented); err != nil {
		return nil, err
	}
	pair, err := i.Issue(ctx, subject)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Revoke deletes the refresh token of id.
func (i *TokenIssuer) Revoke(ctx context.Context, id kernel.AccountID) error {
	return i.store.Delete(ctx, RefreshKey(id))
}
