package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	session *Session
	err     error
	email   string
}

func (f *fakeProvider) SignInWithPassword(_ context.Context, email, _ string) (*Session, error) {
	f.email = email
	return f.session, f.err
}

type fakeVerifier struct {
	claims map[string]*AccessClaims
}

func (f *fakeVerifier) Verify(token string) (*AccessClaims, error) {
	if c, ok := f.claims[token]; ok {
		return c, nil
	}
	return nil, e.ErrUnauthorized
}

type fakeTokenRepo struct {
	revoked map[string]time.Duration
	err     error
}

func (f *fakeTokenRepo) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	f.revoked[tokenID] = ttl
	return nil
}

func (f *fakeTokenRepo) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[tokenID]
	return ok, nil
}

func newAuthFixture(now time.Time) (*AuthUseCase, *fakeProvider, *fakeTokenRepo) {
	provider := &fakeProvider{}
	verifier := &fakeVerifier{claims: map[string]*AccessClaims{
		"valid":   {Subject: "u1", Email: "admin@shop.test", ExpiresAt: now.Add(time.Hour)},
		"expired": {Subject: "u1", ExpiresAt: now.Add(-time.Minute)},
	}}
	tokens := &fakeTokenRepo{revoked: map[string]time.Duration{}}

	uc := NewAuthUC(provider, verifier, tokens, logger.NewNop())
	uc.now = func() time.Time { return now }
	return uc, provider, tokens
}

func TestAuthSignIn(t *testing.T) {
	uc, provider, _ := newAuthFixture(time.Now())
	provider.session = &Session{AccessToken: "valid", ExpiresIn: 3600, User: AdminUser{ID: "u1"}}

	session, err := uc.SignIn(context.Background(), " admin@shop.test ", "secret")

	require.NoError(t, err)
	assert.Equal(t, "valid", session.AccessToken)
	assert.Equal(t, "admin@shop.test", provider.email)
}

func TestAuthSignIn_Errors(t *testing.T) {
	uc, provider, _ := newAuthFixture(time.Now())

	_, err := uc.SignIn(context.Background(), "", "secret")
	assert.ErrorIs(t, err, e.ErrCredentialsRequired)

	_, err = uc.SignIn(context.Background(), "admin@shop.test", "")
	assert.ErrorIs(t, err, e.ErrCredentialsRequired)

	provider.err = e.ErrInvalidCredentials
	_, err = uc.SignIn(context.Background(), "admin@shop.test", "wrong")
	assert.ErrorIs(t, err, e.ErrInvalidCredentials)

	provider.err = nil
	provider.session = &Session{}
	_, err = uc.SignIn(context.Background(), "admin@shop.test", "secret")
	assert.ErrorIs(t, err, e.ErrSessionNotCreated)
}

func TestAuthAuthenticate(t *testing.T) {
	uc, _, tokens := newAuthFixture(time.Now())

	claims, err := uc.Authenticate(context.Background(), "valid")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)

	_, err = uc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	_, err = uc.Authenticate(context.Background(), "forged")
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	tokens.err = errors.New("redis down")
	_, err = uc.Authenticate(context.Background(), "valid")
	require.Error(t, err)
	assert.NotErrorIs(t, err, e.ErrUnauthorized)
}

func TestAuthSignOut_RevokesUntilExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	uc, _, tokens := newAuthFixture(now)

	require.NoError(t, uc.SignOut(context.Background(), "valid"))
	assert.Equal(t, time.Hour, tokens.revoked[TokenID("valid")])

	_, err := uc.Authenticate(context.Background(), "valid")
	assert.ErrorIs(t, err, e.ErrUnauthorized, "revoked token is rejected")
}

func TestAuthSignOut_NothingToRevoke(t *testing.T) {
	uc, _, tokens := newAuthFixture(time.Now())

	assert.NoError(t, uc.SignOut(context.Background(), ""))
	assert.NoError(t, uc.SignOut(context.Background(), "forged"))
	assert.NoError(t, uc.SignOut(context.Background(), "expired"))
	assert.Empty(t, tokens.revoked)
}

func TestTokenID(t *testing.T) {
	assert.Len(t, TokenID("abc"), 64)
	assert.Equal(t, TokenID("abc"), TokenID("abc"))
	assert.NotEqual(t, TokenID("abc"), TokenID("abd"))
}
