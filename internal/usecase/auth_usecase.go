package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

// AuthUseCase реализует вход администратора через внешний провайдер
// и проверку access-токенов с учетом отозванных.
type AuthUseCase struct {
	provider  IdentityProvider
	verifier  TokenVerifier
	tokenRepo TokenRepository
	logger    logger.Logger
	now       func() time.Time
}

func NewAuthUC(provider IdentityProvider, verifier TokenVerifier, tokenRepo TokenRepository, logger logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		provider:  provider,
		verifier:  verifier,
		tokenRepo: tokenRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// SignIn обменивает email и пароль на сессию провайдера.
func (a *AuthUseCase) SignIn(ctx context.Context, email, password string) (*Session, error) {
	const op = "AuthUseCase.SignIn"

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, e.Wrap(op, e.ErrCredentialsRequired)
	}

	session, err := a.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if session == nil || session.AccessToken == "" {
		return nil, e.Wrap(op, e.ErrSessionNotCreated)
	}

	a.logger.Infof("admin signed in: user=%s", session.User.ID)
	return session, nil
}

// SignOut отзывает access-токен до истечения его срока.
// Невалидный или уже истекший токен отзывать не нужно, выход считается успешным.
func (a *AuthUseCase) SignOut(ctx context.Context, token string) error {
	const op = "AuthUseCase.SignOut"

	if token == "" {
		return nil
	}

	claims, err := a.verifier.Verify(token)
	if err != nil {
		a.logger.Debugf("sign out with invalid token: %v", err)
		return nil
	}

	ttl := claims.ExpiresAt.Sub(a.now())
	if ttl <= 0 {
		return nil
	}

	if err := a.tokenRepo.Revoke(ctx, TokenID(token), ttl); err != nil {
		return e.Wrap(op, err)
	}

	a.logger.Infof("admin signed out: user=%s", claims.Subject)
	return nil
}

// Authenticate проверяет подпись, срок действия и отзыв токена.
func (a *AuthUseCase) Authenticate(ctx context.Context, token string) (*AccessClaims, error) {
	const op = "AuthUseCase.Authenticate"

	if token == "" {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	claims, err := a.verifier.Verify(token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	revoked, err := a.tokenRepo.IsRevoked(ctx, TokenID(token))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if revoked {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	return claims, nil
}

// TokenID — ключ токена в списке отозванных: sha256 в hex.
func TokenID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
