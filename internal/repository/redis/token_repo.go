package redis

import (
	"context"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

// TokenRepo хранит отозванные access-токены до истечения их срока действия.
type TokenRepo struct {
	client goredis.Cmdable
	logger logger.Logger
}

func NewTokenRepo(client goredis.Cmdable, logger logger.Logger) *TokenRepo {
	return &TokenRepo{
		client: client,
		logger: logger,
	}
}

// Revoke добавляет токен в список отозванных на ttl.
func (r *TokenRepo) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.revokedKey(tokenID), 1, ttl).Err(); err != nil {
		r.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// IsRevoked проверяет, отозван ли токен.
func (r *TokenRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.revokedKey(tokenID)).Result()
	if err != nil {
		r.logger.Warnf("Redis EXISTS failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return n > 0, nil
}

// revokedKey возвращает Redis-ключ отозванного токена
func (r *TokenRepo) revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}
