package clients

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
	r "github.com/redis/go-redis/v9"
)

const redisConnectAttempts = 3

// ConnectRedis создает клиент Redis и ждет, пока сервер ответит на PING.
// При неудаче клиент закрывается.
func ConnectRedis(ctx context.Context, cfg *cfg.RedisCfg, log logger.Logger) (*r.Client, error) {
	client := r.NewClient(&r.Options{
		Addr:         cfg.Addr,
		Username:     cfg.User,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	backoff := jitter.NewBackoff(cfg.DialTimeout/4, cfg.DialTimeout)

	var err error
	for attempt := range redisConnectAttempts {
		if err = client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		log.Warnf("redis %s is not ready (attempt %d/%d): %v", cfg.Addr, attempt+1, redisConnectAttempts, err)

		if attempt == redisConnectAttempts-1 {
			break
		}
		if werr := backoff.Wait(ctx, attempt); werr != nil {
			err = werr
			break
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
}
