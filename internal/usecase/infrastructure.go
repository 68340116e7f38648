package usecase

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
	CleanupImages(urls []string)
}

type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
}

type TokenVerifier interface {
	Verify(token string) (*AccessClaims, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// TxManager запускает функцию в транзакции. Реализуется manager.Manager из avito-tech.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoWithSettings(ctx context.Context, s trm.Settings, fn func(ctx context.Context) error) error
}
