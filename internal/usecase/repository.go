package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
)

type CatalogRepository interface {
	Search(ctx context.Context, pred domain.Predicate, limit, offset int) ([]domain.CatalogProduct, int, error)
	CountProducts(ctx context.Context) (int, error)
}

type CategoryRepository interface {
	ChildIDs(ctx context.Context, parentID string) ([]string, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetWithCounts(ctx context.Context, id string) (*domain.CategoryWithCounts, error)
	List(ctx context.Context, filter CategoryListFilter) ([]domain.CategoryWithCounts, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) (*domain.Product, error)
}

type ShopSettingsRepository interface {
	Get(ctx context.Context) (*domain.ShopSettings, error)
	Upsert(ctx context.Context, settings *domain.ShopSettings) (*domain.ShopSettings, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ResetStuck(ctx context.Context, olderThan time.Duration) (int64, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

type TokenRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
