package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
)

type CatalogUC interface {
	Search(ctx context.Context, q domain.FilterQuery) (*SearchRes, error)
	Health(ctx context.Context) (int, error)
}

type CategoryUC interface {
	List(ctx context.Context, req *ListCategoriesReq) ([]domain.CategoryWithCounts, error)
	Get(ctx context.Context, id string) (*CategoryDetails, error)
	Create(ctx context.Context, req *CreateCategoryReq) (*domain.Category, error)
	Update(ctx context.Context, req *UpdateCategoryReq) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type ProductUC interface {
	Create(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	Update(ctx context.Context, req *UpdateProductReq) (*domain.Product, error)
	Delete(ctx context.Context, id string) (*domain.Product, error)
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
}

type ShopSettingsUC interface {
	Get(ctx context.Context) (*domain.ShopSettings, error)
	Update(ctx context.Context, req *UpdateShopSettingsReq) (*domain.ShopSettings, error)
}

type OrderUC interface {
	WhatsAppSummary(ctx context.Context, req *WhatsAppOrderReq) (*WhatsAppOrderRes, error)
}

type AuthUC interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*AccessClaims, error)
}
