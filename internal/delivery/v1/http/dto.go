package http

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
)

// REQUESTS

type createCategoryReq struct {
	Name        optionalString `json:"name"`
	Description optionalString `json:"description"`
	ImageURL    optionalString `json:"imageUrl"`
	ParentID    optionalString `json:"parentId"`
}

type updateCategoryReq struct {
	ID          optionalString `json:"id"`
	Name        optionalString `json:"name"`
	Description optionalString `json:"description"`
	ImageURL    optionalString `json:"imageUrl"`
	ParentID    optionalString `json:"parentId"`
}

type productReq struct {
	ID          optionalString  `json:"id"`
	Name        optionalString  `json:"name"`
	CategoryID  optionalString  `json:"categoryId"`
	ColorPrice  json.RawMessage `json:"colorPrice"`
	BWPrice     json.RawMessage `json:"bwPrice"`
	Description optionalString  `json:"description"`
	ImageURL    optionalString  `json:"imageUrl"`
}

type shopSettingsReq struct {
	ShopName optionalString `json:"shopName"`
	Tagline  optionalString `json:"tagline"`
	Phone    optionalString `json:"phone"`
	Address  optionalString `json:"address"`
	Email    optionalString `json:"email"`
	Website  optionalString `json:"website"`
}

type orderItemReq struct {
	ProductID string `json:"productId"`
	Print     string `json:"print"`
	Quantity  int    `json:"quantity"`
}

type whatsAppOrderReq struct {
	Items []orderItemReq `json:"items"`
}

type signInReq struct {
	Email    optionalString `json:"email"`
	Password optionalString `json:"password"`
}

// RESPONSES

type CategoryRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	ImageURL    *string              `json:"imageUrl"`
	CategoryID  string               `json:"categoryId"`
	ColorPrice  float64              `json:"colorPrice"`
	BWPrice     float64              `json:"bwPrice"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Category    *CategoryRefResponse `json:"category,omitempty"`
}

type CountResponse struct {
	Children int `json:"children"`
	Products int `json:"products"`
}

type CategoryResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"imageUrl"`
	ParentID    *string        `json:"parentId"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Count       *CountResponse `json:"_count,omitempty"`
}

type CategoryDetailsResponse struct {
	CategoryResponse
	Children []CategoryResponse `json:"children"`
}

type ShopSettingsResponse struct {
	ID        string    `json:"id"`
	ShopName  string    `json:"shopName"`
	Tagline   *string   `json:"tagline"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	Email     *string   `json:"email"`
	Website   *string   `json:"website"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PaginationResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
	Total  int `json:"total"`
}

type ProductsListResponse struct {
	Success    bool               `json:"success"`
	Data       []ProductResponse  `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Path    string `json:"path"`
}

type WhatsAppOrderResponse struct {
	Message string  `json:"message"`
	Total   float64 `json:"total"`
	URL     string  `json:"url"`
}

type AdminUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type SignInResponse struct {
	Success bool              `json:"success"`
	User    AdminUserResponse `json:"user"`
}

type HealthChecks struct {
	Database      bool `json:"database"`
	ProductsCount int  `json:"productsCount"`
}

type HealthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Checks  HealthChecks `json:"checks"`
}

// MAPPERS

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		ColorPrice:  p.ColorPrice.InexactFloat64(),
		BWPrice:     p.BWPrice.InexactFloat64(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toCatalogProductResponse(p *domain.CatalogProduct) ProductResponse {
	res := toProductResponse(&p.Product)
	res.Category = &CategoryRefResponse{ID: p.Category.ID, Name: p.Category.Name}

	return res
}

func toProductsListResponse(res *usecase.SearchRes) ProductsListResponse {
	data := make([]ProductResponse, 0, len(res.Items))
	for i := range res.Items {
		data = append(data, toCatalogProductResponse(&res.Items[i]))
	}

	return ProductsListResponse{
		Success: true,
		Data:    data,
		Pagination: PaginationResponse{
			Limit:  res.Limit,
			Offset: res.Offset,
			Count:  len(data),
			Total:  res.Total,
		},
	}
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		ParentID:    c.ParentID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryWithCountsResponse(c *domain.CategoryWithCounts) CategoryResponse {
	res := toCategoryResponse(&c.Category)
	res.Count = &CountResponse{Children: c.Counts.Children, Products: c.Counts.Products}

	return res
}

func toCategoryListResponse(categories []domain.CategoryWithCounts) []CategoryResponse {
	res := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		res = append(res, toCategoryWithCountsResponse(&categories[i]))
	}

	return res
}

func toCategoryDetailsResponse(d *usecase.CategoryDetails) CategoryDetailsResponse {
	return CategoryDetailsResponse{
		CategoryResponse: toCategoryWithCountsResponse(&d.Category),
		Children:         toCategoryListResponse(d.Children),
	}
}

// toShopSettingsResponse возвращает nil, если настройки еще не заданы: в JSON это null.
func toShopSettingsResponse(s *domain.ShopSettings) *ShopSettingsResponse {
	if s == nil {
		return nil
	}

	return &ShopSettingsResponse{
		ID:        s.ID,
		ShopName:  s.ShopName,
		Tagline:   s.Tagline,
		Phone:     s.Phone,
		Address:   s.Address,
		Email:     s.Email,
		Website:   s.Website,
		UpdatedAt: s.UpdatedAt,
	}
}
