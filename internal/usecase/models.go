package usecase

import (
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// CATALOG

// SearchRes — страница каталога и общее число подходящих товаров.
type SearchRes struct {
	Items  []domain.CatalogProduct
	Total  int
	Limit  int
	Offset int
}

// CATEGORIES

// CategoryListFilter задает выборку категорий.
// All — все категории плоским списком; иначе дети ParentID, либо корневые при ParentID == nil.
type CategoryListFilter struct {
	All      bool
	ParentID *string
}

type ListCategoriesReq struct {
	All      bool
	ParentID *string
}

// CategoryDetails — категория с подкатегориями для страницы категории.
type CategoryDetails struct {
	Category domain.CategoryWithCounts
	Children []domain.CategoryWithCounts
}

type CreateCategoryReq struct {
	Name        string
	Description *string
	ImageURL    *string
	ParentID    *string
}

// UpdateCategoryReq — частичное обновление. nil означает "не менять".
// ParentSet отличает отсутствующий parentId от явного отвязывания (ParentID == nil).
type UpdateCategoryReq struct {
	ID          string
	Name        *string
	Description *string
	ImageURL    *string
	ParentSet   bool
	ParentID    *string
}

// PRODUCTS

type CreateProductReq struct {
	Name        string
	CategoryID  string
	ColorPrice  decimal.Decimal
	BWPrice     decimal.Decimal
	Description *string
	ImageURL    *string
}

type UpdateProductReq struct {
	ID          string
	Name        *string
	CategoryID  *string
	ColorPrice  *decimal.Decimal
	BWPrice     *decimal.Decimal
	Description *string
	ImageURL    *string
}

// UploadImageReq — изображение, загруженное через multipart/form-data.
type UploadImageReq struct {
	Data     []byte // байты изображения
	MimeType string // определенный по содержимому Content-Type
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла
	Path     string // желаемый ключ объекта, может быть пустым
}

// UploadImageRes — ключ объекта и публичная ссылка на него.
type UploadImageRes struct {
	Path string
	URL  string
}

// SHOP SETTINGS

type UpdateShopSettingsReq struct {
	ShopName string
	Tagline  string
	Phone    string
	Address  string
	Email    string
	Website  string
}

// ORDERS

type OrderItemReq struct {
	ProductID string
	Print     string
	Quantity  int
}

type WhatsAppOrderReq struct {
	Items []OrderItemReq
}

type WhatsAppOrderRes struct {
	Summary *domain.OrderSummary
	Message string
	URL     string
}

// AUTH

type AdminUser struct {
	ID    string
	Email string
}

// Session — сессия администратора, выданная провайдером идентификации.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         AdminUser
}

// AccessClaims — проверенные данные access-токена.
type AccessClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	CategoryUpserted OutboxEventType = "category.upserted"
	CategoryDeleted  OutboxEventType = "category.deleted"
	ProductUpserted  OutboxEventType = "product.upserted"
	ProductDeleted   OutboxEventType = "product.deleted"
	SettingsUpdated  OutboxEventType = "settings.updated"
)

// OutboxEvent — событие изменения каталога, ожидающее отправки в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// CatalogEvent — содержимое Payload события.
type CatalogEvent struct {
	EventID     string          `json:"eventId"`
	EventType   OutboxEventType `json:"eventType"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Data        any             `json:"data,omitempty"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key       string
	EventType string
	Payload   []byte
}

// MAPPERS

func NewSearchRes(items []domain.CatalogProduct, total, limit, offset int) *SearchRes {
	return &SearchRes{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}

func NewCategoryDetails(category domain.CategoryWithCounts, children []domain.CategoryWithCounts) *CategoryDetails {
	return &CategoryDetails{
		Category: category,
		Children: children,
	}
}

func NewUploadImageRes(path, url string) *UploadImageRes {
	return &UploadImageRes{
		Path: path,
		URL:  url,
	}
}

func NewWriteRawMessageReq(key, eventType string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       key,
		EventType: eventType,
		Payload:   payload,
	}
}

func NewWhatsAppOrderRes(summary *domain.OrderSummary, url string) *WhatsAppOrderRes {
	return &WhatsAppOrderRes{
		Summary: summary,
		Message: summary.Message(),
		URL:     url,
	}
}
