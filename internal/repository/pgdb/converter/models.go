package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	ImageURL    *string   `db:"image_url"`
	ParentID    *string   `db:"parent_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// CategoryWithCountsModel — категория вместе с подсчитанными подкатегориями и товарами.
type CategoryWithCountsModel struct {
	CategoryModel
	ChildrenCount int `db:"children_count"`
	ProductsCount int `db:"products_count"`
}

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description *string         `db:"description"`
	ImageURL    *string         `db:"image_url"`
	CategoryID  string          `db:"category_id"`
	ColorPrice  decimal.Decimal `db:"color_price"`
	BWPrice     decimal.Decimal `db:"bw_price"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// CatalogProductModel — строка выдачи каталога: товар и имя его категории.
type CatalogProductModel struct {
	ProductModel
	CategoryName string `db:"category_name"`
}

// ShopSettingsModel представляет запись таблицы shop_settings в PostgreSQL.
type ShopSettingsModel struct {
	ID        string    `db:"id"`
	ShopName  string    `db:"shop_name"`
	Tagline   *string   `db:"tagline"`
	Phone     *string   `db:"phone"`
	Address   *string   `db:"address"`
	Email     *string   `db:"email"`
	Website   *string   `db:"website"`
	UpdatedAt time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
