package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар. У каждого товара две независимые цены:
// цветная печать и черно-белая.
type Product struct {
	ID          string
	Name        string
	Description *string
	ImageURL    *string
	CategoryID  string
	ColorPrice  decimal.Decimal
	BWPrice     decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CatalogProduct — товар из выдачи каталога вместе с категорией.
type CatalogProduct struct {
	Product
	Category CategoryRef
}

func NewProduct(id, name, categoryID string, colorPrice, bwPrice decimal.Decimal, description, imageURL *string) *Product {
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		CategoryID:  categoryID,
		ColorPrice:  colorPrice,
		BWPrice:     bwPrice,
	}
}

// PriceOffered сообщает, доступен ли вариант печати.
// Нулевая цена означает, что вариант не продается, а не бесплатный товар.
func PriceOffered(price decimal.Decimal) bool {
	return price.GreaterThan(decimal.Zero)
}

// PriceFor возвращает цену товара для выбранного типа печати.
func (p *Product) PriceFor(print PrintType) (decimal.Decimal, bool) {
	switch print {
	case PrintColor:
		return p.ColorPrice, PriceOffered(p.ColorPrice)
	case PrintBW:
		return p.BWPrice, PriceOffered(p.BWPrice)
	default:
		return decimal.Zero, false
	}
}
