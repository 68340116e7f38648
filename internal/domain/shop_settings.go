package domain

import "time"

const (
	// ShopSettingsID — идентификатор единственной строки настроек.
	ShopSettingsID = "singleton"
	// DefaultShopName используется, пока администратор не задал название.
	DefaultShopName = "The Book Store"
)

// ShopSettings — публичные реквизиты магазина.
type ShopSettings struct {
	ID        string
	ShopName  string
	Tagline   *string
	Phone     *string
	Address   *string
	Email     *string
	Website   *string
	UpdatedAt time.Time
}

func NewShopSettings(shopName string, tagline, phone, address, email, website *string) *ShopSettings {
	if shopName == "" {
		shopName = DefaultShopName
	}

	return &ShopSettings{
		ID:       ShopSettingsID,
		ShopName: shopName,
		Tagline:  tagline,
		Phone:    phone,
		Address:  address,
		Email:    email,
		Website:  website,
	}
}
