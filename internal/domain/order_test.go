package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderSummary_Message(t *testing.T) {
	summary := NewOrderSummary([]OrderLine{
		{ProductID: "p1", Name: "Notebook", Print: PrintColor, Quantity: 2, UnitPrice: decimal.RequireFromString("10.50")},
		{ProductID: "p2", Name: "Poster", Print: PrintBW, Quantity: 1, UnitPrice: decimal.RequireFromString("5")},
	})

	assert.True(t, summary.Total.Equal(decimal.RequireFromString("26")))
	assert.Equal(t,
		"My Order:\n\nNotebook (Color) x2 = Rs 21.00\nPoster (B/W) x1 = Rs 5.00\n\nTotal: Rs 26.00",
		summary.Message(),
	)
}

func TestOrderSummary_EmptyMessage(t *testing.T) {
	summary := NewOrderSummary(nil)

	assert.True(t, summary.Total.IsZero())
	assert.Equal(t, "My cart is empty.", summary.Message())
}

func TestOrderSummary_WhatsAppURL(t *testing.T) {
	summary := NewOrderSummary([]OrderLine{
		{ProductID: "p1", Name: "Pen", Print: PrintColor, Quantity: 1, UnitPrice: decimal.NewFromInt(3)},
	})

	url := summary.WhatsAppURL("+94 (77) 123-4567")

	assert.True(t, strings.HasPrefix(url, "https://wa.me/94771234567?text=My%20Order%3A%0A%0APen%20"), url)
	assert.NotContains(t, url, "+")
	assert.Empty(t, summary.WhatsAppURL(""))
	assert.Empty(t, summary.WhatsAppURL("call us"))
}

func TestProduct_PriceFor(t *testing.T) {
	p := NewProduct("p1", "Pen", "c1", decimal.NewFromInt(10), decimal.Zero, nil, nil)

	price, ok := p.PriceFor(PrintColor)
	assert.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(10)))

	_, ok = p.PriceFor(PrintBW)
	assert.False(t, ok, "zero price means the variant is not offered")

	_, ok = p.PriceFor(PrintAny)
	assert.False(t, ok)
}

func TestCategoryCounts_Deletable(t *testing.T) {
	assert.True(t, CategoryCounts{}.Deletable())
	assert.False(t, CategoryCounts{Children: 1}.Deletable())
	assert.False(t, CategoryCounts{Products: 2}.Deletable())
}

func TestNewShopSettings_DefaultName(t *testing.T) {
	s := NewShopSettings("", nil, nil, nil, nil, nil)

	assert.Equal(t, DefaultShopName, s.ShopName)
	assert.Equal(t, ShopSettingsID, s.ID)
}

func TestSupportedImageType(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/png", "image/webp", "image/gif"} {
		assert.True(t, SupportedImageType(mime), mime)
	}
	assert.False(t, SupportedImageType("image/svg+xml"))
	assert.False(t, SupportedImageType("application/pdf"))
}

func TestImageExtension(t *testing.T) {
	tests := map[string]string{
		"image/jpeg": "jpg",
		"image/jpg":  "jpg",
		"image/png":  "png",
		"image/webp": "webp",
		"image/gif":  "gif",
	}
	for mime, want := range tests {
		ext, ok := ImageExtension(mime)
		assert.True(t, ok, mime)
		assert.Equal(t, want, ext, mime)
	}

	_, ok := ImageExtension("text/plain; charset=utf-8")
	assert.False(t, ok)
}
