package domain

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity — наибольшее количество одной позиции после объединения повторов.
const MaxLineQuantity = 9999

// OrderLine — позиция заказа с ценой, взятой из каталога.
type OrderLine struct {
	ProductID string
	Name      string
	Print     PrintType
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal — стоимость позиции.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderSummary — итог заказа для отправки в WhatsApp.
type OrderSummary struct {
	Lines []OrderLine
	Total decimal.Decimal
}

func NewOrderSummary(lines []OrderLine) *OrderSummary {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}

	return &OrderSummary{Lines: lines, Total: total}
}

// Message формирует текст заказа в формате витрины.
func (s *OrderSummary) Message() string {
	if len(s.Lines) == 0 {
		return "My cart is empty."
	}

	lines := make([]string, 0, len(s.Lines)+4)
	lines = append(lines, "My Order:", "")
	for _, l := range s.Lines {
		lines = append(lines, fmt.Sprintf("%s (%s) x%d = %s", l.Name, l.Print.Label(), l.Quantity, FormatPrice(l.Subtotal())))
	}
	lines = append(lines, "", "Total: "+FormatPrice(s.Total))

	return strings.Join(lines, "\n")
}

// WhatsAppURL возвращает ссылку wa.me с текстом заказа.
// Пустая строка, если в телефоне магазина нет ни одной цифры.
func (s *OrderSummary) WhatsAppURL(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}

	text := strings.ReplaceAll(url.QueryEscape(s.Message()), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + text
}

// FormatPrice форматирует цену как "Rs 12.50".
func FormatPrice(v decimal.Decimal) string {
	return "Rs " + v.StringFixed(2)
}
