package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

// OrderUseCase формирует текст заказа для отправки в WhatsApp.
// Цены берутся из каталога, клиентским значениям не доверяем.
type OrderUseCase struct {
	productRepo  ProductRepository
	settingsRepo ShopSettingsRepository
	logger       logger.Logger
}

func NewOrderUC(productRepo ProductRepository, settingsRepo ShopSettingsRepository, logger logger.Logger) *OrderUseCase {
	return &OrderUseCase{
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

type lineKey struct {
	productID string
	print     domain.PrintType
}

// WhatsAppSummary считает итог заказа и строит ссылку wa.me на телефон магазина.
// Повторяющиеся позиции (товар и тип печати) объединяются с суммированием количества.
func (o *OrderUseCase) WhatsAppSummary(ctx context.Context, req *WhatsAppOrderReq) (*WhatsAppOrderRes, error) {
	const op = "OrderUseCase.WhatsAppSummary"

	if len(req.Items) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyOrder)
	}

	// Валидация и объединение позиций с сохранением порядка
	order := make([]lineKey, 0, len(req.Items))
	quantities := make(map[lineKey]int, len(req.Items))
	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		id := strings.TrimSpace(item.ProductID)
		if id == "" {
			return nil, e.Wrap(op, e.ErrIDRequired)
		}
		printType := domain.ParsePrintType(item.Print)
		if printType == domain.PrintAny {
			return nil, e.Wrap(op, e.ErrInvalidPrintType)
		}
		if item.Quantity <= 0 {
			return nil, e.Wrap(op, e.ErrInvalidQuantity)
		}

		key := lineKey{productID: id, print: printType}
		if _, ok := quantities[key]; !ok {
			order = append(order, key)
			ids = append(ids, id)
		}
		// Каждое слагаемое и сумма не больше MaxLineQuantity, поэтому int не переполняется
		if item.Quantity > domain.MaxLineQuantity || quantities[key] > domain.MaxLineQuantity-item.Quantity {
			return nil, e.Wrap(op, fmt.Errorf("%w: %s (%s) max %d", e.ErrQuantityTooLarge, id, printType.Label(), domain.MaxLineQuantity))
		}
		quantities[key] += item.Quantity
	}

	products, err := o.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]domain.OrderLine, 0, len(order))
	for _, key := range order {
		product, ok := byID[key.productID]
		if !ok {
			return nil, e.Wrap(op, fmt.Errorf("%w: %s", e.ErrOrderProductNotFound, key.productID))
		}

		price, offered := product.PriceFor(key.print)
		if !offered {
			return nil, e.Wrap(op, fmt.Errorf("%w: %s (%s)", e.ErrVariantNotOffered, product.Name, key.print.Label()))
		}

		lines = append(lines, domain.OrderLine{
			ProductID: product.ID,
			Name:      product.Name,
			Print:     key.print,
			Quantity:  quantities[key],
			UnitPrice: price,
		})
	}

	summary := domain.NewOrderSummary(lines)

	settings, err := o.settingsRepo.Get(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	var phone string
	if settings != nil && settings.Phone != nil {
		phone = *settings.Phone
	}

	return NewWhatsAppOrderRes(summary, summary.WhatsAppURL(phone)), nil
}
