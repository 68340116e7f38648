package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// whatsAppOrder
//
//	@Summary		Заказ через WhatsApp
//	@Description	Считает заказ по ценам каталога и возвращает текст сообщения и ссылку wa.me на телефон магазина.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			body	body		whatsAppOrderReq	true	"Позиции заказа"
//	@Success		200		{object}	DataResponse{data=WhatsAppOrderResponse}
//	@Failure		400		{object}	ErrorResponse
//	@Router			/orders/whatsapp [post]
func (o *OrderHandler) whatsAppOrder(w http.ResponseWriter, r *http.Request) {
	var body whatsAppOrderReq
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	items := make([]usecase.OrderItemReq, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, usecase.OrderItemReq{
			ProductID: item.ProductID,
			Print:     item.Print,
			Quantity:  item.Quantity,
		})
	}

	res, err := o.orderUsecase.WhatsAppSummary(r.Context(), &usecase.WhatsAppOrderReq{Items: items})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Success: true, Data: WhatsAppOrderResponse{
		Message: res.Message,
		Total:   res.Summary.Total.InexactFloat64(),
		URL:     res.URL,
	}})
}
