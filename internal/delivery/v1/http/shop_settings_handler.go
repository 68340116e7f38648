package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

type ShopSettingsHandler struct {
	settingsUsecase usecase.ShopSettingsUC
	logger          logger.Logger
}

func NewShopSettingsHandler(settingsUsecase usecase.ShopSettingsUC, logger logger.Logger) *ShopSettingsHandler {
	return &ShopSettingsHandler{settingsUsecase: settingsUsecase, logger: logger}
}

// getShopSettings
//
//	@Summary		Настройки магазина
//	@Description	data == null, пока настройки не сохранялись.
//	@Tags			shop-settings
//	@Produce		json
//	@Success		200	{object}	DataResponse{data=ShopSettingsResponse}
//	@Failure		500	{object}	ErrorResponse
//	@Router			/shop-settings [get]
func (s *ShopSettingsHandler) getShopSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsUsecase.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Success: true, Data: toShopSettingsResponse(settings)})
}

// updateShopSettings
//
//	@Summary		Сохранение настроек магазина
//	@Description	Пустые поля сохраняются как null, пустое название заменяется на "The Book Store".
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			body	body		shopSettingsReq	true	"Настройки"
//	@Success		200		{object}	DataResponse{data=ShopSettingsResponse}
//	@Failure		401		{object}	ErrorResponse
//	@Router			/admin/shop-settings [put]
func (s *ShopSettingsHandler) updateShopSettings(w http.ResponseWriter, r *http.Request) {
	var body shopSettingsReq
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	settings, err := s.settingsUsecase.Update(r.Context(), &usecase.UpdateShopSettingsReq{
		ShopName: body.ShopName.String(),
		Tagline:  body.Tagline.String(),
		Phone:    body.Phone.String(),
		Address:  body.Address.String(),
		Email:    body.Email.String(),
		Website:  body.Website.String(),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Success: true, Data: toShopSettingsResponse(settings)})
}
