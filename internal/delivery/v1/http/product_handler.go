package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
	maxImageSize   int64
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger, maxImageSize int64) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger, maxImageSize: maxImageSize}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Цены передаются числом или строкой, не более двух знаков после запятой. Нулевая цена означает, что вариант печати не продается.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			body	body		productReq	true	"Товар"
//	@Success		201		{object}	DataResponse{data=ProductResponse}
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		401		{object}	ErrorResponse
//	@Router			/admin/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body productReq
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	colorPrice, err := requiredPrice(body.ColorPrice)
	if err != nil {
		p.logger.Warnf("%d %s: colorPrice: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}
	bwPrice, err := requiredPrice(body.BWPrice)
	if err != nil {
		p.logger.Warnf("%d %s: bwPrice: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.Create(r.Context(), &usecase.CreateProductReq{
		Name:        body.Name.String(),
		CategoryID:  body.CategoryID.String(),
		ColorPrice:  colorPrice,
		BWPrice:     bwPrice,
		Description: body.Description.Value,
		ImageURL:    body.ImageURL.Value,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, DataResponse{Success: true, Data: toProductResponse(product)})
}

// updateProduct
//
//	@Summary		Изменение товара
//	@Description	Меняются только переданные поля.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			body	body		productReq	true	"Изменения"
//	@Success		200		{object}	DataResponse{data=ProductResponse}
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/admin/products [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var body productReq
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	colorPrice, err := parsePrice(body.ColorPrice)
	if err != nil {
		WriteError(w, err)
		return
	}
	bwPrice, err := parsePrice(body.BWPrice)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.Update(r.Context(), &usecase.UpdateProductReq{
		ID:          body.ID.String(),
		Name:        body.Name.Value,
		CategoryID:  body.CategoryID.Value,
		ColorPrice:  colorPrice,
		BWPrice:     bwPrice,
		Description: body.Description.Value,
		ImageURL:    body.ImageURL.Value,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Success: true, Data: toProductResponse(product)})
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Tags			admin
//	@Produce		json
//	@Param			id	query		string	true	"Идентификатор товара"
//	@Success		200	{object}	DataResponse{data=ProductResponse}
//	@Failure		404	{object}	ErrorResponse
//	@Router			/admin/products [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := p.productUsecase.Delete(r.Context(), strings.TrimSpace(r.URL.Query().Get("id")))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Success: true, Data: toProductResponse(product)})
}

// uploadImage
//
//	@Summary		Загрузка изображения товара
//	@Description	jpeg, png, webp или gif, не больше 5MB.
//	@Tags			admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Изображение"
//	@Param			path	formData	string	false	"Ключ объекта в бакете"
//	@Success		200		{object}	UploadResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/admin/products/upload [post]
func (p *ProductHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 8 << 20

	// Запас на заголовки multipart и поле path
	r.Body = http.MaxBytesReader(w, r.Body, p.maxImageSize+1<<20)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		WriteError(w, e.ErrFileRequired)
		return
	}

	data, mimeType, err := readFile(files[0], p.maxImageSize)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.UploadImage(r.Context(), &usecase.UploadImageReq{
		Data:     data,
		MimeType: mimeType,
		Size:     int64(len(data)),
		Name:     files[0].Filename,
		Path:     r.FormValue("path"),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, UploadResponse{Success: true, URL: res.URL, Path: res.Path})
}

func requiredPrice(raw []byte) (decimal.Decimal, error) {
	price, err := parsePrice(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if price == nil {
		return decimal.Zero, e.ErrInvalidPrice
	}

	return *price, nil
}
