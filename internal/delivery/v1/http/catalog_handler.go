package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Каталог товаров
//	@Description	Поиск и фильтрация товаров. Некорректные параметры не отклоняются, а приводятся к допустимым значениям.
//	@Tags			catalog
//	@Produce		json
//	@Param			q			query		string	false	"Поиск по названию и описанию"
//	@Param			category	query		string	false	"Категория, включая ее подкатегории"
//	@Param			sub			query		string	false	"Подкатегория, важнее category"
//	@Param			print		query		string	false	"color или bw"
//	@Param			limit		query		int		false	"Размер страницы, 1..120"	default(60)
//	@Param			offset		query		int		false	"Смещение"					default(0)
//	@Success		200			{object}	ProductsListResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/products [get]
func (c *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := domain.NewFilterQuery(domain.RawFilterQuery{
		Q:        query.Get("q"),
		Category: query.Get("category"),
		Sub:      query.Get("sub"),
		Print:    query.Get("print"),
		Limit:    query.Get("limit"),
		Offset:   query.Get("offset"),
	})

	res, err := c.catalogUsecase.Search(r.Context(), q)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductsListResponse(res))
}

// health
//
//	@Summary		Проверка подключения к базе
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/health [get]
func (c *CatalogHandler) health(w http.ResponseWriter, r *http.Request) {
	count, err := c.catalogUsecase.Health(r.Context())
	if err != nil {
		c.logger.Errorf(err, "health check failed")
		_, msg := ToHTTPResponse(err)
		res := NewErrorResponse(msg)
		res.Hint = "Check that the POSTGRES_* variables are set correctly in .env"
		WriteSuccess(w, http.StatusInternalServerError, res)
		return
	}

	WriteSuccess(w, http.StatusOK, HealthResponse{
		Success: true,
		Message: "Database connection successful",
		Checks: HealthChecks{
			Database:      true,
			ProductsCount: count,
		},
	})
}
