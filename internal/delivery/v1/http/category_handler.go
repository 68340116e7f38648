package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categoryUsecase usecase.CategoryUC
	logger          logger.Logger
}

func NewCategoryHandler(categoryUsecase usecase.CategoryUC, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUsecase: categoryUsecase, logger: logger}
}

// listCategories
//
//	@Summary		Список категорий
//	@Description	По умолчанию корневые категории. parentId — дети категории, all=true — все категории.
//	@Tags			categories
//	@Produce		json
//	@Param			all			query		bool	false	"Все категории плоским списком"
//	@Param			parentId	query		string	false	"Родительская категория"
//	@Success		200			{object}	DataResponse{data=[]CategoryResponse}
//	@Failure		500			{object}	ErrorResponse
//	@Router			/categories [get]
func (c *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &usecase.ListCategoriesReq{All: query.Get("all") == "true"}
	if query.Has("parentId") {
		parentID := query.Get("parentId")
		req.ParentID = &parentID
	}

	categories, err := c.categoryUsecase.List(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Success: true, Data: toCategoryListResponse(categories)})
}

// getCategory
//
//	@Summary		Категория с подкатегориями
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		string	true	"Идентификатор категории"
//	@Success		200	{object}	DataResponse{data=CategoryDetailsResponse}
//	@Failure		404	{object}	ErrorResponse
//	@Router			/categories/{id} [get]
func (c *CategoryHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	details, err := c.categoryUsecase.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Success: true, Data: toCategoryDetailsResponse(details)})
}

// createCategory
//
//	@Summary		Создание категории
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			body	body		createCategoryReq	true	"Категория"
//	@Success		201		{object}	DataResponse{data=CategoryResponse}
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/admin/categories [post]
func (c *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var body createCategoryReq
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	category, err := c.categoryUsecase.Create(r.Context(), &usecase.CreateCategoryReq{
		Name:        body.Name.String(),
		Description: body.Description.Value,
		ImageURL:    body.ImageURL.Value,
		ParentID:    body.ParentID.Value,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, DataResponse{Success: true, Data: toCategoryResponse(category)})
}

// updateCategory
//
//	@Summary		Изменение категории
//	@Description	Меняются только переданные поля. parentId: "" или null отвязывает от родителя.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			body	body		updateCategoryReq	true	"Изменения"
//	@Success		200		{object}	DataResponse{data=CategoryResponse}
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/admin/categories [put]
func (c *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var body updateCategoryReq
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	category, err := c.categoryUsecase.Update(r.Context(), &usecase.UpdateCategoryReq{
		ID:          body.ID.String(),
		Name:        body.Name.Value,
		Description: body.Description.Value,
		ImageURL:    body.ImageURL.Value,
		ParentSet:   body.ParentID.Set,
		ParentID:    body.ParentID.Value,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Success: true, Data: toCategoryResponse(category)})
}

// deleteCategory
//
//	@Summary		Удаление категории
//	@Description	Категорию с подкатегориями или товарами удалить нельзя.
//	@Tags			admin
//	@Produce		json
//	@Param			id	query		string	true	"Идентификатор категории"
//	@Success		200	{object}	SuccessResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/admin/categories [delete]
func (c *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := c.categoryUsecase.Delete(r.Context(), strings.TrimSpace(r.URL.Query().Get("id"))); err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, SuccessResponse{Success: true})
}
