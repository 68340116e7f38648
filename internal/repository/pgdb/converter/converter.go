package converter

import (
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
)

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) *domain.Category
	ToEntityWithCounts(model *CategoryWithCountsModel) *domain.CategoryWithCounts
}

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToCatalogEntity(model *CatalogProductModel) *domain.CatalogProduct
}

// ShopSettingsConverter преобразует настройки магазина между domain и моделью PostgreSQL.
type ShopSettingsConverter interface {
	ToModel(entity *domain.ShopSettings) *ShopSettingsModel
	ToEntity(model *ShopSettingsModel) *domain.ShopSettings
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type CategoryConverterImpl struct{}

func (CategoryConverterImpl) ToModel(entity *domain.Category) *CategoryModel {
	if entity == nil {
		return nil
	}

	return &CategoryModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		ImageURL:    entity.ImageURL,
		ParentID:    entity.ParentID,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (CategoryConverterImpl) ToEntity(model *CategoryModel) *domain.Category {
	if model == nil {
		return nil
	}

	return &domain.Category{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		ImageURL:    model.ImageURL,
		ParentID:    model.ParentID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func (c CategoryConverterImpl) ToEntityWithCounts(model *CategoryWithCountsModel) *domain.CategoryWithCounts {
	if model == nil {
		return nil
	}

	return &domain.CategoryWithCounts{
		Category: *c.ToEntity(&model.CategoryModel),
		Counts: domain.CategoryCounts{
			Children: model.ChildrenCount,
			Products: model.ProductsCount,
		},
	}
}

type ProductConverterImpl struct{}

func (ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		ImageURL:    entity.ImageURL,
		CategoryID:  entity.CategoryID,
		ColorPrice:  entity.ColorPrice,
		BWPrice:     entity.BWPrice,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		ImageURL:    model.ImageURL,
		CategoryID:  model.CategoryID,
		ColorPrice:  model.ColorPrice,
		BWPrice:     model.BWPrice,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func (p ProductConverterImpl) ToCatalogEntity(model *CatalogProductModel) *domain.CatalogProduct {
	if model == nil {
		return nil
	}

	return &domain.CatalogProduct{
		Product: *p.ToEntity(&model.ProductModel),
		Category: domain.CategoryRef{
			ID:   model.CategoryID,
			Name: model.CategoryName,
		},
	}
}

type ShopSettingsConverterImpl struct{}

func (ShopSettingsConverterImpl) ToModel(entity *domain.ShopSettings) *ShopSettingsModel {
	if entity == nil {
		return nil
	}

	return &ShopSettingsModel{
		ID:        entity.ID,
		ShopName:  entity.ShopName,
		Tagline:   entity.Tagline,
		Phone:     entity.Phone,
		Address:   entity.Address,
		Email:     entity.Email,
		Website:   entity.Website,
		UpdatedAt: entity.UpdatedAt,
	}
}

func (ShopSettingsConverterImpl) ToEntity(model *ShopSettingsModel) *domain.ShopSettings {
	if model == nil {
		return nil
	}

	return &domain.ShopSettings{
		ID:        model.ID,
		ShopName:  model.ShopName,
		Tagline:   model.Tagline,
		Phone:     model.Phone,
		Address:   model.Address,
		Email:     model.Email,
		Website:   model.Website,
		UpdatedAt: model.UpdatedAt,
	}
}

type OutboxEventConverterImpl struct{}

func (OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}

	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}

	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (o OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	res := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		res = append(res, o.ToEntity(m))
	}

	return res
}
