package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
)

// CategoryUseCase реализует чтение и администрирование дерева категорий.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	txManager    TxManager
	logger       logger.Logger
}

func NewCategoryUC(
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	txManager TxManager,
	logger logger.Logger,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// List возвращает категории по фильтру, отсортированные по имени.
func (c *CategoryUseCase) List(ctx context.Context, req *ListCategoriesReq) ([]domain.CategoryWithCounts, error) {
	const op = "CategoryUseCase.List"

	categories, err := c.categoryRepo.List(ctx, CategoryListFilter{All: req.All, ParentID: req.ParentID})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

// Get возвращает категорию вместе с ее подкатегориями.
func (c *CategoryUseCase) Get(ctx context.Context, id string) (*CategoryDetails, error) {
	const op = "CategoryUseCase.Get"

	id = domain.SanitizeID(id)
	if id == "" {
		return nil, e.Wrap(op, e.ErrCategoryNotFound)
	}

	category, err := c.categoryRepo.GetWithCounts(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	children, err := c.categoryRepo.List(ctx, CategoryListFilter{ParentID: &category.ID})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCategoryDetails(*category, children), nil
}

// Create создает категорию. Родитель, если задан, должен существовать.
func (c *CategoryUseCase) Create(ctx context.Context, req *CreateCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.Create"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrNameRequired)
	}
	parentID := trimmedOrNil(req.ParentID)

	var created *domain.Category
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		if parentID != nil {
			if err := c.ensureParent(ctx, *parentID); err != nil {
				return err
			}
		}

		var err error
		created, err = c.categoryRepo.Create(ctx, domain.NewCategory(uuid.NewString(), name, req.Description, req.ImageURL, parentID))
		if err != nil {
			return err
		}

		return publish(ctx, c.outboxRepo, CategoryUpserted, created.ID, newCategoryEventData(created))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.logger.Infof("category created: id=%s name=%q", created.ID, created.Name)
	return created, nil
}

// Update частично обновляет категорию. Пустой parentId отвязывает категорию от родителя.
func (c *CategoryUseCase) Update(ctx context.Context, req *UpdateCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.Update"

	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, e.Wrap(op, e.ErrIDRequired)
	}

	var parentID *string
	if req.ParentSet {
		parentID = trimmedOrNil(req.ParentID)
		if parentID != nil && *parentID == id {
			return nil, e.Wrap(op, e.ErrSelfParent)
		}
	}

	var updated *domain.Category
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		category, err := c.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			if name := strings.TrimSpace(*req.Name); name != "" {
				category.Name = name
			}
		}
		if req.Description != nil {
			category.Description = req.Description
		}
		if req.ImageURL != nil {
			category.ImageURL = req.ImageURL
		}
		if req.ParentSet {
			if parentID != nil {
				if err := c.ensureParent(ctx, *parentID); err != nil {
					return err
				}
			}
			category.ParentID = parentID
		}

		updated, err = c.categoryRepo.Update(ctx, category)
		if err != nil {
			return err
		}

		return publish(ctx, c.outboxRepo, CategoryUpserted, updated.ID, newCategoryEventData(updated))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

// Delete удаляет категорию без подкатегорий и товаров.
func (c *CategoryUseCase) Delete(ctx context.Context, id string) error {
	const op = "CategoryUseCase.Delete"

	id = strings.TrimSpace(id)
	if id == "" {
		return e.Wrap(op, e.ErrIDRequired)
	}

	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		category, err := c.categoryRepo.GetWithCounts(ctx, id)
		if err != nil {
			return err
		}

		if category.Counts.Children > 0 {
			return e.ErrCategoryHasChildren
		}
		if category.Counts.Products > 0 {
			return e.ErrCategoryHasProducts
		}

		if err := c.categoryRepo.Delete(ctx, id); err != nil {
			return err
		}

		return publish(ctx, c.outboxRepo, CategoryDeleted, id, nil)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	c.logger.Infof("category deleted: id=%s", id)
	return nil
}

func (c *CategoryUseCase) ensureParent(ctx context.Context, parentID string) error {
	if _, err := c.categoryRepo.GetByID(ctx, parentID); err != nil {
		if errors.Is(err, e.ErrCategoryNotFound) {
			return e.ErrParentNotFound
		}
		return err
	}

	return nil
}

// trimmedOrNil обрезает пробелы и превращает пустую строку в nil.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}

	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}

	return &v
}

type categoryEventData struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
	ImageURL *string `json:"imageUrl"`
}

func newCategoryEventData(c *domain.Category) categoryEventData {
	return categoryEventData{
		ID:       c.ID,
		Name:     c.Name,
		ParentID: c.ParentID,
		ImageURL: c.ImageURL,
	}
}
