package usecase

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

// CatalogUseCase реализует выдачу каталога витрины.
type CatalogUseCase struct {
	catalogRepo  CatalogRepository
	categoryRepo CategoryRepository
	txManager    TxManager
	snapshot     trm.Settings
	logger       logger.Logger
}

// NewCatalogUC создает usecase каталога. snapshot — настройки read-only транзакции,
// в которой выполняются раскрытие категории, выборка страницы и подсчет.
func NewCatalogUC(
	catalogRepo CatalogRepository,
	categoryRepo CategoryRepository,
	txManager TxManager,
	snapshot trm.Settings,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		catalogRepo:  catalogRepo,
		categoryRepo: categoryRepo,
		txManager:    txManager,
		snapshot:     snapshot,
		logger:       logger,
	}
}

// Search возвращает страницу товаров, подходящих под фильтр, и их общее количество.
func (c *CatalogUseCase) Search(ctx context.Context, q domain.FilterQuery) (*SearchRes, error) {
	const op = "CatalogUseCase.Search"

	var res *SearchRes
	err := c.txManager.DoWithSettings(ctx, c.snapshot, func(ctx context.Context) error {
		// Раскрытие категории до прямых подкатегорий, подкатегория его отключает
		var ids []string
		if q.NeedsExpansion() {
			var err error
			ids, err = c.expandCategory(ctx, q.CategoryID)
			if err != nil {
				return err
			}
		}

		pred := domain.BuildPredicate(q, ids)

		items, total, err := c.catalogRepo.Search(ctx, pred, q.Limit, q.Offset)
		if err != nil {
			return err
		}

		res = NewSearchRes(items, total, q.Limit, q.Offset)
		return nil
	})
	if err != nil {
		c.logger.Errorf(err, "catalog search failed")
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

// Health проверяет доступность хранилища и возвращает число товаров.
func (c *CatalogUseCase) Health(ctx context.Context) (int, error) {
	const op = "CatalogUseCase.Health"

	count, err := c.catalogRepo.CountProducts(ctx)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	return count, nil
}

// expandCategory возвращает {id} и идентификаторы его прямых подкатегорий.
func (c *CatalogUseCase) expandCategory(ctx context.Context, id string) ([]string, error) {
	const op = "CatalogUseCase.expandCategory"

	children, err := c.categoryRepo.ChildIDs(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	ids := make([]string, 0, len(children)+1)
	ids = append(ids, id)
	ids = append(ids, children...)

	return ids, nil
}
