package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// ProductUseCase реализует администрирование товаров и загрузку изображений.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	txManager    TxManager
	imagesInfra  ImagesInfra
	logger       logger.Logger
	maxImageSize int64
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	txManager TxManager,
	imagesInfra ImagesInfra,
	logger logger.Logger,
	maxImageSize int64,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		imagesInfra:  imagesInfra,
		logger:       logger,
		maxImageSize: maxImageSize,
	}
}

// Create создает товар в существующей категории.
func (p *ProductUseCase) Create(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Create"

	// Валидация
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrNameRequired)
	}
	categoryID := strings.TrimSpace(req.CategoryID)
	if categoryID == "" {
		return nil, e.Wrap(op, e.ErrCategoryRequired)
	}
	if err := validatePrice(req.ColorPrice); err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := validatePrice(req.BWPrice); err != nil {
		return nil, e.Wrap(op, err)
	}

	var created *domain.Product
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		if err := p.ensureCategory(ctx, categoryID); err != nil {
			return err
		}

		product := domain.NewProduct(uuid.NewString(), name, categoryID, req.ColorPrice, req.BWPrice, req.Description, req.ImageURL)

		var err error
		created, err = p.productRepo.Create(ctx, product)
		if err != nil {
			return err
		}

		return publish(ctx, p.outboxRepo, ProductUpserted, created.ID, newProductEventData(created))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("product created: id=%s name=%q category=%s", created.ID, created.Name, created.CategoryID)
	return created, nil
}

// Update частично обновляет товар. Замененное изображение удаляется из хранилища в фоне.
func (p *ProductUseCase) Update(ctx context.Context, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Update"

	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, e.Wrap(op, e.ErrIDRequired)
	}
	for _, price := range []*decimal.Decimal{req.ColorPrice, req.BWPrice} {
		if price == nil {
			continue
		}
		if err := validatePrice(*price); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	var (
		updated  *domain.Product
		oldImage *string
	)
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := p.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		oldImage = product.ImageURL

		if req.Name != nil {
			if name := strings.TrimSpace(*req.Name); name != "" {
				product.Name = name
			}
		}
		if req.CategoryID != nil {
			if categoryID := strings.TrimSpace(*req.CategoryID); categoryID != "" {
				if err := p.ensureCategory(ctx, categoryID); err != nil {
					return err
				}
				product.CategoryID = categoryID
			}
		}
		if req.ColorPrice != nil {
			product.ColorPrice = *req.ColorPrice
		}
		if req.BWPrice != nil {
			product.BWPrice = *req.BWPrice
		}
		if req.Description != nil {
			product.Description = req.Description
		}
		if req.ImageURL != nil {
			product.ImageURL = req.ImageURL
		}

		updated, err = p.productRepo.Update(ctx, product)
		if err != nil {
			return err
		}

		return publish(ctx, p.outboxRepo, ProductUpserted, updated.ID, newProductEventData(updated))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление замененного изображения после коммита
	if oldImage != nil && *oldImage != "" && (updated.ImageURL == nil || *updated.ImageURL != *oldImage) {
		p.imagesInfra.CleanupImages([]string{*oldImage})
	}

	return updated, nil
}

// Delete удаляет товар и возвращает его последнее состояние.
func (p *ProductUseCase) Delete(ctx context.Context, id string) (*domain.Product, error) {
	const op = "ProductUseCase.Delete"

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, e.Wrap(op, e.ErrIDRequired)
	}

	var deleted *domain.Product
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = p.productRepo.Delete(ctx, id)
		if err != nil {
			return err
		}

		return publish(ctx, p.outboxRepo, ProductDeleted, id, nil)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if deleted.ImageURL != nil && *deleted.ImageURL != "" {
		p.imagesInfra.CleanupImages([]string{*deleted.ImageURL})
	}

	p.logger.Infof("product deleted: id=%s", id)
	return deleted, nil
}

// UploadImage проверяет изображение и сохраняет его в хранилище.
// Без явного path ключ строится как uploads/<unix ms>-<имя файла>.
func (p *ProductUseCase) UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error) {
	const op = "ProductUseCase.UploadImage"

	if len(req.Data) == 0 {
		return nil, e.Wrap(op, e.ErrFileRequired)
	}
	if req.Size > p.maxImageSize || int64(len(req.Data)) > p.maxImageSize {
		return nil, e.Wrap(op, e.ErrFileTooLarge)
	}
	if !domain.SupportedImageType(req.MimeType) {
		return nil, e.Wrap(op, fmt.Errorf("%w: %s", e.ErrUnsupportedMediaType, req.MimeType))
	}

	path := strings.TrimSpace(req.Path)
	if path == "" {
		path = fmt.Sprintf("uploads/%d-%s", time.Now().UnixMilli(), whitespaceRe.ReplaceAllString(req.Name, "-"))
	}

	res, err := p.imagesInfra.UploadImage(ctx, &UploadImageReq{
		Data:     req.Data,
		MimeType: req.MimeType,
		Size:     int64(len(req.Data)),
		Name:     req.Name,
		Path:     path,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

func (p *ProductUseCase) ensureCategory(ctx context.Context, id string) error {
	if _, err := p.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, e.ErrCategoryNotFound) {
			return e.ErrUnknownCategory
		}
		return err
	}

	return nil
}

// validatePrice допускает неотрицательные цены не более чем с двумя знаками после запятой.
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return e.ErrInvalidPrice
	}
	if !price.Equal(price.Truncate(2)) {
		return e.ErrPricePrecision
	}

	return nil
}

type productEventData struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	CategoryID string          `json:"categoryId"`
	ColorPrice decimal.Decimal `json:"colorPrice"`
	BWPrice    decimal.Decimal `json:"bwPrice"`
	ImageURL   *string         `json:"imageUrl"`
}

func newProductEventData(p *domain.Product) productEventData {
	return productEventData{
		ID:         p.ID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		ColorPrice: p.ColorPrice,
		BWPrice:    p.BWPrice,
		ImageURL:   p.ImageURL,
	}
}
