package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `id, name, description, image_url, category_id, color_price, bw_price, created_at, updated_at`

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var model converter.ProductModel
	if err := scanProduct(tr.TxFromCtx(ctx, p.pool).QueryRow(ctx, query, id), &model); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// GetByIDs возвращает найденные товары. Отсутствующие идентификаторы пропускаются.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	rows, err := tr.TxFromCtx(ctx, p.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0, len(ids))
	for rows.Next() {
		var model converter.ProductModel
		if err := scanProduct(rows, &model); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *p.conv.ToEntity(&model))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (id, name, description, image_url, category_id, color_price, bw_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns

	row := tr.TxFromCtx(ctx, p.pool).QueryRow(ctx, query,
		model.ID, model.Name, model.Description, model.ImageURL, model.CategoryID, model.ColorPrice, model.BWPrice,
	)
	if err := scanProduct(row, model); err != nil {
		if foreignKeyConstraint(err) != "" {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUnknownCategory)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		UPDATE products
		SET name = $2, description = $3, image_url = $4, category_id = $5,
		    color_price = $6, bw_price = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns

	row := tr.TxFromCtx(ctx, p.pool).QueryRow(ctx, query,
		model.ID, model.Name, model.Description, model.ImageURL, model.CategoryID, model.ColorPrice, model.BWPrice,
	)
	if err := scanProduct(row, model); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		case foreignKeyConstraint(err) != "":
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUnknownCategory)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// Delete удаляет товар и возвращает удаленную запись.
func (p *ProductRepo) Delete(ctx context.Context, id string) (*domain.Product, error) {
	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns

	var model converter.ProductModel
	if err := scanProduct(tr.TxFromCtx(ctx, p.pool).QueryRow(ctx, query, id), &model); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

func scanProduct(row pgx.Row, model *converter.ProductModel) error {
	return row.Scan(
		&model.ID, &model.Name, &model.Description, &model.ImageURL, &model.CategoryID,
		&model.ColorPrice, &model.BWPrice, &model.CreatedAt, &model.UpdatedAt,
	)
}
