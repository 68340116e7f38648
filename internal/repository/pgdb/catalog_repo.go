package pgdb

import (
	"context"
	"strconv"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CatalogRepo выполняет запросы каталога витрины.
// Страница и количество читаются в транзакции из контекста, если она есть.
type CatalogRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewCatalogRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *CatalogRepo {
	return &CatalogRepo{pool: pool, conv: conv}
}

// Search возвращает страницу подходящих товаров (новые первыми) и их общее количество.
func (c *CatalogRepo) Search(ctx context.Context, pred domain.Predicate, limit, offset int) ([]domain.CatalogProduct, int, error) {
	where, args, err := compilePredicate(pred)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	tx := tr.TxFromCtx(ctx, c.pool)

	pageArgs := append(append([]any{}, args...), limit, offset)
	query := `
		SELECT p.id, p.name, p.description, p.image_url, p.category_id,
		       p.color_price, p.bw_price, p.created_at, p.updated_at, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		` + where + `
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)

	rows, err := tx.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	items := make([]domain.CatalogProduct, 0, limit)
	for rows.Next() {
		var model converter.CatalogProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Description, &model.ImageURL, &model.CategoryID,
			&model.ColorPrice, &model.BWPrice, &model.CreatedAt, &model.UpdatedAt, &model.CategoryName,
		); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}

		items = append(items, *c.conv.ToCatalogEntity(&model))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	var total int
	countQuery := `SELECT count(*) FROM products p ` + where
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return items, total, nil
}

// CountProducts возвращает общее число товаров. Используется в проверке здоровья.
func (c *CatalogRepo) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := tr.TxFromCtx(ctx, c.pool).QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
