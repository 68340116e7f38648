package pgdb

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const categoryWithCountsColumns = `
	c.id, c.name, c.description, c.image_url, c.parent_id, c.created_at, c.updated_at,
	(SELECT count(*) FROM categories ch WHERE ch.parent_id = c.id) AS children_count,
	(SELECT count(*) FROM products p WHERE p.category_id = c.id) AS products_count
`

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

// ChildIDs возвращает идентификаторы прямых подкатегорий.
func (c *CategoryRepo) ChildIDs(ctx context.Context, parentID string) ([]string, error) {
	rows, err := tr.TxFromCtx(ctx, c.pool).Query(ctx, `SELECT id FROM categories WHERE parent_id = $1`, parentID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return ids, nil
}

func (c *CategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `
		SELECT id, name, description, image_url, parent_id, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	var model converter.CategoryModel
	if err := scanCategory(tr.TxFromCtx(ctx, c.pool).QueryRow(ctx, query, id), &model); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

// GetWithCounts возвращает категорию с количеством подкатегорий и товаров.
func (c *CategoryRepo) GetWithCounts(ctx context.Context, id string) (*domain.CategoryWithCounts, error) {
	query := `SELECT ` + categoryWithCountsColumns + ` FROM categories c WHERE c.id = $1`

	var model converter.CategoryWithCountsModel
	if err := scanCategoryWithCounts(tr.TxFromCtx(ctx, c.pool).QueryRow(ctx, query, id), &model); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntityWithCounts(&model), nil
}

// List возвращает категории, отсортированные по имени: все, дети родителя или корневые.
func (c *CategoryRepo) List(ctx context.Context, filter usecase.CategoryListFilter) ([]domain.CategoryWithCounts, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + categoryWithCountsColumns + ` FROM categories c`)
	switch {
	case filter.All:
	case filter.ParentID != nil:
		sb.WriteString(` WHERE c.parent_id = $1`)
		args = append(args, *filter.ParentID)
	default:
		sb.WriteString(` WHERE c.parent_id IS NULL`)
	}
	sb.WriteString(` ORDER BY c.name ASC, c.id ASC`)

	rows, err := tr.TxFromCtx(ctx, c.pool).Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.CategoryWithCounts, 0)
	for rows.Next() {
		var model converter.CategoryWithCountsModel
		if err := scanCategoryWithCounts(rows, &model); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *c.conv.ToEntityWithCounts(&model))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	model := c.conv.ToModel(category)
	query := `
		INSERT INTO categories (id, name, description, image_url, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, image_url, parent_id, created_at, updated_at
	`

	row := tr.TxFromCtx(ctx, c.pool).QueryRow(ctx, query,
		model.ID, model.Name, model.Description, model.ImageURL, model.ParentID,
	)
	if err := scanCategory(row, model); err != nil {
		if foreignKeyConstraint(err) != "" {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrParentNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(model), nil
}

// Update перезаписывает изменяемые поля категории. Последняя запись побеждает.
func (c *CategoryRepo) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	model := c.conv.ToModel(category)
	query := `
		UPDATE categories
		SET name = $2, description = $3, image_url = $4, parent_id = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, image_url, parent_id, created_at, updated_at
	`

	row := tr.TxFromCtx(ctx, c.pool).QueryRow(ctx, query,
		model.ID, model.Name, model.Description, model.ImageURL, model.ParentID,
	)
	if err := scanCategory(row, model); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		case foreignKeyConstraint(err) != "":
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrParentNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(model), nil
}

func (c *CategoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := tr.TxFromCtx(ctx, c.pool).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		// Подкатегория или товар появились между проверкой и удалением
		if constraint := foreignKeyConstraint(err); constraint != "" {
			if strings.HasPrefix(constraint, "products_") {
				return e.Wrap(whereami.WhereAmI(), e.ErrCategoryHasProducts)
			}
			return e.Wrap(whereami.WhereAmI(), e.ErrCategoryHasChildren)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
	}

	return nil
}

func scanCategory(row pgx.Row, model *converter.CategoryModel) error {
	return row.Scan(
		&model.ID, &model.Name, &model.Description, &model.ImageURL, &model.ParentID,
		&model.CreatedAt, &model.UpdatedAt,
	)
}

func scanCategoryWithCounts(row pgx.Row, model *converter.CategoryWithCountsModel) error {
	return row.Scan(
		&model.ID, &model.Name, &model.Description, &model.ImageURL, &model.ParentID,
		&model.CreatedAt, &model.UpdatedAt, &model.ChildrenCount, &model.ProductsCount,
	)
}
