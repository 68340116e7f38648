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

const shopSettingsColumns = `id, shop_name, tagline, phone, address, email, website, updated_at`

// ShopSettingsRepo хранит единственную строку настроек магазина.
type ShopSettingsRepo struct {
	pool *pgxpool.Pool
	conv converter.ShopSettingsConverter
}

func NewShopSettingsRepo(pool *pgxpool.Pool, conv converter.ShopSettingsConverter) *ShopSettingsRepo {
	return &ShopSettingsRepo{pool: pool, conv: conv}
}

// Get возвращает настройки или nil без ошибки, если строки еще нет.
func (s *ShopSettingsRepo) Get(ctx context.Context) (*domain.ShopSettings, error) {
	query := `SELECT ` + shopSettingsColumns + ` FROM shop_settings WHERE id = $1`

	var model converter.ShopSettingsModel
	if err := scanShopSettings(tr.TxFromCtx(ctx, s.pool).QueryRow(ctx, query, domain.ShopSettingsID), &model); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(&model), nil
}

func (s *ShopSettingsRepo) Upsert(ctx context.Context, settings *domain.ShopSettings) (*domain.ShopSettings, error) {
	model := s.conv.ToModel(settings)
	query := `
		INSERT INTO shop_settings (id, shop_name, tagline, phone, address, email, website)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			shop_name = EXCLUDED.shop_name,
			tagline = EXCLUDED.tagline,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			email = EXCLUDED.email,
			website = EXCLUDED.website,
			updated_at = now()
		RETURNING ` + shopSettingsColumns

	row := tr.TxFromCtx(ctx, s.pool).QueryRow(ctx, query,
		model.ID, model.ShopName, model.Tagline, model.Phone, model.Address, model.Email, model.Website,
	)
	if err := scanShopSettings(row, model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(model), nil
}

func scanShopSettings(row pgx.Row, model *converter.ShopSettingsModel) error {
	return row.Scan(
		&model.ID, &model.ShopName, &model.Tagline, &model.Phone, &model.Address,
		&model.Email, &model.Website, &model.UpdatedAt,
	)
}
