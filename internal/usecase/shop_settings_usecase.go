package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

// ShopSettingsUseCase управляет единственной записью настроек магазина.
type ShopSettingsUseCase struct {
	settingsRepo ShopSettingsRepository
	outboxRepo   OutboxRepository
	txManager    TxManager
	logger       logger.Logger
}

func NewShopSettingsUC(
	settingsRepo ShopSettingsRepository,
	outboxRepo OutboxRepository,
	txManager TxManager,
	logger logger.Logger,
) *ShopSettingsUseCase {
	return &ShopSettingsUseCase{
		settingsRepo: settingsRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get возвращает настройки или nil, если они еще не сохранялись.
func (s *ShopSettingsUseCase) Get(ctx context.Context) (*domain.ShopSettings, error) {
	const op = "ShopSettingsUseCase.Get"

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return settings, nil
}

// Update перезаписывает настройки целиком. Пустые поля сохраняются как NULL.
func (s *ShopSettingsUseCase) Update(ctx context.Context, req *UpdateShopSettingsReq) (*domain.ShopSettings, error) {
	const op = "ShopSettingsUseCase.Update"

	settings := domain.NewShopSettings(
		strings.TrimSpace(req.ShopName),
		blankToNil(req.Tagline),
		blankToNil(req.Phone),
		blankToNil(req.Address),
		blankToNil(req.Email),
		blankToNil(req.Website),
	)

	var saved *domain.ShopSettings
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.settingsRepo.Upsert(ctx, settings)
		if err != nil {
			return err
		}

		return publish(ctx, s.outboxRepo, SettingsUpdated, saved.ID, map[string]string{"shopName": saved.ShopName})
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return saved, nil
}

func blankToNil(s string) *string {
	return trimmedOrNil(&s)
}
