package usecase

import (
	"context"
	"testing"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopSettings(t *testing.T) {
	store := newMemStore()
	outbox := &fakeOutbox{}
	uc := NewShopSettingsUC(fakeSettingsRepo{store}, outbox, &fakeTxManager{}, logger.NewNop())

	settings, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, settings, "nothing saved yet")

	saved, err := uc.Update(context.Background(), &UpdateShopSettingsReq{
		ShopName: "  ",
		Tagline:  "Prints for everyone",
		Phone:    " +94 77 000 1111 ",
		Email:    "   ",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultShopName, saved.ShopName)
	require.NotNil(t, saved.Phone)
	assert.Equal(t, "+94 77 000 1111", *saved.Phone)
	assert.Nil(t, saved.Email)
	assert.Nil(t, saved.Website)
	assert.Equal(t, []OutboxEventType{SettingsUpdated}, outbox.types())

	settings, err = uc.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, "Prints for everyone", *settings.Tagline)
}
