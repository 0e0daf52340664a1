package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-core/models"
)

func TestWalletRepository_AddRemoveDefault(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestUserStorage()
	repo := NewWalletRepository(storage)

	wallet, err := repo.Add(ctx, "u1", models.WalletCard{ID: "c1", Brand: models.BrandVisa, Holder: "Ada", Last4: "1111"})
	require.NoError(t, err)
	require.NotNil(t, wallet.DefaultID)
	assert.Equal(t, "c1", *wallet.DefaultID)

	wallet, err = repo.Add(ctx, "u1", models.WalletCard{ID: "c2", Holder: "Ada", Last4: "2222"})
	require.NoError(t, err)
	assert.Equal(t, "c1", *wallet.DefaultID)
	assert.Equal(t, "c2", wallet.List[0].ID)

	wallet, err = repo.Remove(ctx, "u1", "c1")
	require.NoError(t, err)
	require.NotNil(t, wallet.DefaultID)
	assert.Equal(t, "c2", *wallet.DefaultID)

	wallet, err = repo.Remove(ctx, "u1", "c2")
	require.NoError(t, err)
	assert.Nil(t, wallet.DefaultID)
	assert.Empty(t, wallet.List)

	_, err = repo.Remove(ctx, "u1", "c2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWalletRepository_AddReplacesDuplicate(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestUserStorage()
	repo := NewWalletRepository(storage)

	_, err := repo.Add(ctx, "u1", models.WalletCard{ID: "old", Holder: "Ada", Last4: "1111", Expiry: "01/27"})
	require.NoError(t, err)

	wallet, err := repo.Add(ctx, "u1", models.WalletCard{Holder: " Ada ", Last4: "1111", Expiry: "02/28"})
	require.NoError(t, err)
	require.Len(t, wallet.List, 1)
	assert.Equal(t, "02/28", wallet.List[0].Expiry)
	assert.Contains(t, wallet.List[0].ID, "card_")
	assert.Equal(t, wallet.List[0].ID, *wallet.DefaultID)
}

func TestWalletRepository_SetDefault(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestUserStorage()
	repo := NewWalletRepository(storage)

	_, err := repo.Add(ctx, "u1", models.WalletCard{ID: "c1", Holder: "Ada", Last4: "1111"})
	require.NoError(t, err)
	_, err = repo.Add(ctx, "u1", models.WalletCard{ID: "c2", Holder: "Ada", Last4: "2222"})
	require.NoError(t, err)

	wallet, err := repo.SetDefault(ctx, "u1", "c2")
	require.NoError(t, err)
	assert.Equal(t, "c2", *wallet.DefaultID)

	_, err = repo.SetDefault(ctx, "u1", "nope")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestWalletRepository_DanglingDefaultIsCleared(t *testing.T) {
	ctx := context.Background()
	storage, store := newTestUserStorage()
	repo := NewWalletRepository(storage)

	require.NoError(t, store.Set(ctx, "nlk:u1:cards", `{"list":[{"id":"c1","last4":"1111"}],"defaultId":"gone"}`))

	wallet, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, wallet.DefaultID)
	assert.Len(t, wallet.List, 1)
}
