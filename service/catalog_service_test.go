package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-core/kvstore"
	"storefront-core/models"
	"storefront-core/repository"
)

func TestCatalogService_Startup(t *testing.T) {
	ctx := context.Background()
	builtIns, err := repository.BuiltInCatalog()
	require.NoError(t, err)

	repo := repository.NewCatalogRepository(kvstore.NewMemoryStore(), kvstore.NewKeyedMutex(), builtIns, false)
	svc := NewCatalogService(repo)

	result, err := svc.Startup(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(builtIns), result.Inserted)
	assert.Equal(t, len(builtIns), result.Total)

	result, err = svc.Startup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, len(builtIns), result.Merged)

	title := "My Basic"
	_, err = svc.Update(ctx, "basic", models.CatalogInput{Title: &title})
	require.NoError(t, err)
	_, err = svc.Startup(ctx)
	require.NoError(t, err)

	rec, err := svc.Get(ctx, "basic")
	require.NoError(t, err)
	assert.Equal(t, "My Basic", rec.Title)
	assert.True(t, rec.BuiltIn)
}

func TestCatalogService_StartupStorageError(t *testing.T) {
	store := &flakyStore{MemoryStore: kvstore.NewMemoryStore()}
	store.failWrites.Store(true)
	repo := repository.NewCatalogRepository(store, kvstore.NewKeyedMutex(), nil, false)

	_, err := NewCatalogService(repo).Startup(context.Background())
	assert.ErrorIs(t, err, kvstore.ErrStorageUnavailable)
}
