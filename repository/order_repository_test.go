package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-core/models"
)

func TestOrderRepository_ShopOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	storage, _ := newTestUserStorage()
	repo := NewOrderRepository(storage)

	require.NoError(t, repo.PrependShopOrder(ctx, "u1", models.OrderRecord{ID: "ORD-1", Total: 10}))
	require.NoError(t, repo.PrependShopOrder(ctx, "U1", models.OrderRecord{ID: "ORD-2", Total: 20}))

	orders, err := repo.ListShopOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-2", orders[0].ID)
	assert.Equal(t, "ORD-1", orders[1].ID)

	other, err := repo.ListShopOrders(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
	assert.NotNil(t, other)
}

func TestOrderRepository_ServiceOrders(t *testing.T) {
	freezeClock(t)
	ctx := context.Background()
	storage, _ := newTestUserStorage()
	repo := NewOrderRepository(storage)

	_, err := repo.AddServiceOrder(ctx, "u1", models.ServiceOrder{})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	order, err := repo.AddServiceOrder(ctx, "u1", models.ServiceOrder{
		Items: []models.ServiceOrderItem{{Plan: "Panel", Tier: "Silver", Term: "monthly", Qty: 1, Price: 1499}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.ServiceStatusPreparing, order.Status)
	assert.Equal(t, "2026-01-04T10:30:00Z", order.Date)

	cancelled, err := repo.CancelServiceOrder(ctx, "u1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ServiceStatusCancelled, cancelled.Status)

	orders, err := repo.ListServiceOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.ServiceStatusCancelled, orders[0].Status)

	_, err = repo.CancelServiceOrder(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsActiveServiceOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsActiveServiceOrder(models.ServiceOrder{Status: models.ServiceStatusPreparing}, now))
	assert.False(t, IsActiveServiceOrder(models.ServiceOrder{Status: models.ServiceStatusCancelled}, now))
	assert.True(t, IsActiveServiceOrder(models.ServiceOrder{Status: models.ServiceStatusDelivered, ActiveUntil: "2026-04-01T00:00:00Z"}, now))
	assert.False(t, IsActiveServiceOrder(models.ServiceOrder{Status: models.ServiceStatusDelivered, ActiveUntil: "2026-02-01T00:00:00Z"}, now))
	assert.True(t, IsActiveServiceOrder(models.ServiceOrder{Status: models.ServiceStatusDelivered, ActiveUntil: "2026-03-01"}, now))
}
