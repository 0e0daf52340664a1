package service

import (
	"context"

	"storefront-core/models"
)

// OrderServiceInterface defines the contract for reading orders and managing service orders
type OrderServiceInterface interface {
	ListOrders(ctx context.Context, userID string) (models.OrderListResponse, error)
	AddServiceOrder(ctx context.Context, userID string, order models.ServiceOrder) (*models.ServiceOrder, error)
	CancelServiceOrder(ctx context.Context, userID, id string) (*models.ServiceOrder, error)
}
