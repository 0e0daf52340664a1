package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"storefront-core/models"
	"storefront-core/repository"
	"storefront-core/utils"
)

// OrderService reads order history and keeps statistics in step with service order changes
type OrderService struct {
	orders  repository.OrderRepositoryInterface
	profile ProfileProvider
}

// NewOrderService creates a new OrderService
func NewOrderService(orders repository.OrderRepositoryInterface, profile ProfileProvider) *OrderService {
	return &OrderService{orders: orders, profile: profile}
}

// Ensure OrderService implements OrderServiceInterface
var _ OrderServiceInterface = (*OrderService)(nil)

// ListOrders returns both order collections of a user, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID string) (models.OrderListResponse, error) {
	shop, err := s.orders.ListShopOrders(ctx, userID)
	if err != nil {
		return models.OrderListResponse{}, err
	}
	service, err := s.orders.ListServiceOrders(ctx, userID)
	if err != nil {
		return models.OrderListResponse{}, err
	}
	return models.OrderListResponse{Orders: shop, ServiceOrders: service}, nil
}

// AddServiceOrder stores a panel order and refreshes statistics
func (s *OrderService) AddServiceOrder(ctx context.Context, userID string, order models.ServiceOrder) (*models.ServiceOrder, error) {
	created, err := s.orders.AddServiceOrder(ctx, userID, order)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, userID)
	return created, nil
}

// CancelServiceOrder flips a panel order to cancelled and refreshes statistics
func (s *OrderService) CancelServiceOrder(ctx context.Context, userID, id string) (*models.ServiceOrder, error) {
	cancelled, err := s.orders.CancelServiceOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, userID)
	return cancelled, nil
}

// refresh recomputes statistics when the orders belong to the signed-in user
func (s *OrderService) refresh(ctx context.Context, userID string) {
	if utils.NormalizeUserID(userID) != s.profile.UserID() {
		return
	}
	if _, err := s.profile.RecomputeStatistics(ctx); err != nil {
		log.Errorf("❌ RecomputeStatistics after service order change failed: %v", err)
	}
}
