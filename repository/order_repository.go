package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"storefront-core/models"
)

// Per-user order collections
const (
	ShopOrdersName    = "orders"
	ServiceOrdersName = "service_orders"
)

// OrderRepository stores shop orders and service (panel) orders, newest first
type OrderRepository struct {
	storage *UserStorage
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(storage *UserStorage) *OrderRepository {
	return &OrderRepository{storage: storage}
}

// Ensure OrderRepository implements OrderRepositoryInterface
var _ OrderRepositoryInterface = (*OrderRepository)(nil)

// ListShopOrders returns the user's shop orders
func (r *OrderRepository) ListShopOrders(ctx context.Context, userID string) ([]models.OrderRecord, error) {
	orders, err := LoadOr(ctx, r.storage, userID, ShopOrdersName, []models.OrderRecord{})
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.OrderRecord{}
	}
	return orders, nil
}

// PrependShopOrder stores a new order in front of the existing ones
func (r *OrderRepository) PrependShopOrder(ctx context.Context, userID string, order models.OrderRecord) error {
	unlock := r.storage.Lock(userID, ShopOrdersName)
	defer unlock()

	orders, err := r.ListShopOrders(ctx, userID)
	if err != nil {
		return err
	}

	log.Printf("🧾 PrependShopOrder: user=%s order=%s total=%.2f", userID, order.ID, order.Total)
	return r.storage.Save(ctx, userID, ShopOrdersName, append([]models.OrderRecord{order}, orders...))
}

// ListServiceOrders returns the user's service orders
func (r *OrderRepository) ListServiceOrders(ctx context.Context, userID string) ([]models.ServiceOrder, error) {
	orders, err := LoadOr(ctx, r.storage, userID, ServiceOrdersName, []models.ServiceOrder{})
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.ServiceOrder{}
	}
	return orders, nil
}

// AddServiceOrder stores a new service order, filling id, date and status when missing
func (r *OrderRepository) AddServiceOrder(ctx context.Context, userID string, order models.ServiceOrder) (*models.ServiceOrder, error) {
	if len(order.Items) == 0 {
		return nil, models.NewValidationError("items", "a service order needs at least one plan")
	}
	for _, item := range order.Items {
		if item.Qty <= 0 || item.Price < 0 {
			return nil, models.NewValidationError("items", "plan quantity must be positive and price must not be negative")
		}
	}

	if strings.TrimSpace(order.ID) == "" {
		order.ID = "SRV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	}
	if order.Date == "" {
		order.Date = nowFunc().UTC().Format(time.RFC3339)
	}
	if order.Status == "" {
		order.Status = models.ServiceStatusPreparing
	}

	unlock := r.storage.Lock(userID, ServiceOrdersName)
	defer unlock()

	orders, err := r.ListServiceOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.storage.Save(ctx, userID, ServiceOrdersName, append([]models.ServiceOrder{order}, orders...)); err != nil {
		return nil, err
	}

	log.Printf("🛠️  AddServiceOrder: user=%s order=%s", userID, order.ID)
	return &order, nil
}

// CancelServiceOrder flips the status of one service order to cancelled
func (r *OrderRepository) CancelServiceOrder(ctx context.Context, userID, id string) (*models.ServiceOrder, error) {
	unlock := r.storage.Lock(userID, ServiceOrdersName)
	defer unlock()

	orders, err := r.ListServiceOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		orders[i].Status = models.ServiceStatusCancelled
		if err := r.storage.Save(ctx, userID, ServiceOrdersName, orders); err != nil {
			return nil, err
		}
		log.Printf("🚫 CancelServiceOrder: user=%s order=%s", userID, id)
		cancelled := orders[i]
		return &cancelled, nil
	}
	return nil, ErrNotFound
}

// IsActiveServiceOrder reports whether a service order counts as a running package at now
func IsActiveServiceOrder(order models.ServiceOrder, now time.Time) bool {
	if order.Status == models.ServiceStatusCancelled {
		return false
	}
	if strings.TrimSpace(order.ActiveUntil) == "" {
		return true
	}
	until, err := time.Parse(time.RFC3339, order.ActiveUntil)
	if err != nil {
		until, err = time.Parse("2006-01-02", order.ActiveUntil)
		if err != nil {
			return true
		}
		until = until.Add(24 * time.Hour)
	}
	return until.After(now)
}
