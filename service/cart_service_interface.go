package service

import (
	"context"

	"storefront-core/models"
)

// CartServiceInterface defines the contract for the active cart and checkout
type CartServiceInterface interface {
	Items(ctx context.Context) (models.CartResponse, error)
	Add(ctx context.Context, req models.AddCartItemRequest) (models.CartResponse, error)
	AddMany(ctx context.Context, reqs []models.AddCartItemRequest) (models.CartResponse, error)
	Increment(ctx context.Context, id string) (models.CartResponse, error)
	Decrement(ctx context.Context, id string) (models.CartResponse, error)
	Remove(ctx context.Context, id string) (models.CartResponse, error)
	Clear(ctx context.Context) (models.CartResponse, error)
	// Checkout turns the cart into a paid order. A validation failure leaves the cart and orders untouched.
	Checkout(ctx context.Context, payment models.PaymentSelection) (*models.OrderRecord, error)
}

// ProfileProvider is the part of the profile owner checkout needs
type ProfileProvider interface {
	Current() models.SessionProfile
	UserID() string
	AddOrder(amount float64)
	RecomputeStatistics(ctx context.Context) (models.UserStats, error)
}
