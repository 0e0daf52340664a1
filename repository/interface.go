package repository

import (
	"context"
	"encoding/json"

	"storefront-core/models"
)

// CatalogRepositoryInterface defines the contract for catalog operations
type CatalogRepositoryInterface interface {
	EnsureSeeded(ctx context.Context) (bool, error)
	Reconcile(ctx context.Context) (models.ReconcileResult, error)
	List(ctx context.Context) ([]models.CatalogRecord, error)
	Get(ctx context.Context, id string) (*models.CatalogRecord, error)
	Add(ctx context.Context, input models.CatalogInput) (*models.CatalogRecord, error)
	Update(ctx context.Context, id string, input models.CatalogInput) (*models.CatalogRecord, error)
	Upsert(ctx context.Context, input models.CatalogInput) (*models.CatalogRecord, error)
	Remove(ctx context.Context, id string) error
	ExportJSON(ctx context.Context) (string, error)
	ImportJSON(ctx context.Context, text string) (int, error)
	ReplaceAll(ctx context.Context, items []json.RawMessage) (int, error)
	PurgeAll(ctx context.Context) error
}

// UserRepositoryInterface defines the contract for the user directory and session cache
type UserRepositoryInterface interface {
	LoadDirectory(ctx context.Context) ([]models.UserRecord, error)
	UpdateDirectory(ctx context.Context, fn func([]models.UserRecord) ([]models.UserRecord, error)) error
	FindByEmail(ctx context.Context, email string) (*models.UserRecord, error)
	GrantRole(ctx context.Context, email, role string, permissions []string) (*models.UserRecord, error)
	AuthEmail(ctx context.Context) (string, error)
	SetAuthEmail(ctx context.Context, email string) error
	LoadSession(ctx context.Context) (*models.SessionProfile, error)
	SaveSession(ctx context.Context, profile models.SessionProfile) error
	ClearSession(ctx context.Context) error
}

// OrderRepositoryInterface defines the contract for per-user order collections
type OrderRepositoryInterface interface {
	ListShopOrders(ctx context.Context, userID string) ([]models.OrderRecord, error)
	PrependShopOrder(ctx context.Context, userID string, order models.OrderRecord) error
	ListServiceOrders(ctx context.Context, userID string) ([]models.ServiceOrder, error)
	AddServiceOrder(ctx context.Context, userID string, order models.ServiceOrder) (*models.ServiceOrder, error)
	CancelServiceOrder(ctx context.Context, userID, id string) (*models.ServiceOrder, error)
}

// WalletRepositoryInterface defines the contract for saved cards
type WalletRepositoryInterface interface {
	Load(ctx context.Context, userID string) (models.CardStore, error)
	Add(ctx context.Context, userID string, card models.WalletCard) (models.CardStore, error)
	Remove(ctx context.Context, userID, id string) (models.CardStore, error)
	SetDefault(ctx context.Context, userID, id string) (models.CardStore, error)
	Find(ctx context.Context, userID, id string) (*models.WalletCard, error)
}

// RatingRepositoryInterface defines the contract for product ratings
type RatingRepositoryInterface interface {
	SetRating(ctx context.Context, userID, productID string, stars *float64) error
	GetUserRating(ctx context.Context, userID, productID string) (*int, error)
	GetAverage(ctx context.Context, productID string) (models.RatingSummary, error)
	GetAveragesBulk(ctx context.Context, productIDs []string) (map[string]models.RatingSummary, error)
}

// CartRepositoryInterface defines the contract for the active cart
type CartRepositoryInterface interface {
	Lock() func()
	Load(ctx context.Context) ([]models.CartItem, error)
	Save(ctx context.Context, items []models.CartItem) error
	Mutate(ctx context.Context, fn func([]models.CartItem) ([]models.CartItem, error)) ([]models.CartItem, error)
}

// FavoritesRepositoryInterface defines the contract for a user's favorites
type FavoritesRepositoryInterface interface {
	List(ctx context.Context, userID string) ([]models.FavoriteProduct, error)
	Add(ctx context.Context, userID string, product models.FavoriteProduct) ([]models.FavoriteProduct, error)
	Remove(ctx context.Context, userID, productID string) ([]models.FavoriteProduct, error)
	Toggle(ctx context.Context, userID string, product models.FavoriteProduct) (bool, error)
	IsFavorite(ctx context.Context, userID, productID string) (bool, error)
}
