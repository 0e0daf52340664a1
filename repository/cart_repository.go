package repository

import (
	"context"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"storefront-core/kvstore"
	"storefront-core/models"
)

// CartKey holds the single active cart
const CartKey = "@cart_items"

// CartRepository persists the whole cart on every change
type CartRepository struct {
	store kvstore.Store
	locks *kvstore.KeyedMutex
}

// NewCartRepository creates a new CartRepository
func NewCartRepository(store kvstore.Store, locks *kvstore.KeyedMutex) *CartRepository {
	return &CartRepository{store: store, locks: locks}
}

// Ensure CartRepository implements CartRepositoryInterface
var _ CartRepositoryInterface = (*CartRepository)(nil)

// Lock holds the cart key. Callers that hold it use Load and Save directly.
func (r *CartRepository) Lock() func() {
	return r.locks.Lock(CartKey)
}

// Load returns the stored cart. Lines without id, name or a positive quantity are dropped.
func (r *CartRepository) Load(ctx context.Context) ([]models.CartItem, error) {
	items := []models.CartItem{}
	raw, err := readRaw(ctx, r.store, CartKey)
	if err != nil || raw == nil {
		return items, err
	}

	root := gjson.ParseBytes(raw)
	if !root.IsArray() {
		log.Warnf("⚠️  Cart: %s is not a list, treating the cart as empty", CartKey)
		return items, nil
	}
	root.ForEach(func(_, line gjson.Result) bool {
		item := models.CartItem{
			ID:    scalarString(line.Get("id")),
			Name:  scalarString(line.Get("name")),
			Price: numberOf(line.Get("price")),
			Qty:   int(math.Floor(numberOf(line.Get("qty")))),
		}
		if item.ID == "" || item.Name == "" || item.Qty <= 0 {
			return true
		}
		items = append(items, item)
		return true
	})
	return items, nil
}

// Save overwrites the cart
func (r *CartRepository) Save(ctx context.Context, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	return writeJSON(ctx, r.store, CartKey, items)
}

// Mutate loads the cart, applies fn and persists the result under the cart lock.
// An error from fn leaves the stored cart untouched.
func (r *CartRepository) Mutate(ctx context.Context, fn func([]models.CartItem) ([]models.CartItem, error)) ([]models.CartItem, error) {
	unlock := r.Lock()
	defer unlock()

	items, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := fn(items)
	if err != nil {
		return items, err
	}
	next = compactCart(next)
	if err := r.Save(ctx, next); err != nil {
		return items, err
	}
	return next, nil
}

func compactCart(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" || item.Qty <= 0 {
			continue
		}
		out = append(out, item)
	}
	return out
}
