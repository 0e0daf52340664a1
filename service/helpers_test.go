package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"storefront-core/kvstore"
	"storefront-core/repository"
)

var serviceNow = time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)

// flakyStore fails writes while failWrites is set
type flakyStore struct {
	*kvstore.MemoryStore
	failWrites atomic.Bool
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	if s.failWrites.Load() {
		return errors.Join(kvstore.ErrStorageUnavailable, errors.New("disk full"))
	}
	return s.MemoryStore.Set(ctx, key, value)
}

type testEnv struct {
	store   *flakyStore
	storage *repository.UserStorage
	users   *repository.UserRepository
	orders  *repository.OrderRepository
	wallet  *repository.WalletRepository
	cart    *repository.CartRepository
	profile *ProfileService
	carts   *CartService
	order   *OrderService
}

func newTestEnv() *testEnv {
	store := &flakyStore{MemoryStore: kvstore.NewMemoryStore()}
	locks := kvstore.NewKeyedMutex()
	storage := repository.NewUserStorage(store, locks, "nlk")

	env := &testEnv{
		store:   store,
		storage: storage,
		users:   repository.NewUserRepository(store, locks),
		orders:  repository.NewOrderRepository(storage),
		wallet:  repository.NewWalletRepository(storage),
		cart:    repository.NewCartRepository(store, locks),
	}
	env.profile = NewProfileService(env.users, env.orders, env.storage)
	env.profile.now = func() time.Time { return serviceNow }
	env.carts = NewCartService(env.cart, env.orders, env.wallet, env.profile)
	env.carts.now = func() time.Time { return serviceNow }
	env.order = NewOrderService(env.orders, env.profile)
	return env
}
