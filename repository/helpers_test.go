package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront-core/kvstore"
)

var fixedNow = time.Date(2026, 1, 4, 10, 30, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() { nowFunc = prev })
}

// failingStore fails every operation the way an unreachable backend does
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, fmt.Errorf("%w: get: connection refused", kvstore.ErrStorageUnavailable)
}

func (failingStore) Set(ctx context.Context, key, value string) error {
	return fmt.Errorf("%w: set: connection refused", kvstore.ErrStorageUnavailable)
}

func (failingStore) Remove(ctx context.Context, keys ...string) error {
	return fmt.Errorf("%w: remove: connection refused", kvstore.ErrStorageUnavailable)
}

func (failingStore) ListKeys(ctx context.Context) ([]string, error) {
	return nil, fmt.Errorf("%w: list keys: connection refused", kvstore.ErrStorageUnavailable)
}

type countingObserver struct {
	keys []string
}

func (o *countingObserver) ObserveCorrupt(key string) {
	o.keys = append(o.keys, key)
}
