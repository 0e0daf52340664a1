package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-core/kvstore"
)

// writeJSON encodes v and stores it at a global key
func writeJSON(ctx context.Context, store kvstore.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return store.Set(ctx, key, string(raw))
}

// readRaw returns the stored text at a global key, or nil when absent
func readRaw(ctx context.Context, store kvstore.Store, key string) ([]byte, error) {
	raw, found, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return []byte(raw), nil
}
