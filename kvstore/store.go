package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorageUnavailable is returned (wrapped) by every backend when the medium itself fails.
// Callers should surface it as "try again".
var ErrStorageUnavailable = errors.New("storage unavailable")

// Store is the string key -> string value medium that every repository persists through.
// Keys share a single global namespace; values are caller-defined JSON text.
type Store interface {
	// Get returns the value stored at key. found is false when the key was never written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set overwrites the value stored at key unconditionally.
	Set(ctx context.Context, key, value string) error
	// Remove deletes every given key. Missing keys are ignored.
	Remove(ctx context.Context, keys ...string) error
	// ListKeys returns every key currently stored.
	ListKeys(ctx context.Context) ([]string, error)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
