package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"storefront-core/kvstore"
	"storefront-core/utils"
)

// GuestUserID is used when a collection is addressed without a user identifier
const GuestUserID = "guest"

// UserStorage gives every per-user logical collection its own key,
// "<namespace>:<normalizedUserId>:<name>", and hides corrupt values from callers.
type UserStorage struct {
	store     kvstore.Store
	locks     *kvstore.KeyedMutex
	namespace string
	observer  CorruptionObserver
}

// NewUserStorage creates a new UserStorage
func NewUserStorage(store kvstore.Store, locks *kvstore.KeyedMutex, namespace string) *UserStorage {
	return &UserStorage{
		store:     store,
		locks:     locks,
		namespace: namespace,
	}
}

// SetCorruptionObserver registers an observer for self-healed reads
func (s *UserStorage) SetCorruptionObserver(observer CorruptionObserver) {
	s.observer = observer
}

// keySegment escapes the key separator so one user's prefix never covers another's
var keySegment = strings.NewReplacer("%", "%25", ":", "%3A")

func (s *UserStorage) prefix(userID string) string {
	id := utils.NormalizeUserID(userID)
	if id == "" {
		id = GuestUserID
	}
	return s.namespace + ":" + keySegment.Replace(id) + ":"
}

// Key composes the storage key for one user's collection
func (s *UserStorage) Key(userID, name string) string {
	return s.prefix(userID) + name
}

// Lock serializes read-modify-write cycles on one user's collection
func (s *UserStorage) Lock(userID, name string) func() {
	return s.locks.Lock(s.Key(userID, name))
}

// Save serializes data and overwrites the collection
func (s *UserStorage) Save(ctx context.Context, userID, name string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return s.store.Set(ctx, s.Key(userID, name), string(raw))
}

// Load decodes the collection into dest. It reports false when the key is absent
// or its value is corrupt; a corrupt value is deleted on the way out.
func (s *UserStorage) Load(ctx context.Context, userID, name string, dest any) (bool, error) {
	key := s.Key(userID, name)

	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found || raw == "" {
		return false, nil
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "null" || json.Unmarshal([]byte(trimmed), dest) != nil {
		log.Warnf("⚠️  UserStorage.Load: Corrupt value at key=%s, removing it", key)
		if s.observer != nil {
			s.observer.ObserveCorrupt(key)
		}
		if err := s.store.Remove(ctx, key); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

// LoadOr is Load with a caller-supplied default in place of absence
func LoadOr[T any](ctx context.Context, s *UserStorage, userID, name string, fallback T) (T, error) {
	var value T
	found, err := s.Load(ctx, userID, name, &value)
	if err != nil {
		return fallback, err
	}
	if !found {
		return fallback, nil
	}
	return value, nil
}

// Remove deletes one collection
func (s *UserStorage) Remove(ctx context.Context, userID, name string) error {
	return s.store.Remove(ctx, s.Key(userID, name))
}

// ListKeys returns every key that belongs to the user
func (s *UserStorage) ListKeys(ctx context.Context, userID string) ([]string, error) {
	all, err := s.store.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	prefix := s.prefix(userID)
	mine := []string{}
	for _, key := range all {
		if strings.HasPrefix(key, prefix) {
			mine = append(mine, key)
		}
	}
	return mine, nil
}

// ClearAll deletes every collection of the user (account deletion)
func (s *UserStorage) ClearAll(ctx context.Context, userID string) error {
	mine, err := s.ListKeys(ctx, userID)
	if err != nil {
		return err
	}
	if len(mine) == 0 {
		return nil
	}

	log.Printf("🗑️  UserStorage.ClearAll: Removing %d keys for user=%s", len(mine), utils.NormalizeUserID(userID))
	return s.store.Remove(ctx, mine...)
}

// Rename moves every collection of oldID under newID, one key at a time under the
// locks of both keys. A collection that already exists under newID is kept there
// and the old copy is left in place.
func (s *UserStorage) Rename(ctx context.Context, oldID, newID string) (int, error) {
	from, to := s.prefix(oldID), s.prefix(newID)
	if from == to {
		return 0, nil
	}

	keys, err := s.ListKeys(ctx, oldID)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, key := range keys {
		ok, err := s.move(ctx, key, to+strings.TrimPrefix(key, from))
		if err != nil {
			return moved, fmt.Errorf("failed to move %s: %w", key, err)
		}
		if ok {
			moved++
		}
	}

	log.Printf("🔁 UserStorage.Rename: Moved %d of %d keys %s -> %s", moved, len(keys), from, to)
	return moved, nil
}

func (s *UserStorage) move(ctx context.Context, from, to string) (bool, error) {
	first, second := from, to
	if second < first {
		first, second = second, first
	}
	unlockFirst := s.locks.Lock(first)
	defer unlockFirst()
	unlockSecond := s.locks.Lock(second)
	defer unlockSecond()

	value, found, err := s.store.Get(ctx, from)
	if err != nil || !found {
		return false, err
	}
	if _, exists, err := s.store.Get(ctx, to); err != nil {
		return false, err
	} else if exists {
		log.Warnf("⚠️  UserStorage.Rename: %s already exists, keeping %s", to, from)
		return false, nil
	}

	if err := s.store.Set(ctx, to, value); err != nil {
		return false, err
	}
	if err := s.store.Remove(ctx, from); err != nil {
		return false, err
	}
	return true, nil
}
