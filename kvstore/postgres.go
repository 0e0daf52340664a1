package kvstore

import (
	"context"
	"database/sql"
	"errors"

	log "github.com/sirupsen/logrus"
)

// PostgresStore persists keys in the kv_store table (see db.EnsureSchema).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Ensure PostgresStore implements Store
var _ Store = (*PostgresStore)(nil)

// Get retrieves the value stored at key
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		log.Errorf("❌ PostgresStore.Get: Error reading key=%s: %v", key, err)
		return "", false, unavailable("get", err)
	}

	return value, true, nil
}

// Set upserts the value stored at key
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		log.Errorf("❌ PostgresStore.Set: Error writing key=%s: %v", key, err)
		return unavailable("set", err)
	}
	return nil
}

// Remove deletes the given keys in a single transaction
func (s *PostgresStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Errorf("❌ PostgresStore.Remove: Error starting transaction: %v", err)
		return unavailable("remove", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
			log.Errorf("❌ PostgresStore.Remove: Error deleting key=%s: %v", key, err)
			return unavailable("remove", err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Errorf("❌ PostgresStore.Remove: Error committing transaction: %v", err)
		return unavailable("remove", err)
	}
	return nil
}

// ListKeys returns every stored key ordered by key
func (s *PostgresStore) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv_store ORDER BY key ASC`)
	if err != nil {
		log.Errorf("❌ PostgresStore.ListKeys: Error querying keys: %v", err)
		return nil, unavailable("list keys", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, unavailable("list keys", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		log.Errorf("❌ PostgresStore.ListKeys: Error iterating keys: %v", err)
		return nil, unavailable("list keys", err)
	}
	return keys, nil
}
