package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
)

// KVRepository persists small application state that is not an entity
// collection: pin-lock credential fields, the weekly backup marker and
// snapshot, the persisted remote session. Values are opaque strings.
type KVRepository struct {
	db *DB
}

// NewKVRepository constructs a key-value repository over the kv table.
func NewKVRepository(db *DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value stored under key, or [ErrKeyNotFound].
func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := r.db.QueryRowContext(ctx, getKV, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		logger.FromContext(ctx).Err(err).
			Str("func", "KVRepository.Get").
			Str("key", key).
			Msg("failed to query kv row")
		return "", fmt.Errorf("failed to query kv row (key=%s): %w", key, err)
	}

	return value, nil
}

// Put stores value under key, replacing any previous value.
func (r *KVRepository) Put(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, putKV, key, value); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "KVRepository.Put").
			Str("key", key).
			Msg("failed to execute kv upsert")
		return fmt.Errorf("failed to save kv row (key=%s): %w", key, err)
	}

	return nil
}

// Delete removes key. Removing an absent key is not an error.
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, deleteKV, key); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "KVRepository.Delete").
			Str("key", key).
			Msg("failed to execute kv delete")
		return fmt.Errorf("failed to delete kv row (key=%s): %w", key, err)
	}

	return nil
}
