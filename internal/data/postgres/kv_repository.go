package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/sales-record-engine/internal/platform/kv"
	"github.com/sales-record-engine/internal/platform/persistence"
)

const (
	selectEntryQuery = `SELECT value FROM kv_entries WHERE key = $1`
	upsertEntryQuery = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
)

// KVRepository implements kv.Store on the kv_entries table
type KVRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

var _ kv.Store = (*KVRepository)(nil)

// NewKVRepository creates a new PostgreSQL key-value repository
func NewKVRepository(logger *slog.Logger, db *persistence.PostgresDB) *KVRepository {
	return &KVRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Get returns the value stored under key. A missing row is reported as absent.
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.querier.QueryRow(ctx, selectEntryQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		r.logger.Error("Failed to get kv entry", "key", key, "error", err)
		return "", false, fmt.Errorf("failed to get kv entry %q: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value stored under key
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	if _, err := r.querier.Exec(ctx, upsertEntryQuery, key, value); err != nil {
		r.logger.Error("Failed to set kv entry", "key", key, "bytes", len(value), "error", err)
		return fmt.Errorf("failed to set kv entry %q: %w", key, err)
	}
	return nil
}
