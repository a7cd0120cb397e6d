// Package redis persists collections as plain string keys in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/sales-record-engine/internal/platform/kv"
)

// KVRepository implements kv.Store with one Redis string per key
type KVRepository struct {
	client redis.Cmdable
	logger *slog.Logger
}

var _ kv.Store = (*KVRepository)(nil)

// NewKVRepository creates a new Redis key-value repository
func NewKVRepository(logger *slog.Logger, client redis.Cmdable) *KVRepository {
	return &KVRepository{
		client: client,
		logger: logger,
	}
}

// Get returns the value stored under key; redis.Nil is reported as absent
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		r.logger.Error("Failed to get redis key", "key", key, "error", err)
		return "", false, fmt.Errorf("failed to get redis key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key without expiry
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		r.logger.Error("Failed to set redis key", "key", key, "bytes", len(value), "error", err)
		return fmt.Errorf("failed to set redis key %q: %w", key, err)
	}
	return nil
}
