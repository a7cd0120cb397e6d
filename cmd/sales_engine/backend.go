package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sales-record-engine/internal/config"
	"github.com/sales-record-engine/internal/data/mongo"
	"github.com/sales-record-engine/internal/data/postgres"
	"github.com/sales-record-engine/internal/data/redis"
	"github.com/sales-record-engine/internal/platform/kv"
	"github.com/sales-record-engine/internal/platform/persistence"
)

// closer releases a backend's connections during shutdown
type closer func(ctx context.Context) error

// openBackend connects the key-value backend selected by STORE_BACKEND
func openBackend(ctx context.Context, log *slog.Logger, cfg *config.Config) (kv.Store, closer, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		log.Warn("Using in-memory store; records are lost on restart")
		return kv.NewMemoryStore(), func(context.Context) error { return nil }, nil

	case config.BackendRedis:
		redisDB, err := persistence.NewRedisDB(ctx, log, &cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		return redis.NewKVRepository(log, redisDB.Client()), func(context.Context) error {
			return redisDB.Close()
		}, nil

	case config.BackendPostgres:
		postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		return postgres.NewKVRepository(log, postgresDB), func(context.Context) error {
			postgresDB.Close()
			return nil
		}, nil

	case config.BackendMongo:
		mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		collection, err := mongoDB.KVCollection(ctx, cfg.MongoDB.Collection)
		if err != nil {
			_ = mongoDB.Close(ctx)
			return nil, nil, err
		}
		return mongo.NewKVRepository(log, collection), mongoDB.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}
