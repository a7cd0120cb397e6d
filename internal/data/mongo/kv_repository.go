package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sales-record-engine/internal/platform/kv"
)

// entryCollection is the part of *mongo.Collection the repository uses
type entryCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// KVRepository implements kv.Store with one document per key
type KVRepository struct {
	collection entryCollection
	logger     *slog.Logger
}

var _ kv.Store = (*KVRepository)(nil)

// NewKVRepository creates a new MongoDB key-value repository
func NewKVRepository(logger *slog.Logger, collection *mongo.Collection) *KVRepository {
	return &KVRepository{
		collection: collection,
		logger:     logger,
	}
}

// Get returns the value stored under key. A missing document is reported as absent.
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		r.logger.Error("Failed to get kv document", "key", key, "error", err)
		return "", false, fmt.Errorf("failed to get kv document %q: %w", key, err)
	}
	return doc.Value, true, nil
}

// Set upserts the document for key
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	update := bson.M{"$set": bson.M{"value": value, "updated_at": time.Now().UTC()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to set kv document", "key", key, "bytes", len(value), "error", err)
		return fmt.Errorf("failed to set kv document %q: %w", key, err)
	}
	return nil
}
