// Package store is the record store adapter: typed load and save of whole
// named collections over a key-value backend, with first-access seeding and
// change notification after every save.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/sales-record-engine/internal/domain/shared"
	"github.com/sales-record-engine/internal/notify"
	"github.com/sales-record-engine/internal/platform/kv"
)

// Store owns the persisted collections and the observers interested in them
type Store struct {
	backend   kv.Store
	notifier  *notify.Registry
	logger    *slog.Logger
	keyPrefix string

	corruptFallbacks atomic.Int64

	// writeMu serializes load-compute-save cycles within this process only
	writeMu sync.Mutex
}

// Option configures a Store
type Option func(*Store)

// WithKeyPrefix namespaces every backend key with prefix
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.keyPrefix = prefix
	}
}

// New creates a Store persisting through backend and signalling notifier after saves
func New(logger *slog.Logger, backend kv.Store, notifier *notify.Registry, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		notifier: notifier,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notifier returns the registry signalled after each save
func (s *Store) Notifier() *notify.Registry {
	return s.notifier
}

// CorruptFallbacks counts loads that found unparseable content and fell back to the default
func (s *Store) CorruptFallbacks() int64 {
	return s.corruptFallbacks.Load()
}

type batchKey struct{}

// publishBatch collects the topics saved inside one Exclusive section
type publishBatch struct {
	store  *Store
	topics []shared.Collection
}

// Exclusive runs fn while holding the store's in-process writer lock.
// Saves made with the context passed to fn are published once the lock is
// released, in save order, so observers may themselves write to the store.
// Saves that succeeded are published even when fn returns an error.
// The lock does not protect against writers in other processes sharing the backend.
func (s *Store) Exclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	batch := &publishBatch{store: s}
	err := s.locked(func() error {
		return fn(context.WithValue(ctx, batchKey{}, batch))
	})

	for _, topic := range batch.topics {
		s.notifier.Publish(topic)
	}
	return err
}

func (s *Store) locked(fn func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return fn()
}

// publish signals topic now, or queues it when ctx belongs to an Exclusive section of s
func (s *Store) publish(ctx context.Context, topic shared.Collection) {
	if batch, ok := ctx.Value(batchKey{}).(*publishBatch); ok && batch.store == s {
		batch.topics = append(batch.topics, topic)
		return
	}
	s.notifier.Publish(topic)
}

func (s *Store) backendKey(c shared.Collection) string {
	return s.keyPrefix + string(c)
}

// Load returns a fresh copy of the collection stored under key.
// An absent key is seeded with def, which is then returned. Content that does
// not parse as a JSON array of T is treated as absent.
func Load[T any](ctx context.Context, s *Store, key shared.Collection, def []T) ([]T, error) {
	if def == nil {
		def = []T{}
	}

	raw, ok, err := s.backend.Get(ctx, s.backendKey(key))
	if err != nil {
		s.logger.Error("Failed to read collection", "collection", string(key), "error", err)
		return nil, fmt.Errorf("failed to load collection %q: %w", key, err)
	}

	if ok {
		var items []T
		decodeErr := json.Unmarshal([]byte(raw), &items)
		if decodeErr == nil && items != nil {
			return items, nil
		}
		// "null" decodes without error but is not a collection either
		s.corruptFallbacks.Add(1)
		s.logger.Warn("Corrupt collection content, falling back to default",
			"collection", string(key),
			"bytes", len(raw),
			"error", decodeErr,
		)
	}

	if err := seed(ctx, s, key, def); err != nil {
		return nil, err
	}
	return def, nil
}

func seed[T any](ctx context.Context, s *Store, key shared.Collection, def []T) error {
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode default for collection %q: %w", key, err)
	}
	if err := s.backend.Set(ctx, s.backendKey(key), string(raw)); err != nil {
		s.logger.Error("Failed to seed collection", "collection", string(key), "error", err)
		return fmt.Errorf("failed to seed collection %q: %w", key, err)
	}
	s.logger.Debug("Seeded collection", "collection", string(key), "items", len(def))
	return nil
}

// Save replaces the collection stored under key with items, then signals the
// collection's topic (deferred until the end of an enclosing Exclusive).
// Observers are not signalled when the write fails.
func Save[T any](ctx context.Context, s *Store, key shared.Collection, items []T) error {
	if items == nil {
		items = []T{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", key, err)
	}

	if err := s.backend.Set(ctx, s.backendKey(key), string(raw)); err != nil {
		s.logger.Error("Failed to write collection", "collection", string(key), "error", err)
		return fmt.Errorf("failed to save collection %q: %w", key, err)
	}

	s.publish(ctx, key)
	return nil
}
