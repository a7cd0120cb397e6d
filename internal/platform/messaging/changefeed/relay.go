// Package changefeed relays collection change notifications to a message
// broker so observers outside the process can follow saves.
package changefeed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/sales-record-engine/internal/domain/shared"
	"github.com/sales-record-engine/internal/notify"
	"github.com/sales-record-engine/internal/platform/messaging/producers"
)

// Event is the message written for every save of a collection.
// It names what changed, never the content.
type Event struct {
	ID         string            `json:"id"`
	Topic      shared.Collection `json:"topic"`
	Key        string            `json:"key"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Config tunes a Relay
type Config struct {
	PoolSize       int
	KeyPrefix      string        // Store key prefix, reported in Event.Key
	PublishTimeout time.Duration // Per event
}

// Relay subscribes to every collection topic and publishes one Event per
// notification. Publishing runs on a non-blocking worker pool so a slow
// broker never delays the save that triggered it; events that find the pool
// saturated are dropped and counted.
type Relay struct {
	publisher producers.MessagePublisher
	pool      *ants.Pool
	logger    *slog.Logger
	cfg       Config

	mu     sync.Mutex
	unsubs []notify.Unsubscribe

	published atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64

	now func() time.Time
}

// NewRelay creates a relay publishing through publisher
func NewRelay(logger *slog.Logger, publisher producers.MessagePublisher, cfg Config) (*Relay, error) {
	pool, err := ants.NewPool(cfg.PoolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create change feed worker pool: %w", err)
	}
	return &Relay{
		publisher: publisher,
		pool:      pool,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

// Attach subscribes the relay to every collection topic of registry
func (r *Relay) Attach(registry *notify.Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, topic := range shared.Collections {
		r.unsubs = append(r.unsubs, registry.Subscribe(topic, r.enqueue))
	}
	r.logger.Info("Change feed attached", "topics", len(shared.Collections), "pool_size", r.pool.Cap())
}

func (r *Relay) enqueue(topic shared.Collection) {
	event := Event{
		ID:         uuid.NewString(),
		Topic:      topic,
		Key:        r.cfg.KeyPrefix + string(topic),
		OccurredAt: r.now().UTC(),
	}

	err := r.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.PublishTimeout)
		defer cancel()

		if err := r.publisher.Publish(ctx, string(topic), event); err != nil {
			r.failed.Add(1)
			r.logger.Error("Failed to relay change event", "event_id", event.ID, "topic", string(topic), "error", err)
			return
		}
		r.published.Add(1)
	})
	if err != nil {
		r.dropped.Add(1)
		r.logger.Warn("Dropped change event", "event_id", event.ID, "topic", string(topic), "error", err)
	}
}

// Stats reports how many events were published, failed and dropped
func (r *Relay) Stats() (published, failed, dropped int64) {
	return r.published.Load(), r.failed.Load(), r.dropped.Load()
}

// Close detaches from the registry, waits up to timeout for in-flight
// publishes and closes the publisher
func (r *Relay) Close(timeout time.Duration) error {
	r.mu.Lock()
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
	r.mu.Unlock()

	if err := r.pool.ReleaseTimeout(timeout); err != nil {
		r.logger.Warn("Change feed workers still running at shutdown", "running", r.pool.Running(), "error", err)
	}

	published, failed, dropped := r.Stats()
	r.logger.Info("Change feed closed", "published", published, "failed", failed, "dropped", dropped)

	if err := r.publisher.Close(); err != nil {
		return fmt.Errorf("failed to close change feed publisher: %w", err)
	}
	return nil
}
