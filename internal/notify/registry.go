// Package notify is the in-process change notifier: a registry of subscriber
// callbacks per collection topic, signalled after each collection save.
package notify

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/sales-record-engine/internal/domain/shared"
)

// Handler is called with the topic that changed. It carries no payload;
// subscribers re-load the collection they care about.
type Handler func(topic shared.Collection)

// Unsubscribe removes a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

type subscriber struct {
	id      uint64
	handler Handler
}

// Registry delivers publishes synchronously to the handlers subscribed to a topic
// at the time of the publish, in subscription order.
type Registry struct {
	logger *slog.Logger

	mu     sync.RWMutex
	nextID uint64
	topics map[shared.Collection][]subscriber
}

// NewRegistry creates an empty registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger,
		topics: make(map[shared.Collection][]subscriber),
	}
}

// Subscribe registers handler for topic. Publishes that happened before the
// call are never delivered to it.
func (r *Registry) Subscribe(topic shared.Collection, handler Handler) Unsubscribe {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.topics[topic] = append(r.topics[topic], subscriber{id: id, handler: handler})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(topic, id) })
	}
}

func (r *Registry) remove(topic shared.Collection, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.topics[topic]
	for i, s := range list {
		if s.id == id {
			next := make([]subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(r.topics, topic)
			} else {
				r.topics[topic] = next
			}
			return
		}
	}
}

// Publish signals every handler currently subscribed to topic, once each.
// A panicking handler is logged and skipped; delivery continues.
func (r *Registry) Publish(topic shared.Collection) {
	r.mu.RLock()
	list := r.topics[topic]
	r.mu.RUnlock()

	// list is never mutated in place, so handlers may (un)subscribe freely
	for _, s := range list {
		r.deliver(topic, s)
	}

	r.logger.Debug("Published change notification", "topic", string(topic), "subscribers", len(list))
}

func (r *Registry) deliver(topic shared.Collection, s subscriber) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Change handler panicked",
				"topic", string(topic),
				"subscription_id", s.id,
				"error", rec,
				"stack", string(debug.Stack()),
			)
		}
	}()
	s.handler(topic)
}

// Subscribers returns the number of handlers subscribed to topic
func (r *Registry) Subscribers(topic shared.Collection) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics[topic])
}
