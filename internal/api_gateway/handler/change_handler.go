package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sales-record-engine/internal/domain/shared"
	"github.com/sales-record-engine/internal/notify"
)

const (
	changeEventName    = "change"
	heartbeatEventName = "heartbeat"
	streamBuffer       = 64
)

// ChangeSubscriber registers interest in collection topics
type ChangeSubscriber interface {
	Subscribe(topic shared.Collection, handler notify.Handler) notify.Unsubscribe
}

// ChangeHandler streams collection change notifications as Server-Sent Events
type ChangeHandler struct {
	subscriber ChangeSubscriber
	heartbeat  time.Duration
	logger     *slog.Logger

	closing   chan struct{}
	closeOnce sync.Once
}

// NewChangeHandler creates a change stream handler sending a heartbeat every interval
func NewChangeHandler(logger *slog.Logger, subscriber ChangeSubscriber, heartbeat time.Duration) *ChangeHandler {
	return &ChangeHandler{
		subscriber: subscriber,
		heartbeat:  heartbeat,
		logger:     logger,
		closing:    make(chan struct{}),
	}
}

// Close ends every open stream. Streams opened afterwards end immediately.
func (h *ChangeHandler) Close() {
	h.closeOnce.Do(func() { close(h.closing) })
}

// Stream subscribes to the topics named in ?topic= (comma separated, all
// when omitted) and writes one "change" event per save until the client leaves.
// The event data is the topic name; clients reload the collection themselves.
func (h *ChangeHandler) Stream(c *gin.Context) {
	topics, ok := parseTopics(c.Query("topic"))
	if !ok {
		RespondBadRequest(c, "Unknown topic; expected one of bookings, payments, ledger")
		return
	}

	// Buffered so a slow client never blocks the save that triggered the event
	events := make(chan shared.Collection, streamBuffer)
	for _, topic := range topics {
		unsubscribe := h.subscriber.Subscribe(topic, func(t shared.Collection) {
			select {
			case events <- t:
			default:
				h.logger.Warn("Change stream client too slow, dropping event", "topic", string(t))
			}
		})
		defer unsubscribe()
	}

	h.logger.Debug("Change stream opened", "topics", topics)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	ctx := c.Request.Context()

	c.Stream(func(w io.Writer) bool {
		// Pending events go out before a cancellation is noticed
		select {
		case t := <-events:
			c.SSEvent(changeEventName, string(t))
			return true
		default:
		}

		select {
		case <-ctx.Done():
			return false
		case <-h.closing:
			return false
		case t := <-events:
			c.SSEvent(changeEventName, string(t))
		case <-ticker.C:
			c.SSEvent(heartbeatEventName, time.Now().UTC().Format(time.RFC3339))
		}
		return true
	})

	h.logger.Debug("Change stream closed", "topics", topics)
}

func parseTopics(raw string) ([]shared.Collection, bool) {
	if strings.TrimSpace(raw) == "" {
		return shared.Collections, true
	}

	seen := make(map[shared.Collection]bool)
	var topics []shared.Collection
	for _, part := range strings.Split(raw, ",") {
		topic := shared.Collection(strings.TrimSpace(part))
		if !topic.Valid() {
			return nil, false
		}
		if !seen[topic] {
			seen[topic] = true
			topics = append(topics, topic)
		}
	}
	return topics, true
}
