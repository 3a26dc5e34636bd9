// Package eventbus implements the in-process broadcast channel: a
// topic-filtered pub/sub hub feeding the SSE streams, plus a fanout
// publisher that bridges every event to Kafka when a bridge is configured.
package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dropmarket/internal/core/ports"
)

const (
	// subscriberBuffer is the per-subscriber channel capacity. A subscriber
	// this far behind is considered slow.
	subscriberBuffer = 16

	// sendWait bounds how long a publish waits on a full subscriber buffer
	// before dropping the event for that subscriber.
	sendWait = 10 * time.Millisecond
)

type counter interface {
	Inc()
}

// Subscription is one subscriber's view of a topic. The events channel is
// closed on Unsubscribe and on hub Close.
type Subscription struct {
	topic  string
	events chan ports.Event
}

// Events returns the channel delivering the subscriber's events.
func (s *Subscription) Events() <-chan ports.Event {
	return s.events
}

// Topic returns the topic this subscription follows.
func (s *Subscription) Topic() string {
	return s.topic
}

// Hub is the in-memory broadcast channel. Delivery is best-effort: a
// subscriber that does not drain its buffer within the send wait misses the
// event and reconciles through the query read path.
type Hub struct {
	logger    *slog.Logger
	published counter
	dropped   counter

	mu            sync.RWMutex
	subscriptions map[string]map[*Subscription]struct{}
	closed        bool
}

// NewHub creates a broadcast hub. The counters may be nil.
func NewHub(logger *slog.Logger, published counter, dropped counter) *Hub {
	return &Hub{
		logger:        logger.With("component", "eventbus"),
		published:     published,
		dropped:       dropped,
		subscriptions: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscriber on a topic. The caller must
// Unsubscribe when done; an abandoned subscription keeps dropping events
// but never blocks publishers.
func (h *Hub) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		topic:  topic,
		events: make(chan ports.Event, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(sub.events)
		return sub
	}

	if h.subscriptions[topic] == nil {
		h.subscriptions[topic] = make(map[*Subscription]struct{})
	}
	h.subscriptions[topic][sub] = struct{}{}

	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call
// more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscriptions[sub.topic]
	if !ok {
		return
	}
	if _, ok = subs[sub]; !ok {
		return
	}

	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subscriptions, sub.topic)
	}
	close(sub.events)
}

// Publish delivers the event to every subscriber of its topic. Slow
// subscribers are skipped after a bounded wait; Publish itself never fails.
func (h *Hub) Publish(ctx context.Context, event ports.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	if h.published != nil {
		h.published.Inc()
	}

	for sub := range h.subscriptions[event.Topic] {
		select {
		case sub.events <- event:
		default:
			if !h.waitSend(sub, event) {
				if h.dropped != nil {
					h.dropped.Inc()
				}
				h.logger.WarnContext(ctx, "Dropped event for slow subscriber",
					"event", event.Name, "topic", event.Topic)
			}
		}
	}

	return nil
}

// Close shuts the hub down and closes every subscriber channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for _, subs := range h.subscriptions {
		for sub := range subs {
			close(sub.events)
		}
	}
	h.subscriptions = make(map[string]map[*Subscription]struct{})
}

func (h *Hub) waitSend(sub *Subscription, event ports.Event) bool {
	timer := time.NewTimer(sendWait)
	defer timer.Stop()

	select {
	case sub.events <- event:
		return true
	case <-timer.C:
		return false
	}
}
