// Package broker is the in-process topic hub that carries composed
// transformations to their consumers.
package broker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Publisher = (*Hub)(nil)

// ErrUnknownConsumer is returned by SendTo for a consumer that is not subscribed.
var ErrUnknownConsumer = zerr.New("unknown consumer")

// DefaultSubscriptionBuffer is the channel capacity of a subscription.
const DefaultSubscriptionBuffer = 16

// BindingObserver is told about every subscription that starts or ends.
type BindingObserver interface {
	Bind(topic, consumer string)
	Unbind(topic string)
}

// Hub fans transformations out to topic subscribers. It is safe for concurrent use.
type Hub struct {
	logger ports.Logger
	buffer int

	mu        sync.RWMutex
	topics    map[string]map[string]*Subscription
	consumers map[string]*Subscription
	observers []BindingObserver

	dropped atomic.Uint64
}

// NewHub creates an empty Hub.
func NewHub(logger ports.Logger) *Hub {
	return &Hub{
		logger:    logger,
		buffer:    DefaultSubscriptionBuffer,
		topics:    make(map[string]map[string]*Subscription),
		consumers: make(map[string]*Subscription),
	}
}

// Observe registers o for binding changes of subscriptions created afterwards.
func (h *Hub) Observe(o BindingObserver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, o)
}

// Subscribe binds a new consumer to topic.
func (h *Hub) Subscribe(topic string) *Subscription {
	ch := make(chan domain.Transformation, h.buffer)
	sub := &Subscription{
		ID:    uuid.NewString(),
		Topic: topic,
		C:     ch,
		ch:    ch,
		hub:   h,
	}

	h.mu.Lock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[string]*Subscription)
		h.topics[topic] = subs
	}
	subs[sub.ID] = sub
	h.consumers[sub.ID] = sub
	observers := h.observers
	h.mu.Unlock()

	// Observers may call back into the hub.
	for _, o := range observers {
		o.Bind(topic, sub.ID)
	}
	return sub
}

// Publish delivers tf to every subscriber of topic without blocking.
// Subscribers whose buffer is full miss the message.
func (h *Hub) Publish(_ context.Context, topic string, tf domain.Transformation) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.topics[topic] {
		h.deliver(sub, tf)
	}
	return nil
}

// SendTo delivers tf to one consumer without blocking.
func (h *Hub) SendTo(_ context.Context, consumer string, tf domain.Transformation) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sub, ok := h.consumers[consumer]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUnknownConsumer, "failed to send"), "consumer", consumer)
	}
	h.deliver(sub, tf)
	return nil
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.consumers)
}

// Dropped returns how many messages were lost to full subscriber buffers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// deliver must be called with mu held for reading.
func (h *Hub) deliver(sub *Subscription, tf domain.Transformation) {
	select {
	case sub.ch <- tf:
	default:
		if h.dropped.Add(1)%100 == 1 {
			h.logger.Warn(fmt.Sprintf("event=Hub.Dropped topic=%q consumer=%s total=%d", sub.Topic, sub.ID, h.dropped.Load()))
		}
	}
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if subs, ok := h.topics[sub.Topic]; ok {
		delete(subs, sub.ID)
		if len(subs) == 0 {
			delete(h.topics, sub.Topic)
		}
	}
	delete(h.consumers, sub.ID)
	close(sub.ch)
	observers := h.observers
	h.mu.Unlock()

	for _, o := range observers {
		o.Unbind(sub.Topic)
	}
}

// Subscription is one consumer bound to a topic.
type Subscription struct {
	ID    string
	Topic string
	// C receives the published transformations. It is closed by Close.
	C <-chan domain.Transformation

	ch   chan domain.Transformation
	hub  *Hub
	once sync.Once
}

// Close unbinds the consumer. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.unsubscribe(s) })
}
