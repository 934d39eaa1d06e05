package sse

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SmartDevNG/smartdev_api/internal/models"
)

// EventType is the name a frame is published under.
type EventType string

const EventTransactionBuilt EventType = "transaction.built"

const subscriberBuffer = 64

// TransactionEvent is the payload pushed to stream subscribers.
type TransactionEvent struct {
	Event         EventType `json:"event"`
	TransactionID string    `json:"transactionId"`
	Service       string    `json:"service"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	ProviderID    string    `json:"providerId"`
	Recipient     string    `json:"recipient"`
	Amount        string    `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

// Subscriber receives encoded events for the services it follows. An empty
// filter follows every service.
type Subscriber struct {
	ID       string
	Events   chan []byte
	services map[models.Service]struct{}
	dropped  atomic.Int64
}

// Follows reports whether events of service are delivered to s.
func (s *Subscriber) Follows(service models.Service) bool {
	if len(s.services) == 0 {
		return true
	}
	_, ok := s.services[service]
	return ok
}

// Dropped is how many events were skipped because s fell behind.
func (s *Subscriber) Dropped() int64 {
	return s.dropped.Load()
}

// Hub fans transaction events out to stream subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]*Subscriber)}
}

// Subscribe registers id. Re-subscribing an id replaces the previous
// subscriber and closes its channel.
func (h *Hub) Subscribe(id string, services ...models.Service) *Subscriber {
	sub := &Subscriber{
		ID:       id,
		Events:   make(chan []byte, subscriberBuffer),
		services: make(map[models.Service]struct{}, len(services)),
	}
	for _, s := range services {
		sub.services[s] = struct{}{}
	}

	h.mu.Lock()
	if prev, ok := h.subscribers[id]; ok {
		close(prev.Events)
	}
	h.subscribers[id] = sub
	total := len(h.subscribers)
	h.mu.Unlock()

	log.Info().Str("subscriber_id", id).Int("services", len(services)).Int("total_subscribers", total).Msg("Stream subscriber joined")
	return sub
}

// Unsubscribe removes id and closes its channel. Unknown ids are ignored.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		close(sub.Events)
		delete(h.subscribers, id)
	}
	total := len(h.subscribers)
	h.mu.Unlock()

	if ok {
		log.Info().Str("subscriber_id", id).Int64("dropped", sub.Dropped()).Int("total_subscribers", total).Msg("Stream subscriber left")
	}
}

// Publish delivers event to every subscriber following its service and
// returns how many received it. A full buffer never blocks the publisher.
func (h *Hub) Publish(event *TransactionEvent) int {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", event.TransactionID).Msg("Failed to encode stream event")
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subscribers {
		if !sub.Follows(models.Service(event.Service)) {
			continue
		}
		select {
		case sub.Events <- data:
			delivered++
		default:
			sub.dropped.Add(1)
			log.Warn().Str("subscriber_id", sub.ID).Str("transaction_id", event.TransactionID).Msg("Stream subscriber behind, event dropped")
		}
	}
	return delivered
}

// SubscriberCount returns the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
