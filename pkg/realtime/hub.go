// Package realtime carries row-change notifications to connected clients.
// Notifications are invalidation signals only: receivers refetch in full.
package realtime

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Action names the kind of write that happened.
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Change is a single row-change notification.
type Change struct {
	Table  string    `json:"table"`
	Action Action    `json:"action"`
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
}

// Hub fans changes out to in-process subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Change
	next   uint64
	buffer int
	logger *zap.Logger
}

// NewHub creates a hub whose subscriber channels hold buffer changes.
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{subs: make(map[uint64]chan Change), buffer: buffer, logger: logger}
}

// Subscribe registers a receiver. The returned func unsubscribes and closes the channel.
func (h *Hub) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, h.buffer)
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Broadcast delivers c to every subscriber without blocking. A subscriber
// whose buffer is full already has a refresh pending, so the change is skipped.
func (h *Hub) Broadcast(c Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- c:
		default:
			h.logger.Debug("realtime subscriber lagging, change coalesced", zap.Uint64("subscriber", id), zap.String("table", c.Table))
		}
	}
}

// Publish broadcasts locally. It satisfies the same contract as RedisBroker.
func (h *Hub) Publish(_ context.Context, c Change) error {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	h.Broadcast(c)
	return nil
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
