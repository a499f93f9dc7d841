// Package telemetry publishes driver activity to in-process listeners, to
// OpenTelemetry and to an HTTP endpoint serving Prometheus metrics.
package telemetry

import (
	"sync"
	"time"
)

// EventType identifies the kind of telemetry event.
type EventType string

const (
	EventMessageHandled      EventType = "message.handled"
	EventRendered            EventType = "render.completed"
	EventCommandInterpreted  EventType = "command.interpreted"
	EventSubscriptionStarted EventType = "subscription.started"
	EventSubscriptionStopped EventType = "subscription.stopped"
	EventHostInput           EventType = "host.input"
)

// Event describes one step of the driver.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"sessionId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Hub fans out events to any number of subscribers and keeps the most
// recent ones for late readers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	recent      []Event
	keep        int
	closed      bool
}

// NewHub constructs a hub that remembers the last 256 events.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{}), keep: 256}
}

// Publish notifies all subscribers of an event. It never blocks: a
// subscriber that falls behind misses events. A nil hub is a no-op.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	h.recent = append(h.recent, event)
	if len(h.recent) > h.keep {
		h.recent = h.recent[len(h.recent)-h.keep:]
	}
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Recent returns up to n of the latest events, oldest first.
func (h *Hub) Recent(n int) []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n <= 0 || n > len(h.recent) {
		n = len(h.recent)
	}
	return append([]Event(nil), h.recent[len(h.recent)-n:]...)
}

// Subscribe returns a channel that will receive future events and a cleanup func.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		empty := make(chan Event)
		close(empty)
		return empty, func() {}
	}
	ch := make(chan Event, 64)
	h.subscribers[ch] = struct{}{}
	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// Close unsubscribes all listeners and prevents future publications.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}
