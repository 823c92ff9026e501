// Package events provides the event queue carrying LSPS protocol events to
// the embedding application.
package events

import (
	"context"
	"sync"
)

// Event is the base interface for all LSPS events
type Event interface {
	EventType() string
}

// EventQueue is an unbounded FIFO of events. Enqueue never blocks and never
// drops; consumers drain at their own pace through NextEvent.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
	notify chan struct{}
	closed bool
}

// NewEventQueue creates a new event queue
func NewEventQueue() *EventQueue {
	return &EventQueue{
		notify: make(chan struct{}, 1),
	}
}

// Enqueue appends an event to the queue. No-op once the queue is closed.
func (eq *EventQueue) Enqueue(event Event) {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	if eq.closed {
		return
	}
	eq.events = append(eq.events, event)
	eq.signal()
}

// signal wakes a waiting consumer. Callers must hold mu.
func (eq *EventQueue) signal() {
	select {
	case eq.notify <- struct{}{}:
	default:
	}
}

// NextEvent blocks until the next event is available or context is cancelled.
// Events still queued when the queue closes remain drainable.
func (eq *EventQueue) NextEvent(ctx context.Context) (Event, error) {
	for {
		eq.mu.Lock()
		if len(eq.events) > 0 {
			event := eq.events[0]
			eq.events = eq.events[1:]
			if len(eq.events) > 0 {
				eq.signal()
			}
			eq.mu.Unlock()
			return event, nil
		}
		closed := eq.closed
		eq.mu.Unlock()

		if closed {
			return nil, context.Canceled
		}

		select {
		case <-eq.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// GetAndClearPendingEvents returns all pending events without blocking
func (eq *EventQueue) GetAndClearPendingEvents() []Event {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	events := eq.events
	eq.events = nil
	return events
}

// Close closes the event queue
func (eq *EventQueue) Close() {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	if !eq.closed {
		eq.closed = true
		eq.signal()
	}
}
