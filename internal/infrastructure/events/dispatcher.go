// Package events delivers domain events to in-process subscribers
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/snacktrack/assessor/internal/domain/shared"
	"github.com/snacktrack/assessor/internal/ports/outbound"
)

// Wildcard subscribes a handler to every event
const Wildcard = "*"

// Dispatcher is a synchronous in-process event bus. Handlers run in
// subscription order; a failing handler is logged and does not stop the
// others.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	log      *zap.Logger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]shared.EventHandler),
		log:      log.Named("events"),
	}
}

var _ outbound.EventPublisher = (*Dispatcher)(nil)

// Subscribe registers handler for the named event, or for all events with Wildcard
func (d *Dispatcher) Subscribe(event string, handler shared.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[event] = append(d.handlers[event], handler)
	d.log.Debug("Registered event handler", zap.String("event", event))
}

// Publish delivers events in order
func (d *Dispatcher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := event.EventName()
		handlers := d.subscribers(name)
		if len(handlers) == 0 {
			d.log.Debug("No handlers registered for event", zap.String("event", name))
			continue
		}

		for _, handler := range handlers {
			if err := handler(event); err != nil {
				d.log.Error("Failed to handle event",
					zap.String("event", name),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

func (d *Dispatcher) subscribers(name string) []shared.EventHandler {
	d.mu.RLock()
	defer d.mu.RUnlock()

	specific := d.handlers[name]
	all := d.handlers[Wildcard]
	out := make([]shared.EventHandler, 0, len(specific)+len(all))
	out = append(out, specific...)
	return append(out, all...)
}
