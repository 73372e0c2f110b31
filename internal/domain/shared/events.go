// Package shared holds the building blocks shared by every aggregate.
package shared

import "time"

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// EventHandler handles domain events
type EventHandler func(event DomainEvent) error

// BaseEvent carries the timestamp every event needs.
type BaseEvent struct {
	At time.Time
}

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{At: time.Now().UTC()}
}

// OccurredAt returns when the event happened
func (e BaseEvent) OccurredAt() time.Time {
	return e.At
}

// AggregateRoot collects events raised by an aggregate until the
// application layer publishes them.
type AggregateRoot struct {
	events []DomainEvent
}

// AddEvent adds a domain event to be dispatched
func (a *AggregateRoot) AddEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// Events returns and clears pending domain events
func (a *AggregateRoot) Events() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}
