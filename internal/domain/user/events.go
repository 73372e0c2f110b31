package user

import (
	"github.com/google/uuid"

	"github.com/snacktrack/assessor/internal/domain/shared"
)

// Event names
const (
	EventUserRegistered       = "user.registered"
	EventHealthProfileUpdated = "user.health_profile_updated"
)

// UserRegisteredEvent is raised when a user is created
type UserRegisteredEvent struct {
	shared.BaseEvent
	UserID uuid.UUID
}

// EventName returns the event name
func (e UserRegisteredEvent) EventName() string {
	return EventUserRegistered
}

// HealthProfileUpdatedEvent is raised when a profile changes. Derived
// metrics cached for earlier versions become stale.
type HealthProfileUpdatedEvent struct {
	shared.BaseEvent
	UserID  uuid.UUID
	Version int
}

// EventName returns the event name
func (e HealthProfileUpdatedEvent) EventName() string {
	return EventHealthProfileUpdated
}
