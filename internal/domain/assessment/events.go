package assessment

import (
	"github.com/google/uuid"

	"github.com/snacktrack/assessor/internal/domain/shared"
)

// Event names
const (
	EventAssessmentCreated    = "assessment.created"
	EventFeedbackAttached     = "assessment.feedback_attached"
	EventAssessmentSuperseded = "assessment.superseded"
	EventAssessmentDeleted    = "assessment.deleted"
)

// AssessmentCreatedEvent is raised when an assessment is stored
type AssessmentCreatedEvent struct {
	shared.BaseEvent
	AssessmentID   uuid.UUID
	UserID         uuid.UUID
	ProductID      uuid.UUID
	Score          int
	Recommendation Recommendation
	AllergyForced  bool
}

// EventName returns the event name
func (e AssessmentCreatedEvent) EventName() string { return EventAssessmentCreated }

// FeedbackAttachedEvent is raised when a user rates or annotates an assessment
type FeedbackAttachedEvent struct {
	shared.BaseEvent
	AssessmentID uuid.UUID
	Rating       *int
}

// EventName returns the event name
func (e FeedbackAttachedEvent) EventName() string { return EventFeedbackAttached }

// AssessmentSupersededEvent is raised when a forced reassessment retires a record
type AssessmentSupersededEvent struct {
	shared.BaseEvent
	AssessmentID uuid.UUID
	UserID       uuid.UUID
	ProductID    uuid.UUID
}

// EventName returns the event name
func (e AssessmentSupersededEvent) EventName() string { return EventAssessmentSuperseded }

// AssessmentDeletedEvent is raised when a user deletes an assessment
type AssessmentDeletedEvent struct {
	shared.BaseEvent
	AssessmentID uuid.UUID
	UserID       uuid.UUID
}

// EventName returns the event name
func (e AssessmentDeletedEvent) EventName() string { return EventAssessmentDeleted }
