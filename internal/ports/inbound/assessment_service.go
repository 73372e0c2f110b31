// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/snacktrack/assessor/internal/domain/assessment"
	"github.com/snacktrack/assessor/internal/domain/compatibility"
	"github.com/snacktrack/assessor/internal/domain/nutrition"
	"github.com/snacktrack/assessor/internal/domain/physiology"
)

// AssessmentService defines the use cases around personalized product assessments
type AssessmentService interface {
	// Commands
	Assess(ctx context.Context, cmd AssessCommand) (*AssessmentDTO, error)
	AttachFeedback(ctx context.Context, cmd FeedbackCommand) (*AssessmentDTO, error)
	DeleteAssessment(ctx context.Context, assessmentID, userID uuid.UUID) error

	// Queries
	GetAssessment(ctx context.Context, assessmentID, userID uuid.UUID) (*AssessmentDTO, error)
	ListAssessments(ctx context.Context, userID uuid.UUID, params PaginationParams) (*AssessmentList, error)
	Stats(ctx context.Context, userID uuid.UUID) (*AssessmentStats, error)
	ScanIngredients(ctx context.Context, cmd ScanCommand) (*ScanResult, error)
}

// AssessCommand asks for the assessment of a product for a user. Without
// ForceReassess an existing assessment is returned unchanged.
type AssessCommand struct {
	UserID        uuid.UUID `json:"user_id" validate:"required"`
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	ForceReassess bool      `json:"force_reassess"`
}

// FeedbackCommand attaches a rating, notes, or both. Range checks happen in
// the domain so they surface as INVALID_FEEDBACK.
type FeedbackCommand struct {
	AssessmentID uuid.UUID `json:"assessment_id" validate:"required"`
	UserID       uuid.UUID `json:"user_id" validate:"required"`
	Rating       *int      `json:"rating,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

// ScanCommand asks for per-ingredient verdicts
type ScanCommand struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	Ingredients []string  `json:"ingredients" validate:"required,min=1,max=200,dive,required,max=200"`
}

// PaginationParams for list queries
type PaginationParams struct {
	Offset int `json:"offset" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=0,lte=100"`
}

// AssessmentDTO is the read model of an assessment
type AssessmentDTO struct {
	ID                uuid.UUID                      `json:"id"`
	UserID            uuid.UUID                      `json:"user_id"`
	ProductID         uuid.UUID                      `json:"product_id"`
	PersonalizedScore int                            `json:"personalized_score"`
	Recommendation    assessment.Recommendation      `json:"recommendation"`
	AllergyWarnings   []compatibility.AllergyWarning `json:"allergy_warnings"`
	DietaryCompatible bool                           `json:"dietary_compatible"`
	Breakdown         []nutrition.Result             `json:"breakdown"`
	Adjustments       []assessment.Adjustment        `json:"adjustments"`
	Summary           string                         `json:"assessment_summary"`
	Recommendations   []string                       `json:"health_recommendations"`
	ConfidenceScore   float64                        `json:"confidence_score"`
	ProfileMetrics    physiology.Metrics             `json:"profile_metrics"`
	UserRating        *int                           `json:"user_rating,omitempty"`
	UserNotes         *string                        `json:"user_notes,omitempty"`
	Active            bool                           `json:"active"`
	CreatedAt         time.Time                      `json:"created_at"`
	UpdatedAt         time.Time                      `json:"updated_at"`
}

// AssessmentList is a page of assessments
type AssessmentList struct {
	Assessments []*AssessmentDTO `json:"assessments"`
	Total       int              `json:"total"`
	Offset      int              `json:"offset"`
	Limit       int              `json:"limit"`
}

// AssessmentStats summarizes a user's assessments
type AssessmentStats struct {
	Counts             map[assessment.Recommendation]int `json:"counts"`
	Total              int                               `json:"total"`
	OverallHealthScore int                               `json:"overall_health_score"`
}

// ScanResult holds per-ingredient verdicts
type ScanResult struct {
	UserID   uuid.UUID                         `json:"user_id"`
	Verdicts []compatibility.IngredientVerdict `json:"verdicts"`
}

// NewAssessmentDTO builds the read model from the aggregate.
func NewAssessmentDTO(a *assessment.Assessment) *AssessmentDTO {
	return &AssessmentDTO{
		ID:                a.ID(),
		UserID:            a.UserID(),
		ProductID:         a.ProductID(),
		PersonalizedScore: a.Score(),
		Recommendation:    a.Recommendation(),
		AllergyWarnings:   a.AllergyWarnings(),
		DietaryCompatible: a.DietaryCompatible(),
		Breakdown:         a.Breakdown(),
		Adjustments:       a.Adjustments(),
		Summary:           a.Summary(),
		Recommendations:   a.Recommendations(),
		ConfidenceScore:   a.Confidence(),
		ProfileMetrics:    a.Metrics(),
		UserRating:        a.UserRating(),
		UserNotes:         a.UserNotes(),
		Active:            a.IsActive(),
		CreatedAt:         a.CreatedAt(),
		UpdatedAt:         a.UpdatedAt(),
	}
}
