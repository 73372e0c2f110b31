// Package assessment scores products against a user's health profile and
// manages the resulting assessment records.
package assessment

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/snacktrack/assessor/internal/domain/compatibility"
	"github.com/snacktrack/assessor/internal/domain/nutrition"
	"github.com/snacktrack/assessor/internal/domain/physiology"
	"github.com/snacktrack/assessor/internal/domain/shared"
)

const maxNotesLength = 1000

// Assessment is the stored result of evaluating one product for one user.
// Computed fields never change after creation; only feedback and the
// superseded marker do.
type Assessment struct {
	shared.AggregateRoot

	id                uuid.UUID
	userID            uuid.UUID
	productID         uuid.UUID
	score             int
	recommendation    Recommendation
	allergyWarnings   []compatibility.AllergyWarning
	dietaryCompatible bool
	breakdown         []nutrition.Result
	adjustments       []Adjustment
	summary           string
	recommendations   []string
	confidence        float64
	metrics           physiology.Metrics
	userRating        *int
	userNotes         *string
	createdAt         time.Time
	updatedAt         time.Time
	supersededAt      *time.Time
}

// State is the persisted form of an Assessment.
type State struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	ProductID         uuid.UUID
	Score             int
	Recommendation    Recommendation
	AllergyWarnings   []compatibility.AllergyWarning
	DietaryCompatible bool
	Breakdown         []nutrition.Result
	Adjustments       []Adjustment
	Summary           string
	Recommendations   []string
	Confidence        float64
	Metrics           physiology.Metrics
	UserRating        *int
	UserNotes         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	SupersededAt      *time.Time
}

// NewAssessment records an evaluation for a (user, product) pair.
func NewAssessment(userID, productID uuid.UUID, eval *Evaluation) *Assessment {
	now := time.Now().UTC()
	a := &Assessment{
		id:                uuid.New(),
		userID:            userID,
		productID:         productID,
		score:             eval.Score,
		recommendation:    eval.Recommendation,
		allergyWarnings:   eval.AllergyWarnings,
		dietaryCompatible: eval.DietaryCompatible,
		breakdown:         eval.Breakdown,
		adjustments:       eval.Adjustments,
		summary:           eval.Summary,
		recommendations:   eval.Recommendations,
		confidence:        eval.Confidence,
		metrics:           eval.Metrics,
		createdAt:         now,
		updatedAt:         now,
	}

	a.AddEvent(AssessmentCreatedEvent{
		BaseEvent:      shared.NewBaseEvent(),
		AssessmentID:   a.id,
		UserID:         userID,
		ProductID:      productID,
		Score:          a.score,
		Recommendation: a.recommendation,
		AllergyForced:  len(a.allergyWarnings) > 0,
	})
	return a
}

// Reconstitute rebuilds an assessment from persisted state without raising
// events.
func Reconstitute(s State) *Assessment {
	return &Assessment{
		id:                s.ID,
		userID:            s.UserID,
		productID:         s.ProductID,
		score:             s.Score,
		recommendation:    s.Recommendation,
		allergyWarnings:   s.AllergyWarnings,
		dietaryCompatible: s.DietaryCompatible,
		breakdown:         s.Breakdown,
		adjustments:       s.Adjustments,
		summary:           s.Summary,
		recommendations:   s.Recommendations,
		confidence:        s.Confidence,
		metrics:           s.Metrics,
		userRating:        s.UserRating,
		userNotes:         s.UserNotes,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		supersededAt:      s.SupersededAt,
	}
}

// State exports the assessment for persistence.
func (a *Assessment) State() State {
	return State{
		ID:                a.id,
		UserID:            a.userID,
		ProductID:         a.productID,
		Score:             a.score,
		Recommendation:    a.recommendation,
		AllergyWarnings:   a.allergyWarnings,
		DietaryCompatible: a.dietaryCompatible,
		Breakdown:         a.breakdown,
		Adjustments:       a.adjustments,
		Summary:           a.summary,
		Recommendations:   a.recommendations,
		Confidence:        a.confidence,
		Metrics:           a.metrics,
		UserRating:        a.userRating,
		UserNotes:         a.userNotes,
		CreatedAt:         a.createdAt,
		UpdatedAt:         a.updatedAt,
		SupersededAt:      a.supersededAt,
	}
}

func (a *Assessment) ID() uuid.UUID                  { return a.id }
func (a *Assessment) UserID() uuid.UUID              { return a.userID }
func (a *Assessment) ProductID() uuid.UUID           { return a.productID }
func (a *Assessment) Score() int                     { return a.score }
func (a *Assessment) Recommendation() Recommendation { return a.recommendation }
func (a *Assessment) DietaryCompatible() bool        { return a.dietaryCompatible }
func (a *Assessment) Summary() string                { return a.summary }
func (a *Assessment) Confidence() float64            { return a.confidence }
func (a *Assessment) Metrics() physiology.Metrics    { return a.metrics }
func (a *Assessment) UserRating() *int               { return a.userRating }
func (a *Assessment) UserNotes() *string             { return a.userNotes }
func (a *Assessment) CreatedAt() time.Time           { return a.createdAt }
func (a *Assessment) UpdatedAt() time.Time           { return a.updatedAt }
func (a *Assessment) SupersededAt() *time.Time       { return a.supersededAt }

// AllergyWarnings returns a copy of the warnings.
func (a *Assessment) AllergyWarnings() []compatibility.AllergyWarning {
	return append([]compatibility.AllergyWarning(nil), a.allergyWarnings...)
}

// Breakdown returns a copy of the per-dimension results.
func (a *Assessment) Breakdown() []nutrition.Result {
	return append([]nutrition.Result(nil), a.breakdown...)
}

// Adjustments returns a copy of the personalized adjustments.
func (a *Assessment) Adjustments() []Adjustment {
	return append([]Adjustment(nil), a.adjustments...)
}

// Recommendations returns a copy of the health recommendations.
func (a *Assessment) Recommendations() []string {
	return append([]string(nil), a.recommendations...)
}

// IsActive reports whether this is the current assessment for its pair.
func (a *Assessment) IsActive() bool {
	return a.supersededAt == nil
}

// IsOwnedBy reports whether the user owns the assessment.
func (a *Assessment) IsOwnedBy(userID uuid.UUID) bool {
	return a.userID == userID
}

// AttachFeedback sets the rating, the notes, or both. Fields left nil keep
// their current value. Nothing changes if validation fails.
func (a *Assessment) AttachFeedback(rating *int, notes *string) error {
	if rating == nil && notes == nil {
		return ErrEmptyFeedback
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return ErrInvalidFeedback
	}
	var trimmed string
	if notes != nil {
		trimmed = strings.TrimSpace(*notes)
		if utf8.RuneCountInString(trimmed) > maxNotesLength {
			return ErrNotesTooLong
		}
	}

	if rating != nil {
		r := *rating
		a.userRating = &r
	}
	if notes != nil {
		a.userNotes = &trimmed
	}
	a.updatedAt = time.Now().UTC()

	a.AddEvent(FeedbackAttachedEvent{
		BaseEvent:    shared.NewBaseEvent(),
		AssessmentID: a.id,
		Rating:       a.userRating,
	})
	return nil
}

// Supersede retires this assessment in favor of a fresh one.
func (a *Assessment) Supersede(at time.Time) error {
	if a.supersededAt != nil {
		return ErrAlreadySuperseded
	}
	at = at.UTC()
	a.supersededAt = &at
	a.updatedAt = at

	a.AddEvent(AssessmentSupersededEvent{
		BaseEvent:    shared.NewBaseEvent(),
		AssessmentID: a.id,
		UserID:       a.userID,
		ProductID:    a.productID,
	})
	return nil
}

// MarkDeleted checks ownership and raises the deletion event. The caller
// removes the record from storage.
func (a *Assessment) MarkDeleted(by uuid.UUID) error {
	if !a.IsOwnedBy(by) {
		return ErrNotAssessmentOwner
	}
	a.AddEvent(AssessmentDeletedEvent{
		BaseEvent:    shared.NewBaseEvent(),
		AssessmentID: a.id,
		UserID:       a.userID,
	})
	return nil
}
