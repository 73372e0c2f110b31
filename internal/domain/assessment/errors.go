package assessment

import "errors"

// Domain errors for assessment operations

var (
	// Evaluation
	ErrMissingNutritionData = errors.New("nutrition data unavailable")

	// Feedback
	ErrInvalidFeedback = errors.New("rating must be between 1 and 5")
	ErrEmptyFeedback   = errors.New("feedback must include a rating or notes")
	ErrNotesTooLong    = errors.New("feedback notes must not exceed 1000 characters")

	// Lifecycle
	ErrAlreadySuperseded  = errors.New("assessment has already been superseded")
	ErrNotAssessmentOwner = errors.New("only the assessment owner can perform this action")
)
