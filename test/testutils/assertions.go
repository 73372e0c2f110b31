// Package testutils provides custom assertions for testing
package testutils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/snacktrack/assessor/internal/domain/assessment"
	"github.com/snacktrack/assessor/internal/ports/inbound"
	"github.com/snacktrack/assessor/pkg/errors"
)

// AssessmentAssertions provides assessment-specific assertions
type AssessmentAssertions struct {
	t *testing.T
}

// NewAssessmentAssertions creates assessment assertions
func NewAssessmentAssertions(t *testing.T) *AssessmentAssertions {
	return &AssessmentAssertions{t: t}
}

// Consistent checks the invariants every assessment satisfies
func (aa *AssessmentAssertions) Consistent(dto *inbound.AssessmentDTO, msgAndArgs ...interface{}) {
	if !assert.NotNil(aa.t, dto, msgAndArgs...) {
		return
	}
	assert.GreaterOrEqual(aa.t, dto.PersonalizedScore, 0, msgAndArgs...)
	assert.LessOrEqual(aa.t, dto.PersonalizedScore, 100, msgAndArgs...)
	assert.NotEmpty(aa.t, dto.Summary, msgAndArgs...)
	assert.NotEmpty(aa.t, dto.Recommendations, msgAndArgs...)

	if len(dto.AllergyWarnings) > 0 {
		assert.Equal(aa.t, assessment.RecommendationAvoid, dto.Recommendation, msgAndArgs...)
	} else {
		assert.Equal(aa.t, assessment.TierFor(dto.PersonalizedScore), dto.Recommendation, msgAndArgs...)
	}
}

// ErrorCode checks that err is an AppError with the given code
func ErrorCode(t *testing.T, err error, code errors.ErrorCode, msgAndArgs ...interface{}) bool {
	if !assert.Error(t, err, msgAndArgs...) {
		return false
	}
	return assert.Equal(t, code, errors.GetCode(err), msgAndArgs...)
}
