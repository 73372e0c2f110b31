package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDomain = stderrors.New("rating must be between 1 and 5")

func TestAppError_UnwrapKeepsDomainCause(t *testing.T) {
	err := NewInvalidFeedbackError("rating out of range", errDomain)

	assert.True(t, stderrors.Is(err, errDomain))
	assert.Equal(t, CodeInvalidFeedback, GetCode(err))
	assert.Equal(t, http.StatusBadRequest, err.StatusCode())
}

func TestIs_FindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("assess: %w", NewAssessmentNotFoundError("abc"))

	assert.True(t, Is(wrapped, CodeAssessmentNotFound))
	assert.False(t, Is(wrapped, CodeProductNotFound))
	assert.Equal(t, CodeInternal, GetCode(errDomain))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	original := NewProductNotFoundError("p1")
	assert.Same(t, original, Wrap(original, "ignored"))

	wrapped := Wrap(errDomain, "boom")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, errDomain)
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NewMissingNutritionDataError("p1", nil), http.StatusUnprocessableEntity},
		{NewInvalidProfileDataError("no height", nil), http.StatusBadRequest},
		{NewUserNotFoundError("u1"), http.StatusNotFound},
		{NewBarcodeAlreadyExistsError("123"), http.StatusConflict},
		{NewInsufficientPermissionsError("delete assessment"), http.StatusForbidden},
		{NewDatabaseError("insert", errDomain), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "Age", Tag: "gte", Message: "Age must be at least 13"},
		{Field: "Rating", Tag: "max", Message: "Rating must be at most 5"},
	})

	assert.Equal(t, CodeValidationFailed, err.Code)
	assert.Equal(t, "Age must be at least 13; Rating must be at most 5", err.Details)
	assert.Contains(t, err.Metadata, "validation_errors")
}
