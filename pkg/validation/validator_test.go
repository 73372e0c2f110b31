package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/snacktrack/assessor/pkg/errors"
)

type profileInput struct {
	Age           int      `json:"age" validate:"omitempty,gte=13,lte=120"`
	Sex           string   `json:"sex" validate:"omitempty,sex"`
	ActivityLevel string   `json:"activity_level" validate:"omitempty,activity_level"`
	Goal          string   `json:"health_goal" validate:"omitempty,health_goal"`
	Diet          string   `json:"dietary_preference" validate:"omitempty,dietary_preference"`
	Allergies     []string `json:"allergies" validate:"omitempty,dive,required"`
}

func TestValidator_Struct(t *testing.T) {
	v := New(zap.NewNop())

	t.Run("ValidInput_ShouldPass", func(t *testing.T) {
		err := v.Struct(profileInput{
			Age:           30,
			Sex:           "Female",
			ActivityLevel: "very_active",
			Goal:          "gain_muscle",
			Diet:          "VEGAN",
			Allergies:     []string{"nuts"},
		})

		assert.NoError(t, err)
	})

	t.Run("EmptyInput_ShouldPass", func(t *testing.T) {
		assert.NoError(t, v.Struct(profileInput{}))
	})

	t.Run("UnknownVocabulary_ShouldReportEachField", func(t *testing.T) {
		err := v.Struct(profileInput{
			Age:           7,
			Sex:           "robot",
			ActivityLevel: "couch",
			Goal:          "get_rich",
			Diet:          "carnivore",
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeValidationFailed))

		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		violations, ok := appErr.Metadata["validation_errors"].(errors.ValidationErrors)
		require.True(t, ok)

		fields := make([]string, 0, len(violations))
		for _, violation := range violations {
			fields = append(fields, violation.Field)
		}
		assert.ElementsMatch(t, []string{"age", "sex", "activity_level", "health_goal", "dietary_preference"}, fields)
	})

	t.Run("BlankAllergy_ShouldFail", func(t *testing.T) {
		err := v.Struct(profileInput{Allergies: []string{"nuts", ""}})

		assert.True(t, errors.Is(err, errors.CodeValidationFailed))
	})
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "great snack", Sanitize("  <b>great</b>\n\tsnack ", 0))
	assert.Equal(t, "abc", Sanitize("abcdef", 3))
	assert.Equal(t, "", Sanitize("<br/>", 10))
}
