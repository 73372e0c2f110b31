package testutils

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snacktrack/assessor/internal/domain/health"
)

func TestRandomProfile_IsAcceptedByUser(t *testing.T) {
	faker := gofakeit.New(7)
	for i := 0; i < 20; i++ {
		profile := RandomProfile(faker)

		u, err := NewUserBuilder().WithProfile(profile).Build()

		require.NoError(t, err)
		assert.True(t, u.Profile().Goal.IsKnown())
		assert.True(t, u.Profile().DietaryPreference.IsKnown())
		assert.Len(t, u.Profile().Allergies, 1)
	}
}

func TestUserBuilder_WithGoal(t *testing.T) {
	u := NewUserBuilder().WithGoal(health.GoalGainMuscle).MustBuild()

	assert.Equal(t, health.GoalGainMuscle, u.Profile().Goal)
}

func TestProductBuilder_Ingredients(t *testing.T) {
	p := NewProductBuilder().
		WithIngredientText("Almonds, Salt").
		WithIngredients("almonds", " ", "salt").
		MustBuild()

	assert.Equal(t, []string{"almonds", "salt"}, p.Ingredients())
	assert.Empty(t, p.IngredientText())

	p = NewProductBuilder().WithIngredientText("  Oats, Honey ").MustBuild()
	assert.Equal(t, "Oats, Honey", p.IngredientText())
}
