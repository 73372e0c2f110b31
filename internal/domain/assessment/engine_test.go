package assessment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/snacktrack/assessor/internal/domain/health"
	"github.com/snacktrack/assessor/internal/domain/nutrition"
	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/domain/user"
)

var v = product.Value

// EngineTestSuite exercises the aggregation policy end to end.
type EngineTestSuite struct {
	suite.Suite
	engine  *Engine
	profile user.HealthProfile
}

func (suite *EngineTestSuite) SetupTest() {
	suite.engine = NewDefaultEngine()
	suite.profile = user.HealthProfile{
		Age:               30,
		Sex:               health.SexFemale,
		HeightCm:          165,
		WeightKg:          60,
		ActivityLevel:     health.ActivityModerate,
		Goal:              health.GoalMaintain,
		DietaryPreference: health.DietNone,
	}
}

func (suite *EngineTestSuite) TestAllergyDominance() {
	suite.Run("NutsAllergyAndAlmonds_ShouldForceAvoid", func() {
		// Arrange
		p := suite.profile
		p.Allergies = []string{"nuts"}
		in := Input{
			Profile:        p,
			Nutrition:      &product.NutritionFacts{Calories: v(100), SaturatedFatG: v(4)},
			IngredientText: "almonds, sugar, salt",
		}

		// Act
		eval, err := suite.engine.Evaluate(in)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 65, eval.Score, "raw 95 minus the allergy penalty")
		assert.Equal(suite.T(), RecommendationAvoid, eval.Recommendation)
		require.Len(suite.T(), eval.AllergyWarnings, 1)
		assert.Equal(suite.T(), "nuts", eval.AllergyWarnings[0].Allergen)
		assert.Equal(suite.T(), "high", eval.AllergyWarnings[0].Severity)
		assert.Equal(suite.T(),
			"This product scores 65/100 for your health profile. Warning: it contains nuts, which you are allergic to. It is best avoided.",
			eval.Summary)
	})

	suite.Run("AllergyAndDiet_ShouldStackPenaltiesInOrder", func() {
		p := suite.profile
		p.Allergies = []string{"milk"}
		p.DietaryPreference = health.DietVegan

		eval, err := suite.engine.Evaluate(Input{
			Profile:     p,
			Nutrition:   &product.NutritionFacts{Calories: v(100)},
			Ingredients: []string{"milk chocolate", "sugar"},
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 50, eval.Score)
		assert.False(suite.T(), eval.DietaryCompatible)
		assert.Equal(suite.T(), []Adjustment{
			{Source: SourceAllergy, Points: -30, Reason: "Contains milk"},
			{Source: SourceDiet, Points: -20, Reason: "Conflicts with vegan diet: milk"},
		}, eval.Adjustments)
		assert.Equal(suite.T(),
			"This product scores 50/100 for your health profile. Warning: it contains milk, which you are allergic to. It does not fit your vegan diet. It is best avoided.",
			eval.Summary)
	})
}

func (suite *EngineTestSuite) TestScoreBounds() {
	suite.Run("EverythingBad_ShouldClampToZero", func() {
		p := suite.profile
		p.Allergies = []string{"peanuts"}
		p.Conditions = []health.Condition{health.ConditionHypertension, health.ConditionDiabetes, health.ConditionHeartDisease}

		eval, err := suite.engine.Evaluate(Input{
			Profile: p,
			Nutrition: &product.NutritionFacts{
				Calories: v(500), SodiumMg: v(900), SugarG: v(30),
				FatG: v(20), SaturatedFatG: v(8), TransFatG: v(2),
			},
			IngredientText: "peanuts",
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 0, eval.Score)
		assert.Equal(suite.T(), RecommendationAvoid, eval.Recommendation)
	})

	suite.Run("EverythingGood_ShouldClampToHundred", func() {
		p := suite.profile
		p.Goal = health.GoalGainMuscle

		eval, err := suite.engine.Evaluate(Input{
			Profile:   p,
			Nutrition: &product.NutritionFacts{Calories: v(100), ProteinG: v(25), FiberG: v(8)},
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 100, eval.Score)
		assert.Equal(suite.T(), RecommendationExcellent, eval.Recommendation)
	})
}

func (suite *EngineTestSuite) TestGoalAdjustments() {
	tests := []struct {
		name  string
		goal  health.Goal
		facts *product.NutritionFacts
		score int
		tier  Recommendation
	}{
		{
			name:  "LoseWeight_ShouldApplyAllThreeRules",
			goal:  health.GoalLoseWeight,
			facts: &product.NutritionFacts{Calories: v(350), ProteinG: v(20), SugarG: v(12)},
			score: 66,
			tier:  RecommendationGood,
		},
		{
			name:  "GainMuscle_LowProtein_ShouldPenalize",
			goal:  health.GoalGainMuscle,
			facts: &product.NutritionFacts{Calories: v(100), ProteinG: v(4)},
			score: 90,
			tier:  RecommendationExcellent,
		},
		{
			name:  "ImproveHealth_ShouldBalanceFiberAndSodium",
			goal:  health.GoalImproveHealth,
			facts: &product.NutritionFacts{FiberG: v(6), SodiumMg: v(450)},
			score: 93,
			tier:  RecommendationExcellent,
		},
		{
			name:  "Maintain_ShouldHaveNoGoalRules",
			goal:  health.GoalMaintain,
			facts: &product.NutritionFacts{Calories: v(350)},
			score: 85,
			tier:  RecommendationExcellent,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			p := suite.profile
			p.Goal = tt.goal

			eval, err := suite.engine.Evaluate(Input{Profile: p, Nutrition: tt.facts})

			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), tt.score, eval.Score)
			assert.Equal(suite.T(), tt.tier, eval.Recommendation)
		})
	}
}

func (suite *EngineTestSuite) TestRecommendations() {
	suite.Run("Order_ShouldBeFlagsThenCalloutsThenPortions", func() {
		eval, err := suite.engine.Evaluate(Input{
			Profile:   suite.profile,
			Nutrition: &product.NutritionFacts{Calories: v(100), SodiumMg: v(450), ProteinG: v(12), FiberG: v(6)},
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 98, eval.Score)
		require.Len(suite.T(), eval.Recommendations, 4)
		assert.Contains(suite.T(), eval.Recommendations[0], "sodium")
		assert.Equal(suite.T(), "Good source of protein (12 g per serving)", eval.Recommendations[1])
		assert.Equal(suite.T(), "High in fiber (6 g per serving)", eval.Recommendations[2])
		assert.Equal(suite.T(), "It can be enjoyed regularly to keep your diet balanced", eval.Recommendations[3])
	})

	suite.Run("ModerateFlags_ShouldNotAddGuidance", func() {
		eval, err := suite.engine.Evaluate(Input{
			Profile:   suite.profile,
			Nutrition: &product.NutritionFacts{SodiumMg: v(300), SugarG: v(12)},
		})

		require.NoError(suite.T(), err)
		sodium, ok := findResult(eval.Breakdown, nutrition.DimensionSodium)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), nutrition.SeverityModerate, sodium.Flag.Severity)
		require.Len(suite.T(), eval.Recommendations, 1)
		assert.Contains(suite.T(), eval.Recommendations[0], "can be enjoyed")
	})

	suite.Run("PortionGuidance_ShouldFollowFinalScore", func() {
		p := suite.profile
		p.Goal = health.GoalLoseWeight

		low, err := suite.engine.Evaluate(Input{
			Profile:   p,
			Nutrition: &product.NutritionFacts{Calories: v(450), SugarG: v(25), SodiumMg: v(300)},
		})
		require.NoError(suite.T(), err)
		assert.Less(suite.T(), low.Score, 50)
		last := low.Recommendations[len(low.Recommendations)-1]
		assert.True(suite.T(), strings.Contains(last, "very small portions"), last)
		assert.True(suite.T(), strings.HasSuffix(last, "to stay within your calorie target"), last)

		mid, err := suite.engine.Evaluate(Input{
			Profile:   p,
			Nutrition: &product.NutritionFacts{Calories: v(350)},
		})
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 75, mid.Score)
		assert.Contains(suite.T(), mid.Recommendations[len(mid.Recommendations)-1], "can be enjoyed")

		moderate, err := suite.engine.Evaluate(Input{
			Profile:   p,
			Nutrition: &product.NutritionFacts{Calories: v(350), SodiumMg: v(300)},
		})
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 67, moderate.Score)
		assert.Contains(suite.T(), moderate.Recommendations[len(moderate.Recommendations)-1], "moderation")
	})
}

func (suite *EngineTestSuite) TestFailures() {
	suite.Run("NilNutrition_ShouldFailFast", func() {
		eval, err := suite.engine.Evaluate(Input{Profile: suite.profile})

		assert.Nil(suite.T(), eval)
		assert.ErrorIs(suite.T(), err, ErrMissingNutritionData)
	})

	suite.Run("EmptyNutrition_ShouldNotDefaultToPerfectScore", func() {
		_, err := suite.engine.Evaluate(Input{Profile: suite.profile, Nutrition: &product.NutritionFacts{}})

		assert.ErrorIs(suite.T(), err, ErrMissingNutritionData)
	})

	suite.Run("OnlyUnscoredFields_ShouldFailFast", func() {
		for _, facts := range []*product.NutritionFacts{
			{ServingSizeG: v(30)},
			{CholesterolMg: v(10)},
			{CarbsG: v(50)},
			{ServingSizeG: v(30), CarbsG: v(50), CholesterolMg: v(10)},
		} {
			eval, err := suite.engine.Evaluate(Input{Profile: suite.profile, Nutrition: facts})

			assert.Nil(suite.T(), eval)
			assert.ErrorIs(suite.T(), err, ErrMissingNutritionData)
		}
	})

	suite.Run("OneScoredField_ShouldEvaluate", func() {
		eval, err := suite.engine.Evaluate(Input{
			Profile:   suite.profile,
			Nutrition: &product.NutritionFacts{ServingSizeG: v(30), FiberG: v(0)},
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 100, eval.Score)
	})
}

func (suite *EngineTestSuite) TestDeterminism() {
	in := Input{
		Profile:        suite.profile,
		Nutrition:      &product.NutritionFacts{Calories: v(220), SodiumMg: v(260), SugarG: v(9), ProteinG: v(7), FiberG: v(4)},
		IngredientText: "oats, honey, salt",
	}

	first, err := suite.engine.Evaluate(in)
	require.NoError(suite.T(), err)
	second, err := suite.engine.Evaluate(in)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), first, second)
	assert.Equal(suite.T(), 0.85, first.Confidence)
	assert.NotNil(suite.T(), first.Metrics.BMI)
	assert.Len(suite.T(), first.Breakdown, 6)
	assert.Equal(suite.T(), nutrition.DimensionCalories, first.Breakdown[0].Dimension)
}

func findResult(results []nutrition.Result, d nutrition.Dimension) (nutrition.Result, bool) {
	for _, r := range results {
		if r.Dimension == d {
			return r, true
		}
	}
	return nutrition.Result{}, false
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, RecommendationExcellent, TierFor(80))
	assert.Equal(t, RecommendationGood, TierFor(79))
	assert.Equal(t, RecommendationGood, TierFor(60))
	assert.Equal(t, RecommendationModerate, TierFor(59))
	assert.Equal(t, RecommendationModerate, TierFor(40))
	assert.Equal(t, RecommendationAvoid, TierFor(39))
}

func TestOverallHealthScore(t *testing.T) {
	tests := []struct {
		name   string
		counts map[Recommendation]int
		want   int
	}{
		{"no assessments", nil, 0},
		{"mixed", map[Recommendation]int{RecommendationExcellent: 2, RecommendationGood: 1, RecommendationAvoid: 1}, 75},
		{"rounds half up", map[Recommendation]int{RecommendationGood: 1, RecommendationModerate: 1}, 63},
		{"all avoid", map[Recommendation]int{RecommendationAvoid: 3}, 25},
		{"unknown tiers ignored", map[Recommendation]int{"legendary": 5, RecommendationExcellent: 1}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallHealthScore(NewStats(tt.counts)))
		})
	}
}

func TestNewStats_ZeroFills(t *testing.T) {
	s := NewStats(map[Recommendation]int{RecommendationGood: 2})

	assert.Len(t, s.Counts, 4)
	assert.Equal(t, 0, s.Counts[RecommendationExcellent])
	assert.Equal(t, 2, s.Total())
}
