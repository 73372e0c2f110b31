package assessment

import (
	"fmt"
	"strings"

	"github.com/snacktrack/assessor/internal/domain/compatibility"
	"github.com/snacktrack/assessor/internal/domain/health"
	"github.com/snacktrack/assessor/internal/domain/nutrition"
)

var closingSentence = map[Recommendation]string{
	RecommendationExcellent: "It is an excellent choice for you.",
	RecommendationGood:      "It is a good choice in sensible portions.",
	RecommendationModerate:  "Enjoy it occasionally rather than every day.",
	RecommendationAvoid:     "It is best avoided.",
}

var goalPhrase = map[health.Goal]string{
	health.GoalLoseWeight:    "to stay within your calorie target",
	health.GoalGainMuscle:    "alongside protein-rich meals",
	health.GoalImproveHealth: "as part of a balanced diet",
}

// buildSummary always renders, in order: score, allergy clause, diet
// clause, closing sentence.
func buildSummary(score int, tier Recommendation, warnings []compatibility.AllergyWarning, compatible bool, pref health.DietaryPreference) string {
	parts := []string{fmt.Sprintf("This product scores %d/100 for your health profile.", score)}
	if len(warnings) > 0 {
		parts = append(parts, fmt.Sprintf("Warning: it contains %s, which you are allergic to.", strings.Join(allergens(warnings), ", ")))
	}
	if !compatible {
		parts = append(parts, fmt.Sprintf("It does not fit your %s diet.", dietName(pref)))
	}
	parts = append(parts, closingSentence[tier])
	return strings.Join(parts, " ")
}

// buildRecommendations lists flagged dimensions first, then positive
// callouts, then portion guidance for the final score.
func buildRecommendations(analysis nutrition.Analysis, score int, goal health.Goal) []string {
	var recs []string

	for _, r := range analysis.Flagged() {
		if r.Recommendation != "" {
			recs = append(recs, r.Recommendation)
		}
	}

	if p, ok := analysis.Result(nutrition.DimensionProtein); ok && p.Available && p.Value > 10 {
		recs = append(recs, fmt.Sprintf("Good source of protein (%.0f g per serving)", p.Value))
	}
	if f, ok := analysis.Result(nutrition.DimensionFiber); ok && f.Available && f.Value > 5 {
		recs = append(recs, fmt.Sprintf("High in fiber (%.0f g per serving)", f.Value))
	}

	phrase, ok := goalPhrase[goal]
	if !ok {
		phrase = "to keep your diet balanced"
	}
	switch {
	case score < 50:
		recs = append(recs, fmt.Sprintf("If you eat it, stick to very small portions %s", phrase))
	case score < 70:
		recs = append(recs, fmt.Sprintf("Eat it in moderation %s", phrase))
	default:
		recs = append(recs, fmt.Sprintf("It can be enjoyed regularly %s", phrase))
	}

	return recs
}
