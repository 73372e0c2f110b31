package assessment

// Recommendation is the user-facing tier, ordered excellent > good >
// moderate > avoid.
type Recommendation string

const (
	RecommendationExcellent Recommendation = "excellent"
	RecommendationGood      Recommendation = "good"
	RecommendationModerate  Recommendation = "moderate"
	RecommendationAvoid     Recommendation = "avoid"
)

// Recommendations lists every tier from best to worst.
var Recommendations = []Recommendation{
	RecommendationExcellent,
	RecommendationGood,
	RecommendationModerate,
	RecommendationAvoid,
}

// TierFor maps a score to its tier.
func TierFor(score int) Recommendation {
	switch {
	case score >= 80:
		return RecommendationExcellent
	case score >= 60:
		return RecommendationGood
	case score >= 40:
		return RecommendationModerate
	default:
		return RecommendationAvoid
	}
}

// Rank orders tiers: higher is better. Unknown tiers rank 0.
func (r Recommendation) Rank() int {
	switch r {
	case RecommendationExcellent:
		return 4
	case RecommendationGood:
		return 3
	case RecommendationModerate:
		return 2
	case RecommendationAvoid:
		return 1
	default:
		return 0
	}
}

// Weight is the tier's contribution to the overall health score.
func (r Recommendation) Weight() int {
	return r.Rank() * 25
}

// IsValid reports whether r is one of the four tiers.
func (r Recommendation) IsValid() bool {
	return r.Rank() > 0
}
