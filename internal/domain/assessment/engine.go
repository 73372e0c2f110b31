package assessment

import (
	"strings"

	"github.com/snacktrack/assessor/internal/domain/compatibility"
	"github.com/snacktrack/assessor/internal/domain/health"
	"github.com/snacktrack/assessor/internal/domain/nutrition"
	"github.com/snacktrack/assessor/internal/domain/physiology"
	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/domain/user"
)

// Adjustment sources
const (
	SourceAllergy = "allergy"
	SourceDiet    = "diet"
	SourceGoal    = "goal"
)

// Adjustment is a personalized change applied on top of the nutrition score.
type Adjustment struct {
	Source string `json:"source"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// Input is everything the engine needs for one evaluation.
type Input struct {
	Profile        user.HealthProfile
	Nutrition      *product.NutritionFacts
	IngredientText string
	Ingredients    []string
}

// Evaluation is the engine's output. It is fully determined by the Input
// and the engine's policy.
type Evaluation struct {
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
}

// Policy holds the personalization constants.
type Policy struct {
	AllergyPenalty  int
	DietPenalty     int
	ConfidenceScore float64
}

// DefaultPolicy returns the standard personalization constants.
func DefaultPolicy() Policy {
	return Policy{
		AllergyPenalty:  30,
		DietPenalty:     20,
		ConfidenceScore: 0.85,
	}
}

// Engine combines the nutrition analysis with allergies, diet and goal into a
// personalized score. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	analyzer *nutrition.Analyzer
	checker  *compatibility.Checker
	calc     *physiology.Calculator
	policy   Policy
}

// NewEngine wires an engine from its collaborators.
func NewEngine(analyzer *nutrition.Analyzer, checker *compatibility.Checker, calc *physiology.Calculator, policy Policy) *Engine {
	return &Engine{analyzer: analyzer, checker: checker, calc: calc, policy: policy}
}

// NewDefaultEngine uses the default rules, standards and policy.
func NewDefaultEngine() *Engine {
	return NewEngine(
		nutrition.NewAnalyzer(nutrition.DefaultRules()),
		compatibility.NewChecker(compatibility.DefaultRules()),
		physiology.NewCalculator(physiology.DefaultStandards()),
		DefaultPolicy(),
	)
}

// Evaluate scores a product for a profile. It fails with
// ErrMissingNutritionData when none of the scored nutrients is known, even if
// unscored fields such as serving size are present.
func (e *Engine) Evaluate(in Input) (*Evaluation, error) {
	if in.Nutrition.IsEmpty() {
		return nil, ErrMissingNutritionData
	}

	analysis := e.analyzer.Analyze(in.Profile, in.Nutrition)
	if !analysis.HasData() {
		return nil, ErrMissingNutritionData
	}
	score := analysis.BaseScore()

	allergyText := in.IngredientText
	if strings.TrimSpace(allergyText) == "" {
		allergyText = strings.Join(in.Ingredients, ", ")
	}
	dietIngredients := in.Ingredients
	if len(dietIngredients) == 0 && in.IngredientText != "" {
		dietIngredients = []string{in.IngredientText}
	}

	var adjustments []Adjustment

	warnings := e.checker.CheckAllergyWarnings(allergyText, in.Profile.Allergies)
	if len(warnings) > 0 {
		adjustments = append(adjustments, Adjustment{
			Source: SourceAllergy,
			Points: -e.policy.AllergyPenalty,
			Reason: "Contains " + strings.Join(allergens(warnings), ", "),
		})
	}

	conflicts := e.checker.ConflictingTerms(dietIngredients, in.Profile.DietaryPreference)
	compatible := len(conflicts) == 0
	if !compatible {
		adjustments = append(adjustments, Adjustment{
			Source: SourceDiet,
			Points: -e.policy.DietPenalty,
			Reason: "Conflicts with " + dietName(in.Profile.DietaryPreference) + " diet: " + strings.Join(conflicts, ", "),
		})
	}

	adjustments = append(adjustments, goalAdjustments(in.Profile.Goal, in.Nutrition)...)

	for _, adj := range adjustments {
		score += adj.Points
	}
	score = nutrition.Clamp(score)

	tier := TierFor(score)
	if len(warnings) > 0 {
		tier = RecommendationAvoid
	}

	eval := &Evaluation{
		Score:             score,
		Recommendation:    tier,
		AllergyWarnings:   warnings,
		DietaryCompatible: compatible,
		Breakdown:         analysis.Results,
		Adjustments:       adjustments,
		Confidence:        e.policy.ConfidenceScore,
		Metrics:           e.calc.Metrics(in.Profile.Measurements()),
	}
	eval.Summary = buildSummary(score, tier, warnings, compatible, in.Profile.DietaryPreference)
	eval.Recommendations = buildRecommendations(analysis, score, in.Profile.Goal)
	return eval, nil
}

// AnalyzeIngredients returns a per-ingredient verdict for the profile.
func (e *Engine) AnalyzeIngredients(profile user.HealthProfile, ingredients []string) []compatibility.IngredientVerdict {
	return e.checker.AnalyzeIngredients(profile, ingredients)
}

// goalAdjustments applies goal-specific rules. A rule whose nutrient is
// unknown is skipped.
func goalAdjustments(goal health.Goal, facts *product.NutritionFacts) []Adjustment {
	var out []Adjustment
	add := func(value *float64, ok func(float64) bool, points int, reason string) {
		if value != nil && ok(*value) {
			out = append(out, Adjustment{Source: SourceGoal, Points: points, Reason: reason})
		}
	}
	above := func(limit float64) func(float64) bool { return func(v float64) bool { return v > limit } }
	below := func(limit float64) func(float64) bool { return func(v float64) bool { return v < limit } }

	switch goal {
	case health.GoalLoseWeight:
		add(facts.Calories, above(300), -10, "Over 300 kcal per serving works against weight loss")
		add(facts.ProteinG, above(15), 10, "Protein over 15 g helps keep you full")
		if sugar, ok := facts.TotalSugar(); ok {
			add(&sugar, above(10), -15, "Over 10 g sugar works against weight loss")
		}
	case health.GoalGainMuscle:
		add(facts.ProteinG, above(20), 15, "Protein over 20 g supports muscle gain")
		add(facts.ProteinG, below(5), -10, "Under 5 g protein does little for muscle gain")
	case health.GoalImproveHealth:
		add(facts.FiberG, above(5), 10, "Fiber over 5 g supports overall health")
		add(facts.SodiumMg, above(400), -10, "Over 400 mg sodium works against overall health")
	}
	return out
}

func allergens(warnings []compatibility.AllergyWarning) []string {
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.Allergen
	}
	return out
}

func dietName(pref health.DietaryPreference) string {
	return strings.ReplaceAll(string(pref), "_", "-")
}
