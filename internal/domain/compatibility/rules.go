package compatibility

import "github.com/snacktrack/assessor/internal/domain/health"

// conditionTrigger lists ingredient terms that matter for a condition.
type conditionTrigger struct {
	terms  []string
	impact Impact
	reason string
}

// Rules holds the term tables used for matching. All tables are unexported
// and read-only after DefaultRules builds them.
type Rules struct {
	forbidden         map[health.DietaryPreference][]string
	allergenFamilies  map[string][]string
	conditionTriggers map[health.Condition]conditionTrigger
	minReverseToken   int
}

var (
	meatAndFish = []string{
		"meat", "beef", "pork", "chicken", "turkey", "lamb", "veal", "bacon", "ham", "lard",
		"gelatin", "fish", "anchovy", "tuna", "salmon", "shrimp", "crab", "lobster",
	}
	animalProducts = []string{"milk", "cheese", "butter", "cream", "whey", "casein", "yogurt", "egg", "honey"}
	grains         = []string{"wheat", "rice", "oat", "corn", "barley", "rye", "flour", "bread", "pasta"}
	legumes        = []string{"soy", "peanut", "bean", "lentil", "chickpea", "pea protein"}
	dairy          = []string{"milk", "cheese", "butter", "yogurt", "cream", "lactose"}
	gluten         = []string{"wheat", "gluten", "barley", "rye", "malt"}
)

// DefaultRules returns the standard term tables. Keto has no ingredient
// rule: it depends on carbohydrate totals, not ingredient names.
func DefaultRules() Rules {
	return Rules{
		forbidden: map[health.DietaryPreference][]string{
			health.DietVegetarian: meatAndFish,
			health.DietVegan:      concat(meatAndFish, animalProducts),
			health.DietPaleo:      concat(grains, legumes, dairy),
			health.DietGlutenFree: gluten,
			health.DietDairyFree:  dairy,
		},
		allergenFamilies: map[string][]string{
			"nuts":      {"almond", "cashew", "walnut", "hazelnut", "pecan", "pistachio", "macadamia", "brazil nut"},
			"tree nuts": {"almond", "cashew", "walnut", "hazelnut", "pecan", "pistachio", "macadamia", "brazil nut"},
			"dairy":     {"milk", "cheese", "butter", "cream", "whey", "casein", "lactose", "yogurt"},
			"milk":      {"cheese", "butter", "cream", "whey", "casein", "lactose", "yogurt"},
			"gluten":    {"wheat", "barley", "rye", "malt"},
			"wheat":     {"flour", "semolina", "spelt"},
			"soy":       {"soya", "lecithin", "tofu", "edamame"},
			"shellfish": {"shrimp", "prawn", "crab", "lobster", "crayfish"},
			"eggs":      {"egg", "albumin", "mayonnaise"},
			"egg":       {"albumin", "mayonnaise"},
			"fish":      {"anchovy", "cod", "salmon", "tuna", "sardine"},
			"sesame":    {"tahini"},
		},
		conditionTriggers: map[health.Condition]conditionTrigger{
			health.ConditionDiabetes: {
				terms:  []string{"sugar", "syrup", "dextrose", "glucose", "fructose", "maltodextrin", "sucrose"},
				impact: ImpactCaution,
				reason: "Added sugars can raise blood sugar levels",
			},
			health.ConditionHypertension: {
				terms:  []string{"salt", "sodium", "monosodium glutamate", "msg", "brine"},
				impact: ImpactCaution,
				reason: "Adds sodium, which can raise blood pressure",
			},
			health.ConditionCeliac: {
				terms:  gluten,
				impact: ImpactAvoid,
				reason: "Contains gluten, which triggers celiac disease",
			},
			health.ConditionHeartDisease: {
				terms:  []string{"hydrogenated", "shortening", "lard", "palm oil"},
				impact: ImpactCaution,
				reason: "A source of trans or saturated fat",
			},
		},
		minReverseToken: 3,
	}
}

// ForbiddenTerms returns the terms a diet excludes; nil when it has no rule.
func (r Rules) ForbiddenTerms(pref health.DietaryPreference) []string {
	return r.forbidden[pref]
}

// AllergenTerms expands an allergy into every term that should match it.
func (r Rules) AllergenTerms(allergy string) []string {
	return concat([]string{allergy}, r.allergenFamilies[allergy])
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
