// Package compatibility matches ingredient text against allergies, dietary
// preferences and health conditions.
//
// Matching is plain case-insensitive substring search. It over-matches on
// purpose: "coconut milk" trips a milk allergy, and "graham" trips the
// vegetarian "ham" rule. A missed allergen is worse than a false warning.
package compatibility

import (
	"fmt"
	"strings"

	"github.com/snacktrack/assessor/internal/domain/health"
	"github.com/snacktrack/assessor/internal/domain/user"
)

// AllergySeverity is always high: any declared allergy match is treated as
// dangerous.
const AllergySeverity = "high"

// AllergyWarning reports one matched allergy.
type AllergyWarning struct {
	Allergen string `json:"allergen"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Impact is the verdict for a single ingredient.
type Impact string

const (
	ImpactAvoid   Impact = "avoid"
	ImpactCaution Impact = "caution"
	ImpactSafe    Impact = "safe"
)

// IngredientVerdict explains how one ingredient affects the user.
type IngredientVerdict struct {
	Ingredient string `json:"ingredient"`
	Impact     Impact `json:"impact"`
	Reason     string `json:"reason"`
}

// Checker applies a fixed set of Rules.
type Checker struct {
	rules Rules
}

// NewChecker creates a checker bound to the rules.
func NewChecker(rules Rules) *Checker {
	return &Checker{rules: rules}
}

var defaultChecker = NewChecker(DefaultRules())

// HasAllergy reports whether the text matches any allergy. An allergy matches
// when the text contains it (or a member of its allergen family), or when
// the allergy contains one of the text's ingredient tokens.
func (c *Checker) HasAllergy(ingredientText string, allergies []string) bool {
	return len(c.MatchedAllergies(ingredientText, allergies)) > 0
}

// MatchedAllergies returns the allergies found in the text, in the order they
// were declared.
func (c *Checker) MatchedAllergies(ingredientText string, allergies []string) []string {
	text := strings.ToLower(ingredientText)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	tokens := tokenize(text)

	var matched []string
	for _, allergy := range health.NormalizeTerms(allergies) {
		if c.matchesAllergy(text, tokens, allergy) {
			matched = append(matched, allergy)
		}
	}
	return matched
}

func (c *Checker) matchesAllergy(text string, tokens []string, allergy string) bool {
	for _, term := range c.rules.AllergenTerms(allergy) {
		if strings.Contains(text, term) {
			return true
		}
	}
	for _, tok := range tokens {
		if len(tok) >= c.rules.minReverseToken && strings.Contains(allergy, tok) {
			return true
		}
	}
	return false
}

// CheckAllergyWarnings returns one warning per matched allergy.
func (c *Checker) CheckAllergyWarnings(ingredientText string, allergies []string) []AllergyWarning {
	matched := c.MatchedAllergies(ingredientText, allergies)
	if len(matched) == 0 {
		return nil
	}
	warnings := make([]AllergyWarning, len(matched))
	for i, allergen := range matched {
		warnings[i] = AllergyWarning{
			Allergen: allergen,
			Severity: AllergySeverity,
			Message:  fmt.Sprintf("Contains %s, which you are allergic to", allergen),
		}
	}
	return warnings
}

// IsCompatibleWith reports whether no forbidden term of the diet appears in
// the ingredients. The none preference, keto and unknown preferences are
// always compatible.
func (c *Checker) IsCompatibleWith(ingredients []string, pref health.DietaryPreference) bool {
	return len(c.ConflictingTerms(ingredients, pref)) == 0
}

// ConflictingTerms returns the forbidden terms found in the ingredients, in
// table order.
func (c *Checker) ConflictingTerms(ingredients []string, pref health.DietaryPreference) []string {
	terms := c.rules.ForbiddenTerms(pref)
	if len(terms) == 0 {
		return nil
	}
	joined := strings.ToLower(strings.Join(ingredients, " "))

	var conflicts []string
	for _, term := range terms {
		if strings.Contains(joined, term) {
			conflicts = append(conflicts, term)
		}
	}
	return conflicts
}

// AnalyzeIngredients gives each ingredient a verdict for this profile.
// Allergies and diet conflicts mean avoid; condition triggers mean caution
// unless the condition makes the ingredient unsafe outright.
func (c *Checker) AnalyzeIngredients(profile user.HealthProfile, ingredients []string) []IngredientVerdict {
	verdicts := make([]IngredientVerdict, 0, len(ingredients))
	for _, ingredient := range ingredients {
		name := strings.TrimSpace(ingredient)
		if name == "" {
			continue
		}
		verdicts = append(verdicts, c.verdictFor(profile, name))
	}
	return verdicts
}

func (c *Checker) verdictFor(profile user.HealthProfile, ingredient string) IngredientVerdict {
	if matched := c.MatchedAllergies(ingredient, profile.Allergies); len(matched) > 0 {
		return IngredientVerdict{
			Ingredient: ingredient,
			Impact:     ImpactAvoid,
			Reason:     fmt.Sprintf("Matches your %s allergy", matched[0]),
		}
	}

	if conflicts := c.ConflictingTerms([]string{ingredient}, profile.DietaryPreference); len(conflicts) > 0 {
		return IngredientVerdict{
			Ingredient: ingredient,
			Impact:     ImpactAvoid,
			Reason:     fmt.Sprintf("Not suitable for a %s diet", strings.ReplaceAll(string(profile.DietaryPreference), "_", "-")),
		}
	}

	lower := strings.ToLower(ingredient)
	var caution *IngredientVerdict
	for _, cond := range profile.Conditions {
		trigger, ok := c.rules.conditionTriggers[cond]
		if !ok || !containsAny(lower, trigger.terms) {
			continue
		}
		v := IngredientVerdict{Ingredient: ingredient, Impact: trigger.impact, Reason: trigger.reason}
		if trigger.impact == ImpactAvoid {
			return v
		}
		if caution == nil {
			caution = &v
		}
	}
	if caution != nil {
		return *caution
	}

	return IngredientVerdict{Ingredient: ingredient, Impact: ImpactSafe, Reason: "No concerns for your profile"}
}

// HasAllergy uses the default rules.
func HasAllergy(ingredientText string, allergies []string) bool {
	return defaultChecker.HasAllergy(ingredientText, allergies)
}

// CheckAllergyWarnings uses the default rules.
func CheckAllergyWarnings(ingredientText string, allergies []string) []AllergyWarning {
	return defaultChecker.CheckAllergyWarnings(ingredientText, allergies)
}

// IsCompatibleWith uses the default rules.
func IsCompatibleWith(ingredients []string, pref health.DietaryPreference) bool {
	return defaultChecker.IsCompatibleWith(ingredients, pref)
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ',', ';', ':', '(', ')', '[', ']', '.', '\n':
			return true
		}
		return false
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
