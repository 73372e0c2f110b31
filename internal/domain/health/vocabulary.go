// Package health defines the vocabulary shared by the assessment domain:
// sexes, activity levels, goals, dietary preferences and conditions.
package health

import "strings"

// Sex selects the BMR formula branch. Any value other than male or female
// is treated as SexOther.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// ActivityLevel describes how active a person is day to day.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Goal is the user's primary health goal.
type Goal string

const (
	GoalLoseWeight    Goal = "lose_weight"
	GoalGainMuscle    Goal = "gain_muscle"
	GoalMaintain      Goal = "maintain"
	GoalImproveHealth Goal = "improve_health"
)

// DietaryPreference is the diet the user follows.
type DietaryPreference string

const (
	DietNone       DietaryPreference = "none"
	DietVegetarian DietaryPreference = "vegetarian"
	DietVegan      DietaryPreference = "vegan"
	DietKeto       DietaryPreference = "keto"
	DietPaleo      DietaryPreference = "paleo"
	DietGlutenFree DietaryPreference = "gluten_free"
	DietDairyFree  DietaryPreference = "dairy_free"
)

// Condition is a diagnosed health condition. The set is open: unknown
// conditions are stored but do not change scoring.
type Condition string

const (
	ConditionDiabetes     Condition = "diabetes"
	ConditionHypertension Condition = "hypertension"
	ConditionHeartDisease Condition = "heart_disease"
	ConditionCeliac       Condition = "celiac"
)

var (
	activityLevels = []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive}
	goals          = []Goal{GoalLoseWeight, GoalGainMuscle, GoalMaintain, GoalImproveHealth}
	diets          = []DietaryPreference{DietNone, DietVegetarian, DietVegan, DietKeto, DietPaleo, DietGlutenFree, DietDairyFree}
)

// IsKnown reports whether the level is one of the five defined levels.
func (a ActivityLevel) IsKnown() bool {
	for _, l := range activityLevels {
		if l == a {
			return true
		}
	}
	return false
}

// IsKnown reports whether the goal is one of the defined goals.
func (g Goal) IsKnown() bool {
	for _, v := range goals {
		if v == g {
			return true
		}
	}
	return false
}

// AimsForProtein reports whether protein-dense foods serve this goal.
func (g Goal) AimsForProtein() bool {
	return g == GoalLoseWeight || g == GoalGainMuscle
}

// IsKnown reports whether the preference is one of the defined diets.
func (d DietaryPreference) IsKnown() bool {
	for _, v := range diets {
		if v == d {
			return true
		}
	}
	return false
}

// ParseSex normalizes free text to a Sex, mapping anything unrecognized to SexOther.
func ParseSex(s string) Sex {
	switch Sex(normalize(s)) {
	case SexMale:
		return SexMale
	case SexFemale:
		return SexFemale
	default:
		return SexOther
	}
}

// ParseActivityLevel lowercases and trims the input. Unknown levels are kept
// verbatim; calculators fall back to the moderate multiplier for them.
func ParseActivityLevel(s string) ActivityLevel {
	return ActivityLevel(normalize(s))
}

// ParseGoal lowercases and trims the input.
func ParseGoal(s string) Goal {
	return Goal(normalize(s))
}

// ParseDietaryPreference lowercases and trims the input; empty means none.
func ParseDietaryPreference(s string) DietaryPreference {
	d := DietaryPreference(normalize(s))
	if d == "" {
		return DietNone
	}
	return d
}

// NormalizeTerms lowercases and trims every entry, drops empties and
// duplicates, and keeps first-seen order.
func NormalizeTerms(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		term := normalize(item)
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

// NormalizeConditions is NormalizeTerms for condition sets.
func NormalizeConditions(items []string) []Condition {
	terms := NormalizeTerms(items)
	out := make([]Condition, len(terms))
	for i, t := range terms {
		out[i] = Condition(t)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
