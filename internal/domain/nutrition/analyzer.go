// Package nutrition scores each nutrient dimension of a serving against a
// health profile. Analyzers are pure: the same input always yields the same
// result.
package nutrition

import (
	"fmt"
	"math"

	"github.com/snacktrack/assessor/internal/domain/health"
	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/domain/user"
)

// Dimension names one scored aspect of a product.
type Dimension string

const (
	DimensionCalories Dimension = "calories"
	DimensionSodium   Dimension = "sodium"
	DimensionSugar    Dimension = "sugar"
	DimensionFat      Dimension = "fat"
	DimensionProtein  Dimension = "protein"
	DimensionFiber    Dimension = "fiber"
)

// Severity ranks a flag.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
)

// Flag codes
const (
	FlagHighCalorie      = "HIGH_CALORIE"
	FlagHighSodium       = "HIGH_SODIUM"
	FlagHighSugar        = "HIGH_SUGAR"
	FlagContainsTransFat = "CONTAINS_TRANS_FAT"
)

// Flag marks a dimension that needs the user's attention. The zero value
// means no flag.
type Flag struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
}

// IsSet reports whether the flag was raised.
func (f Flag) IsSet() bool {
	return f.Code != ""
}

// Result is the outcome of one analyzer.
type Result struct {
	Dimension      Dimension `json:"dimension"`
	Available      bool      `json:"available"`
	Value          float64   `json:"value"`
	Unit           string    `json:"unit"`
	Percentage     float64   `json:"percentage"`
	Penalty        int       `json:"penalty"`
	Bonus          int       `json:"bonus"`
	Message        string    `json:"message"`
	Flag           Flag      `json:"flag"`
	Recommendation string    `json:"recommendation,omitempty"`
}

// Impact is the signed contribution to the score.
func (r Result) Impact() int {
	return r.Bonus - r.Penalty
}

// Analyzer applies a fixed set of Rules.
type Analyzer struct {
	rules Rules
}

// NewAnalyzer creates an analyzer bound to the rules.
func NewAnalyzer(rules Rules) *Analyzer {
	return &Analyzer{rules: rules}
}

// Analyze runs every dimension in a fixed order.
func (a *Analyzer) Analyze(profile user.HealthProfile, facts *product.NutritionFacts) Analysis {
	if facts == nil {
		facts = &product.NutritionFacts{}
	}
	return Analysis{Results: []Result{
		a.Calories(facts.Calories, profile.ActivityLevel),
		a.Sodium(facts.SodiumMg, profile.HasCondition(health.ConditionHypertension)),
		a.Sugar(facts, profile.HasCondition(health.ConditionDiabetes)),
		a.Fat(facts.FatG, facts.SaturatedFatG, facts.TransFatG, profile.HasCondition(health.ConditionHeartDisease)),
		a.Protein(facts.ProteinG, profile.Goal),
		a.Fiber(facts.FiberG),
	}}
}

// Calories compares the serving with a per-activity daily target.
func (a *Analyzer) Calories(calories *float64, level health.ActivityLevel) Result {
	res := Result{Dimension: DimensionCalories, Unit: "kcal"}
	if calories == nil {
		res.Message = "Calorie content not available"
		return res
	}

	target := a.rules.CalorieTarget(level)
	res.Available = true
	res.Value = *calories
	res.Percentage = percentOf(*calories, target)

	if t, idx, ok := a.rules.caloriePct.match(*calories / target * 100); ok {
		res.Penalty = t.points(false)
		if idx == 0 {
			res.Flag = Flag{Code: FlagHighCalorie, Severity: SeverityModerate}
		}
		res.Message = fmt.Sprintf("%.0f kcal is %.1f%% of your %.0f kcal daily target", *calories, res.Percentage, target)
		return res
	}
	res.Message = fmt.Sprintf("%.0f kcal is a modest share of your daily target", *calories)
	return res
}

// Sodium penalizes salty servings, harder for hypertensive users.
func (a *Analyzer) Sodium(sodiumMg *float64, hypertensive bool) Result {
	res := Result{Dimension: DimensionSodium, Unit: "mg"}
	if sodiumMg == nil {
		res.Message = "Sodium content not available"
		return res
	}

	limit := a.rules.SodiumLimit(hypertensive)
	res.Available = true
	res.Value = *sodiumMg
	res.Percentage = percentOf(*sodiumMg, limit)

	t, idx, ok := a.rules.sodiumMg.match(*sodiumMg)
	if !ok {
		res.Message = "Low in sodium"
		return res
	}

	res.Penalty = t.points(hypertensive)
	res.Message = fmt.Sprintf("%.0f mg sodium is %.1f%% of your %.0f mg daily limit", *sodiumMg, res.Percentage, limit)
	switch idx {
	case 0:
		res.Flag = Flag{Code: FlagHighSodium, Severity: severity(hypertensive)}
		if hypertensive {
			res.Recommendation = "Very high in sodium for someone managing blood pressure; choose a low-sodium alternative"
		} else {
			res.Recommendation = "High in sodium; balance it with low-sodium foods for the rest of the day"
		}
	case 1:
		res.Flag = Flag{Code: FlagHighSodium, Severity: SeverityModerate}
	}
	return res
}

// Sugar scores added sugar when declared and total sugar otherwise.
func (a *Analyzer) Sugar(facts *product.NutritionFacts, diabetic bool) Result {
	res := Result{Dimension: DimensionSugar, Unit: "g"}
	grams, added, ok := facts.EffectiveSugar()
	if !ok {
		res.Message = "Sugar content not available"
		return res
	}

	kind := "total sugar"
	if added {
		kind = "added sugar"
	}
	limit := a.rules.SugarLimit(added)
	res.Available = true
	res.Value = grams
	res.Percentage = percentOf(grams, limit)

	t, idx, ok := a.rules.sugarG.match(grams)
	if !ok {
		res.Message = fmt.Sprintf("Low in %s", kind)
		return res
	}

	res.Penalty = t.points(diabetic)
	res.Message = fmt.Sprintf("%.1f g %s is %.1f%% of the %.0f g daily limit", grams, kind, res.Percentage, limit)
	switch idx {
	case 0:
		res.Flag = Flag{Code: FlagHighSugar, Severity: severity(diabetic)}
		if diabetic {
			res.Recommendation = "High sugar content can spike blood glucose; pick a sugar-free option"
		} else {
			res.Recommendation = "High in sugar; limit other sweets today"
		}
	case 1:
		res.Flag = Flag{Code: FlagHighSugar, Severity: SeverityModerate}
	}
	return res
}

// Fat sums independent trans, saturated and total fat penalties.
func (a *Analyzer) Fat(totalG, saturatedG, transG *float64, heartDisease bool) Result {
	res := Result{Dimension: DimensionFat, Unit: "g"}
	if totalG == nil && saturatedG == nil && transG == nil {
		res.Message = "Fat content not available"
		return res
	}

	res.Available = true
	if totalG != nil {
		res.Value = *totalG
		res.Percentage = percentOf(*totalG, a.rules.fatDailyG)
	}

	var notes []string
	if transG != nil && *transG > a.rules.transFat.above {
		res.Penalty += a.rules.transFat.points(heartDisease)
		res.Flag = Flag{Code: FlagContainsTransFat, Severity: severity(heartDisease)}
		res.Recommendation = "Contains trans fat, which raises LDL cholesterol; avoid regular consumption"
		notes = append(notes, fmt.Sprintf("%.1f g trans fat", *transG))
	}
	if saturatedG != nil {
		if t, _, ok := a.rules.saturatedFat.match(*saturatedG); ok {
			res.Penalty += t.points(heartDisease)
			notes = append(notes, fmt.Sprintf("%.1f g saturated fat", *saturatedG))
		}
	}
	if totalG != nil {
		if t, _, ok := a.rules.totalFat.match(*totalG); ok {
			res.Penalty += t.points(heartDisease)
			notes = append(notes, fmt.Sprintf("%.1f g total fat", *totalG))
		}
	}

	if len(notes) == 0 {
		res.Message = "Fat content is within a healthy range"
		return res
	}
	res.Message = "Contains " + joinNotes(notes)
	return res
}

// Protein rewards protein, more so for goals that depend on it.
func (a *Analyzer) Protein(proteinG *float64, goal health.Goal) Result {
	res := Result{Dimension: DimensionProtein, Unit: "g"}
	if proteinG == nil {
		res.Message = "Protein content not available"
		return res
	}

	res.Available = true
	res.Value = *proteinG
	res.Percentage = percentOf(*proteinG, a.rules.proteinDailyG)

	if t, _, ok := a.rules.proteinG.match(*proteinG); ok {
		res.Bonus = t.points(goal.AimsForProtein())
		res.Message = fmt.Sprintf("Provides %.1f g protein", *proteinG)
		return res
	}
	res.Message = "Low in protein"
	return res
}

// Fiber rewards fiber content.
func (a *Analyzer) Fiber(fiberG *float64) Result {
	res := Result{Dimension: DimensionFiber, Unit: "g"}
	if fiberG == nil {
		res.Message = "Fiber content not available"
		return res
	}

	res.Available = true
	res.Value = *fiberG
	res.Percentage = percentOf(*fiberG, a.rules.fiberDailyG)

	if t, _, ok := a.rules.fiberG.match(*fiberG); ok {
		res.Bonus = t.points(false)
		res.Message = fmt.Sprintf("Provides %.1f g fiber", *fiberG)
		return res
	}
	res.Message = "Low in fiber"
	return res
}

func severity(affected bool) Severity {
	if affected {
		return SeverityCritical
	}
	return SeverityHigh
}

func percentOf(v, reference float64) float64 {
	if reference <= 0 {
		return 0
	}
	return math.Round(v/reference*1000) / 10
}

func joinNotes(notes []string) string {
	switch len(notes) {
	case 1:
		return notes[0]
	case 2:
		return notes[0] + " and " + notes[1]
	default:
		out := ""
		for i, n := range notes {
			switch {
			case i == len(notes)-1:
				out += ", and " + n
			case i > 0:
				out += ", " + n
			default:
				out = n
			}
		}
		return out
	}
}
