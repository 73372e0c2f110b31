// Package physiology derives body metrics (BMI, BMR, TDEE, calorie and macro
// targets) from raw measurements. Every calculation degrades to "unavailable"
// instead of failing when an input is missing or implausible.
package physiology

import (
	"errors"
	"math"

	"github.com/snacktrack/assessor/internal/domain/health"
)

// ErrInvalidProfileData is returned when an operation needs a metric the
// measurements cannot produce.
var ErrInvalidProfileData = errors.New("profile data is insufficient to derive the requested metric")

// BMICategory is the WHO weight band for a BMI value.
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

// Formula selects the BMR equation.
type Formula string

const (
	MifflinStJeor  Formula = "mifflin_st_jeor"
	HarrisBenedict Formula = "harris_benedict"
	KatchMcArdle   Formula = "katch_mcardle"
)

// Measurements are the raw inputs the calculator works from. Zero values mean
// "not provided".
type Measurements struct {
	Age            int
	Sex            health.Sex
	HeightCm       float64
	WeightKg       float64
	BodyFatPercent float64
	Activity       health.ActivityLevel
	Goal           health.Goal
}

// WeightRange is a healthy weight interval in kilograms.
type WeightRange struct {
	MinKg float64 `json:"min_kg"`
	MaxKg float64 `json:"max_kg"`
}

// Macros are daily macronutrient targets in grams.
type Macros struct {
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

// Metrics bundles every derived value. Nil fields could not be computed.
type Metrics struct {
	BMI                *float64     `json:"bmi,omitempty"`
	BMICategory        *BMICategory `json:"bmi_category,omitempty"`
	BMR                *float64     `json:"bmr,omitempty"`
	TDEE               *int         `json:"tdee,omitempty"`
	DailyCalorieTarget *int         `json:"daily_calorie_target,omitempty"`
	IdealWeight        *WeightRange `json:"ideal_weight,omitempty"`
	Macros             *Macros      `json:"macros,omitempty"`
}

// DailyTargets is what a user should eat in a day for their goal.
type DailyTargets struct {
	TDEE     int    `json:"tdee"`
	Calories int    `json:"calories"`
	Macros   Macros `json:"macros"`
}

// Calculator applies a fixed set of Standards.
type Calculator struct {
	std Standards
}

// NewCalculator creates a calculator bound to the given standards.
func NewCalculator(std Standards) *Calculator {
	return &Calculator{std: std}
}

var defaultCalculator = NewCalculator(DefaultStandards())

// Default returns the calculator backed by DefaultStandards.
func Default() *Calculator {
	return defaultCalculator
}

// Standards returns the tables this calculator uses.
func (c *Calculator) Standards() Standards {
	return c.std
}

// BMI returns weight / height² rounded to one decimal.
func (c *Calculator) BMI(weightKg, heightCm float64) (float64, bool) {
	if !c.std.weightInRange(weightKg) || !c.std.heightInRange(heightCm) {
		return 0, false
	}
	h := heightCm / 100
	return round1(weightKg / (h * h)), true
}

// Category maps a BMI to its weight band.
func (c *Calculator) Category(bmi float64) BMICategory {
	switch {
	case bmi < c.std.underweightBelow:
		return BMIUnderweight
	case bmi < c.std.normalBelow:
		return BMINormal
	case bmi < c.std.overweightBelow:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// BMR returns the Mifflin-St Jeor basal metabolic rate, unrounded.
func (c *Calculator) BMR(weightKg, heightCm float64, age int, sex health.Sex) (float64, bool) {
	return c.BMRWith(MifflinStJeor, Measurements{Age: age, Sex: sex, HeightCm: heightCm, WeightKg: weightKg})
}

// BMRWith computes BMR with the chosen formula. Katch-McArdle needs a body
// fat percentage and ignores sex and age.
func (c *Calculator) BMRWith(formula Formula, m Measurements) (float64, bool) {
	if !c.std.weightInRange(m.WeightKg) {
		return 0, false
	}

	switch formula {
	case KatchMcArdle:
		if m.BodyFatPercent <= 0 || m.BodyFatPercent >= 100 {
			return 0, false
		}
		leanMass := m.WeightKg * (1 - m.BodyFatPercent/100)
		return 370 + 21.6*leanMass, true

	case HarrisBenedict:
		if !c.std.heightInRange(m.HeightCm) || !c.std.ageInRange(m.Age) {
			return 0, false
		}
		w, h, a := m.WeightKg, m.HeightCm, float64(m.Age)
		male := 88.362 + 13.397*w + 4.799*h - 5.677*a
		female := 447.593 + 9.247*w + 3.098*h - 4.330*a
		switch m.Sex {
		case health.SexMale:
			return male, true
		case health.SexFemale:
			return female, true
		default:
			return (male + female) / 2, true
		}

	default:
		if !c.std.heightInRange(m.HeightCm) || !c.std.ageInRange(m.Age) {
			return 0, false
		}
		base := 10*m.WeightKg + 6.25*m.HeightCm - 5*float64(m.Age)
		return base + c.std.SexOffset(m.Sex), true
	}
}

// TDEE scales BMR by the activity multiplier and rounds to whole calories.
func (c *Calculator) TDEE(bmr float64, level health.ActivityLevel) int {
	return int(math.Round(bmr * c.std.ActivityMultiplier(level)))
}

// DailyCalorieTarget adjusts TDEE for the goal.
func (c *Calculator) DailyCalorieTarget(tdee int, goal health.Goal) int {
	return int(math.Round(float64(tdee) * c.std.CalorieFactor(goal)))
}

// IdealWeightRange returns the weights that put the height at BMI 18.5 to 24.9.
func (c *Calculator) IdealWeightRange(heightCm float64) (WeightRange, bool) {
	if !c.std.heightInRange(heightCm) {
		return WeightRange{}, false
	}
	h := heightCm / 100
	return WeightRange{
		MinKg: round1(c.std.idealBMIMin * h * h),
		MaxKg: round1(c.std.idealBMIMax * h * h),
	}, true
}

// Macros splits a calorie budget into grams of protein, carbs and fat.
func (c *Calculator) Macros(calories int, goal health.Goal) Macros {
	split := c.std.MacroSplit(goal)
	kcal := float64(calories)
	return Macros{
		ProteinG: int(math.Round(kcal * float64(split.ProteinPct) / 100 / c.std.proteinKcalPerGram)),
		CarbsG:   int(math.Round(kcal * float64(split.CarbsPct) / 100 / c.std.carbsKcalPerGram)),
		FatG:     int(math.Round(kcal * float64(split.FatPct) / 100 / c.std.fatKcalPerGram)),
	}
}

// Metrics derives everything it can from the measurements. BMR uses
// Katch-McArdle when a body fat percentage is known and Mifflin-St Jeor
// otherwise.
func (c *Calculator) Metrics(m Measurements) Metrics {
	var out Metrics

	if bmi, ok := c.BMI(m.WeightKg, m.HeightCm); ok {
		cat := c.Category(bmi)
		out.BMI = &bmi
		out.BMICategory = &cat
	}

	if ideal, ok := c.IdealWeightRange(m.HeightCm); ok {
		out.IdealWeight = &ideal
	}

	formula := MifflinStJeor
	if m.BodyFatPercent > 0 {
		formula = KatchMcArdle
	}
	bmr, ok := c.BMRWith(formula, m)
	if !ok && formula == KatchMcArdle {
		bmr, ok = c.BMRWith(MifflinStJeor, m)
	}
	if ok {
		tdee := c.TDEE(bmr, m.Activity)
		target := c.DailyCalorieTarget(tdee, m.Goal)
		macros := c.Macros(target, m.Goal)
		out.BMR = &bmr
		out.TDEE = &tdee
		out.DailyCalorieTarget = &target
		out.Macros = &macros
	}

	return out
}

// DailyTargets returns calorie and macro targets, or ErrInvalidProfileData
// when the measurements cannot support a BMR.
func (c *Calculator) DailyTargets(m Measurements) (DailyTargets, error) {
	metrics := c.Metrics(m)
	if metrics.TDEE == nil {
		return DailyTargets{}, ErrInvalidProfileData
	}
	return DailyTargets{
		TDEE:     *metrics.TDEE,
		Calories: *metrics.DailyCalorieTarget,
		Macros:   *metrics.Macros,
	}, nil
}

// CalculateBMI uses the default standards.
func CalculateBMI(weightKg, heightCm float64) (float64, bool) {
	return defaultCalculator.BMI(weightKg, heightCm)
}

// CategorizeBMI uses the default standards.
func CategorizeBMI(bmi float64) BMICategory {
	return defaultCalculator.Category(bmi)
}

// CalculateBMR uses the default standards.
func CalculateBMR(weightKg, heightCm float64, age int, sex health.Sex) (float64, bool) {
	return defaultCalculator.BMR(weightKg, heightCm, age, sex)
}

// CalculateTDEE uses the default standards.
func CalculateTDEE(bmr float64, level health.ActivityLevel) int {
	return defaultCalculator.TDEE(bmr, level)
}

// CalculateMacros uses the default standards.
func CalculateMacros(calories int, goal health.Goal) Macros {
	return defaultCalculator.Macros(calories, goal)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
