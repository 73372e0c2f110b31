package physiology

import "github.com/snacktrack/assessor/internal/domain/health"

// MacroSplit is the share of calories assigned to each macronutrient, in percent.
type MacroSplit struct {
	ProteinPct int
	CarbsPct   int
	FatPct     int
}

// Standards holds the reference tables used by the calculator. The tables are
// unexported and only read through methods, so a Standards value cannot be
// mutated once built.
type Standards struct {
	underweightBelow float64
	normalBelow      float64
	overweightBelow  float64

	idealBMIMin float64
	idealBMIMax float64

	minHeightCm float64
	maxHeightCm float64
	minWeightKg float64
	maxWeightKg float64
	minAge      int
	maxAge      int

	maleOffset   float64
	femaleOffset float64
	otherOffset  float64

	activityMultipliers map[health.ActivityLevel]float64
	defaultMultiplier   float64

	calorieFactors map[health.Goal]float64

	macroSplits  map[health.Goal]MacroSplit
	defaultSplit MacroSplit

	proteinKcalPerGram float64
	carbsKcalPerGram   float64
	fatKcalPerGram     float64
}

// DefaultStandards returns the WHO BMI bands, Mifflin-St Jeor offsets and the
// activity, goal and macro tables.
func DefaultStandards() Standards {
	return Standards{
		underweightBelow: 18.5,
		normalBelow:      25,
		overweightBelow:  30,

		idealBMIMin: 18.5,
		idealBMIMax: 24.9,

		minHeightCm: 50,
		maxHeightCm: 250,
		minWeightKg: 10,
		maxWeightKg: 400,
		minAge:      13,
		maxAge:      120,

		maleOffset:   5,
		femaleOffset: -161,
		otherOffset:  -78,

		activityMultipliers: map[health.ActivityLevel]float64{
			health.ActivitySedentary:  1.2,
			health.ActivityLight:      1.375,
			health.ActivityModerate:   1.55,
			health.ActivityActive:     1.725,
			health.ActivityVeryActive: 1.9,
		},
		defaultMultiplier: 1.55,

		calorieFactors: map[health.Goal]float64{
			health.GoalLoseWeight: 0.8,
			health.GoalGainMuscle: 1.1,
		},

		macroSplits: map[health.Goal]MacroSplit{
			health.GoalLoseWeight: {ProteinPct: 30, CarbsPct: 35, FatPct: 35},
			health.GoalGainMuscle: {ProteinPct: 25, CarbsPct: 45, FatPct: 30},
		},
		defaultSplit: MacroSplit{ProteinPct: 20, CarbsPct: 50, FatPct: 30},

		proteinKcalPerGram: 4,
		carbsKcalPerGram:   4,
		fatKcalPerGram:     9,
	}
}

// ActivityMultiplier returns the TDEE multiplier for a level. Unknown levels
// get the moderate multiplier.
func (s Standards) ActivityMultiplier(level health.ActivityLevel) float64 {
	if m, ok := s.activityMultipliers[level]; ok {
		return m
	}
	return s.defaultMultiplier
}

// CalorieFactor returns the multiplier applied to TDEE for a goal.
func (s Standards) CalorieFactor(goal health.Goal) float64 {
	if f, ok := s.calorieFactors[goal]; ok {
		return f
	}
	return 1
}

// MacroSplit returns the macro split for a goal.
func (s Standards) MacroSplit(goal health.Goal) MacroSplit {
	if split, ok := s.macroSplits[goal]; ok {
		return split
	}
	return s.defaultSplit
}

// SexOffset returns the Mifflin-St Jeor constant for a sex.
func (s Standards) SexOffset(sex health.Sex) float64 {
	switch sex {
	case health.SexMale:
		return s.maleOffset
	case health.SexFemale:
		return s.femaleOffset
	default:
		return s.otherOffset
	}
}

func (s Standards) heightInRange(cm float64) bool {
	return cm >= s.minHeightCm && cm <= s.maxHeightCm
}

func (s Standards) weightInRange(kg float64) bool {
	return kg >= s.minWeightKg && kg <= s.maxWeightKg
}

func (s Standards) ageInRange(age int) bool {
	return age >= s.minAge && age <= s.maxAge
}
