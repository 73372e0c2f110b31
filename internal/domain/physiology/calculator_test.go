package physiology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snacktrack/assessor/internal/domain/health"
)

func TestCalculateBMI(t *testing.T) {
	bmi, ok := CalculateBMI(70, 175)
	require.True(t, ok)
	assert.InDelta(t, 22.86, bmi, 0.1)
	assert.Equal(t, 22.9, bmi)

	tests := []struct {
		name   string
		weight float64
		height float64
	}{
		{"missing weight", 0, 175},
		{"missing height", 70, 0},
		{"negative height", 70, -170},
		{"implausible height", 70, 400},
		{"implausible weight", 900, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := CalculateBMI(tt.weight, tt.height)
			assert.False(t, ok)
		})
	}
}

func TestCategorizeBMI(t *testing.T) {
	assert.Equal(t, BMIUnderweight, CategorizeBMI(18.4))
	assert.Equal(t, BMINormal, CategorizeBMI(18.5))
	assert.Equal(t, BMINormal, CategorizeBMI(24.9))
	assert.Equal(t, BMIOverweight, CategorizeBMI(25))
	assert.Equal(t, BMIOverweight, CategorizeBMI(29.9))
	assert.Equal(t, BMIObese, CategorizeBMI(30))
}

func TestCalculateBMR_MifflinStJeorBranches(t *testing.T) {
	male, ok := CalculateBMR(70, 175, 25, health.SexMale)
	require.True(t, ok)
	assert.InDelta(t, 1673.75, male, 1e-9)

	female, ok := CalculateBMR(60, 165, 30, health.SexFemale)
	require.True(t, ok)
	assert.InDelta(t, 1320.25, female, 1e-9)

	other, ok := CalculateBMR(70, 175, 25, health.SexOther)
	require.True(t, ok)
	assert.InDelta(t, male-83, other, 1e-9)

	_, ok = CalculateBMR(70, 175, 0, health.SexMale)
	assert.False(t, ok)
}

func TestBMRWith_AlternativeFormulas(t *testing.T) {
	calc := Default()
	m := Measurements{Age: 30, Sex: health.SexMale, HeightCm: 180, WeightKg: 80}

	hb, ok := calc.BMRWith(HarrisBenedict, m)
	require.True(t, ok)
	assert.InDelta(t, 88.362+13.397*80+4.799*180-5.677*30, hb, 1e-9)

	_, ok = calc.BMRWith(KatchMcArdle, m)
	assert.False(t, ok, "katch-mcardle needs body fat")

	m.BodyFatPercent = 20
	km, ok := calc.BMRWith(KatchMcArdle, m)
	require.True(t, ok)
	assert.InDelta(t, 370+21.6*64, km, 1e-9)
}

func TestCalculateTDEE(t *testing.T) {
	tests := []struct {
		level health.ActivityLevel
		want  int
	}{
		{health.ActivitySedentary, 1800},
		{health.ActivityLight, 2063},
		{health.ActivityModerate, 2325},
		{health.ActivityActive, 2588},
		{health.ActivityVeryActive, 2850},
		{health.ActivityLevel("unknown"), 2325},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTDEE(1500, tt.level))
		})
	}
}

func TestDailyCalorieTarget(t *testing.T) {
	calc := Default()

	assert.Equal(t, 1600, calc.DailyCalorieTarget(2000, health.GoalLoseWeight))
	assert.Equal(t, 2200, calc.DailyCalorieTarget(2000, health.GoalGainMuscle))
	assert.Equal(t, 2000, calc.DailyCalorieTarget(2000, health.GoalMaintain))
	assert.Equal(t, 2000, calc.DailyCalorieTarget(2000, health.GoalImproveHealth))
}

func TestIdealWeightRange(t *testing.T) {
	r, ok := Default().IdealWeightRange(175)
	require.True(t, ok)
	assert.Equal(t, 56.7, r.MinKg)
	assert.Equal(t, 76.3, r.MaxKg)

	_, ok = Default().IdealWeightRange(0)
	assert.False(t, ok)
}

func TestCalculateMacros(t *testing.T) {
	assert.Equal(t, Macros{ProteinG: 125, CarbsG: 225, FatG: 67}, CalculateMacros(2000, health.GoalGainMuscle))
	assert.Equal(t, Macros{ProteinG: 150, CarbsG: 175, FatG: 78}, CalculateMacros(2000, health.GoalLoseWeight))
	assert.Equal(t, Macros{ProteinG: 100, CarbsG: 250, FatG: 67}, CalculateMacros(2000, health.GoalMaintain))
}

func TestMetrics_DegradesPerField(t *testing.T) {
	calc := Default()

	full := calc.Metrics(Measurements{
		Age: 25, Sex: health.SexMale, HeightCm: 175, WeightKg: 70,
		Activity: health.ActivityModerate, Goal: health.GoalMaintain,
	})
	require.NotNil(t, full.BMI)
	require.NotNil(t, full.TDEE)
	assert.Equal(t, BMINormal, *full.BMICategory)
	assert.Equal(t, 2594, *full.TDEE)
	assert.Equal(t, 2594, *full.DailyCalorieTarget)

	noAge := calc.Metrics(Measurements{HeightCm: 175, WeightKg: 70})
	assert.NotNil(t, noAge.BMI)
	assert.NotNil(t, noAge.IdealWeight)
	assert.Nil(t, noAge.BMR)
	assert.Nil(t, noAge.TDEE)
	assert.Nil(t, noAge.Macros)
}

func TestMetrics_FallsBackWhenBodyFatUnusable(t *testing.T) {
	m := Default().Metrics(Measurements{
		Age: 25, Sex: health.SexMale, HeightCm: 175, WeightKg: 70, BodyFatPercent: 150,
	})

	require.NotNil(t, m.BMR)
	assert.InDelta(t, 1673.75, *m.BMR, 1e-9)
}

func TestDailyTargets(t *testing.T) {
	_, err := Default().DailyTargets(Measurements{WeightKg: 70})
	assert.ErrorIs(t, err, ErrInvalidProfileData)

	targets, err := Default().DailyTargets(Measurements{
		Age: 25, Sex: health.SexMale, HeightCm: 175, WeightKg: 70,
		Activity: health.ActivityLight, Goal: health.GoalLoseWeight,
	})
	require.NoError(t, err)
	assert.Equal(t, 2301, targets.TDEE)
	assert.Equal(t, 1841, targets.Calories)
	assert.Equal(t, CalculateMacros(1841, health.GoalLoseWeight), targets.Macros)
}

func TestStandards_LookupsAreReadOnly(t *testing.T) {
	std := DefaultStandards()
	other := DefaultStandards()

	assert.Equal(t, std.ActivityMultiplier(health.ActivityActive), other.ActivityMultiplier(health.ActivityActive))
	assert.Equal(t, 1.0, std.CalorieFactor(health.GoalMaintain))
	assert.Equal(t, MacroSplit{ProteinPct: 20, CarbsPct: 50, FatPct: 30}, std.MacroSplit(health.GoalImproveHealth))
	assert.Equal(t, -78.0, std.SexOffset(health.SexOther))
}
