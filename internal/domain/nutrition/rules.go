package nutrition

import "github.com/snacktrack/assessor/internal/domain/health"

// tier is one step of a threshold ladder: a value strictly above `above`
// scores `affected` points when the relevant condition or goal applies and
// `otherwise` points when it does not.
type tier struct {
	above     float64
	affected  int
	otherwise int
}

func (t tier) points(affected bool) int {
	if affected {
		return t.affected
	}
	return t.otherwise
}

// ladder is ordered from the highest threshold down; the first match wins.
type ladder []tier

func (l ladder) match(v float64) (tier, int, bool) {
	for i, t := range l {
		if v > t.above {
			return t, i, true
		}
	}
	return tier{}, -1, false
}

// Rules holds every threshold the analyzers use. Fields are unexported and
// only read, so a Rules value is immutable once built.
type Rules struct {
	calorieTargets       map[health.ActivityLevel]float64
	defaultCalorieTarget float64
	caloriePct           ladder

	sodiumLimit             float64
	hypertensiveSodiumLimit float64
	sodiumMg                ladder

	addedSugarLimit float64
	totalSugarLimit float64
	sugarG          ladder

	transFat     tier
	saturatedFat ladder
	totalFat     ladder
	fatDailyG    float64

	proteinG      ladder
	proteinDailyG float64

	fiberG      ladder
	fiberDailyG float64
}

// DefaultRules returns the standard thresholds.
func DefaultRules() Rules {
	return Rules{
		calorieTargets: map[health.ActivityLevel]float64{
			health.ActivitySedentary:  1800,
			health.ActivityLight:      2000,
			health.ActivityModerate:   2200,
			health.ActivityActive:     2400,
			health.ActivityVeryActive: 2600,
		},
		defaultCalorieTarget: 2200,
		caloriePct:           ladder{{15, 15, 15}, {10, 8, 8}, {7, 3, 3}},

		sodiumLimit:             2300,
		hypertensiveSodiumLimit: 1500,
		sodiumMg:                ladder{{400, 25, 15}, {240, 15, 8}, {140, 8, 3}},

		addedSugarLimit: 25,
		totalSugarLimit: 50,
		sugarG:          ladder{{15, 30, 20}, {10, 20, 12}, {5, 10, 5}},

		transFat:     tier{0, 25, 15},
		saturatedFat: ladder{{5, 15, 10}, {3, 8, 5}},
		totalFat:     ladder{{15, 5, 5}},
		fatDailyG:    78,

		proteinG:      ladder{{10, 8, 5}, {5, 5, 3}, {2, 2, 2}},
		proteinDailyG: 50,

		fiberG:      ladder{{5, 8, 8}, {3, 5, 5}, {1, 2, 2}},
		fiberDailyG: 28,
	}
}

// CalorieTarget returns the daily calorie reference for an activity level.
func (r Rules) CalorieTarget(level health.ActivityLevel) float64 {
	if t, ok := r.calorieTargets[level]; ok {
		return t
	}
	return r.defaultCalorieTarget
}

// SodiumLimit returns the daily sodium limit in milligrams.
func (r Rules) SodiumLimit(hypertensive bool) float64 {
	if hypertensive {
		return r.hypertensiveSodiumLimit
	}
	return r.sodiumLimit
}

// SugarLimit returns the daily limit for added or total sugar.
func (r Rules) SugarLimit(added bool) float64 {
	if added {
		return r.addedSugarLimit
	}
	return r.totalSugarLimit
}
