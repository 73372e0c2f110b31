package product

// NutritionFacts contains per-serving nutritional information. A nil field
// means the value is unknown, which is different from a measured zero.
type NutritionFacts struct {
	ServingSizeG  *float64
	Calories      *float64
	ProteinG      *float64
	CarbsG        *float64
	FatG          *float64
	SaturatedFatG *float64
	TransFatG     *float64
	FiberG        *float64
	SugarG        *float64
	AddedSugarG   *float64
	SodiumMg      *float64
	CholesterolMg *float64
}

// Value wraps a measured amount for use in NutritionFacts literals.
func Value(v float64) *float64 {
	return &v
}

// IsEmpty reports whether no nutrient at all is known.
func (n *NutritionFacts) IsEmpty() bool {
	if n == nil {
		return true
	}
	for _, f := range n.fields() {
		if f.value != nil {
			return false
		}
	}
	return true
}

// Validate rejects negative amounts.
func (n *NutritionFacts) Validate() error {
	if n == nil {
		return nil
	}
	for _, f := range n.fields() {
		if f.value != nil && *f.value < 0 {
			return &NegativeNutrientError{Nutrient: f.name, Value: *f.value}
		}
	}
	return nil
}

// EffectiveSugar returns the sugar amount scoring should use: added sugar
// when declared, total sugar otherwise. added is true for the former.
func (n *NutritionFacts) EffectiveSugar() (grams float64, added bool, ok bool) {
	if n == nil {
		return 0, false, false
	}
	if n.AddedSugarG != nil {
		return *n.AddedSugarG, true, true
	}
	if n.SugarG != nil {
		return *n.SugarG, false, true
	}
	return 0, false, false
}

// TotalSugar prefers the total sugar figure and falls back to added sugar.
func (n *NutritionFacts) TotalSugar() (float64, bool) {
	if n == nil {
		return 0, false
	}
	if n.SugarG != nil {
		return *n.SugarG, true
	}
	if n.AddedSugarG != nil {
		return *n.AddedSugarG, true
	}
	return 0, false
}

// Clone returns a deep copy.
func (n *NutritionFacts) Clone() *NutritionFacts {
	if n == nil {
		return nil
	}
	cp := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		x := *v
		return &x
	}
	return &NutritionFacts{
		ServingSizeG:  cp(n.ServingSizeG),
		Calories:      cp(n.Calories),
		ProteinG:      cp(n.ProteinG),
		CarbsG:        cp(n.CarbsG),
		FatG:          cp(n.FatG),
		SaturatedFatG: cp(n.SaturatedFatG),
		TransFatG:     cp(n.TransFatG),
		FiberG:        cp(n.FiberG),
		SugarG:        cp(n.SugarG),
		AddedSugarG:   cp(n.AddedSugarG),
		SodiumMg:      cp(n.SodiumMg),
		CholesterolMg: cp(n.CholesterolMg),
	}
}

type namedField struct {
	name  string
	value *float64
}

func (n *NutritionFacts) fields() []namedField {
	return []namedField{
		{"serving_size_g", n.ServingSizeG},
		{"calories", n.Calories},
		{"protein_g", n.ProteinG},
		{"carbs_g", n.CarbsG},
		{"fat_g", n.FatG},
		{"saturated_fat_g", n.SaturatedFatG},
		{"trans_fat_g", n.TransFatG},
		{"fiber_g", n.FiberG},
		{"sugar_g", n.SugarG},
		{"added_sugar_g", n.AddedSugarG},
		{"sodium_mg", n.SodiumMg},
		{"cholesterol_mg", n.CholesterolMg},
	}
}
