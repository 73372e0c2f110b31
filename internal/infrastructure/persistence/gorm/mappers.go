package gorm

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/snacktrack/assessor/internal/domain/assessment"
	"github.com/snacktrack/assessor/internal/domain/health"
	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/domain/user"
)

// UserToModel converts a domain user to GORM model
func UserToModel(u *user.User) *UserModel {
	p := u.Profile()

	conditions := make(StringSlice, len(p.Conditions))
	for i, c := range p.Conditions {
		conditions[i] = string(c)
	}

	return &UserModel{
		ID:             u.ID(),
		Email:          u.Email(),
		Name:           u.Name(),
		ProfileVersion: u.ProfileVersion(),
		Profile: HealthProfileModel{
			Age:               p.Age,
			Sex:               string(p.Sex),
			HeightCm:          p.HeightCm,
			WeightKg:          p.WeightKg,
			BodyFatPercent:    p.BodyFatPercent,
			ActivityLevel:     string(p.ActivityLevel),
			Goal:              string(p.Goal),
			DietaryPreference: string(p.DietaryPreference),
			Allergies:         StringSlice(p.Allergies),
			Conditions:        conditions,
		},
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

// ModelToUser converts a GORM model to domain user
func ModelToUser(model *UserModel) *user.User {
	conditions := make([]health.Condition, len(model.Profile.Conditions))
	for i, c := range model.Profile.Conditions {
		conditions[i] = health.Condition(c)
	}

	profile := user.HealthProfile{
		Age:               model.Profile.Age,
		Sex:               health.Sex(model.Profile.Sex),
		HeightCm:          model.Profile.HeightCm,
		WeightKg:          model.Profile.WeightKg,
		BodyFatPercent:    model.Profile.BodyFatPercent,
		ActivityLevel:     health.ActivityLevel(model.Profile.ActivityLevel),
		Goal:              health.Goal(model.Profile.Goal),
		DietaryPreference: health.DietaryPreference(model.Profile.DietaryPreference),
		Allergies:         []string(model.Profile.Allergies),
		Conditions:        conditions,
	}

	return user.Reconstitute(
		model.ID,
		model.Email,
		model.Name,
		profile,
		model.ProfileVersion,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// ProductToModel converts a domain product to GORM model
func ProductToModel(p *product.Product) *ProductModel {
	var barcode *string
	if code := p.Barcode(); code != "" {
		barcode = &code
	}

	model := &ProductModel{
		ID:             p.ID(),
		Barcode:        barcode,
		Name:           p.Name(),
		Brand:          p.Brand(),
		Ingredients:    StringSlice(p.Ingredients()),
		IngredientText: p.IngredientText(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}

	if n := p.Nutrition(); n != nil {
		model.Nutrition = NutritionModel{
			ServingSizeG:  n.ServingSizeG,
			Calories:      n.Calories,
			ProteinG:      n.ProteinG,
			CarbsG:        n.CarbsG,
			FatG:          n.FatG,
			SaturatedFatG: n.SaturatedFatG,
			TransFatG:     n.TransFatG,
			FiberG:        n.FiberG,
			SugarG:        n.SugarG,
			AddedSugarG:   n.AddedSugarG,
			SodiumMg:      n.SodiumMg,
			CholesterolMg: n.CholesterolMg,
		}
	}
	return model
}

// ModelToProduct converts a GORM model to domain product. A row with no
// nutrition columns set yields nil nutrition.
func ModelToProduct(model *ProductModel) *product.Product {
	n := &product.NutritionFacts{
		ServingSizeG:  model.Nutrition.ServingSizeG,
		Calories:      model.Nutrition.Calories,
		ProteinG:      model.Nutrition.ProteinG,
		CarbsG:        model.Nutrition.CarbsG,
		FatG:          model.Nutrition.FatG,
		SaturatedFatG: model.Nutrition.SaturatedFatG,
		TransFatG:     model.Nutrition.TransFatG,
		FiberG:        model.Nutrition.FiberG,
		SugarG:        model.Nutrition.SugarG,
		AddedSugarG:   model.Nutrition.AddedSugarG,
		SodiumMg:      model.Nutrition.SodiumMg,
		CholesterolMg: model.Nutrition.CholesterolMg,
	}
	if n.IsEmpty() {
		n = nil
	}

	barcode := ""
	if model.Barcode != nil {
		barcode = *model.Barcode
	}

	return product.Reconstitute(
		model.ID,
		model.Name,
		model.Brand,
		barcode,
		[]string(model.Ingredients),
		model.IngredientText,
		n,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// AssessmentToModel converts a domain assessment to GORM model
func AssessmentToModel(a *assessment.Assessment) *AssessmentModel {
	s := a.State()

	var activePair *string
	if s.SupersededAt == nil {
		pair := ActivePairKey(s.UserID, s.ProductID)
		activePair = &pair
	}

	return &AssessmentModel{
		ID:                s.ID,
		UserID:            s.UserID,
		ProductID:         s.ProductID,
		ActivePair:        activePair,
		Score:             s.Score,
		Recommendation:    string(s.Recommendation),
		AllergyWarnings:   NewJSON(s.AllergyWarnings),
		DietaryCompatible: s.DietaryCompatible,
		Breakdown:         NewJSON(s.Breakdown),
		Adjustments:       NewJSON(s.Adjustments),
		Summary:           s.Summary,
		Recommendations:   StringSlice(s.Recommendations),
		Confidence:        s.Confidence,
		Metrics:           NewJSON(s.Metrics),
		UserRating:        s.UserRating,
		UserNotes:         s.UserNotes,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		SupersededAt:      s.SupersededAt,
	}
}

// ModelToAssessment converts a GORM model to domain assessment
func ModelToAssessment(model *AssessmentModel) *assessment.Assessment {
	return assessment.Reconstitute(assessment.State{
		ID:                model.ID,
		UserID:            model.UserID,
		ProductID:         model.ProductID,
		Score:             model.Score,
		Recommendation:    assessment.Recommendation(model.Recommendation),
		AllergyWarnings:   model.AllergyWarnings.Data,
		DietaryCompatible: model.DietaryCompatible,
		Breakdown:         model.Breakdown.Data,
		Adjustments:       model.Adjustments.Data,
		Summary:           model.Summary,
		Recommendations:   []string(model.Recommendations),
		Confidence:        model.Confidence,
		Metrics:           model.Metrics.Data,
		UserRating:        model.UserRating,
		UserNotes:         model.UserNotes,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
		SupersededAt:      model.SupersededAt,
	})
}

// ActivePairKey is the value of the active_pair column for an active row
func ActivePairKey(userID, productID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", userID, productID)
}
