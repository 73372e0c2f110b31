// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/snacktrack/assessor/internal/domain/health"
	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/domain/user"
)

// UserBuilder provides a fluent interface for building test users
type UserBuilder struct {
	email   string
	name    string
	profile user.HealthProfile
}

// NewUserBuilder creates a user builder with a complete, average profile
func NewUserBuilder() *UserBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &UserBuilder{
		email: faker.Email(),
		name:  faker.FirstName() + " " + faker.LastName(),
		profile: user.HealthProfile{
			Age:               25,
			Sex:               health.SexMale,
			HeightCm:          175,
			WeightKg:          70,
			ActivityLevel:     health.ActivityModerate,
			Goal:              health.GoalMaintain,
			DietaryPreference: health.DietNone,
		},
	}
}

// WithEmail sets the user email
func (ub *UserBuilder) WithEmail(email string) *UserBuilder {
	ub.email = email
	return ub
}

// WithProfile replaces the whole health profile
func (ub *UserBuilder) WithProfile(profile user.HealthProfile) *UserBuilder {
	ub.profile = profile
	return ub
}

// WithAllergies sets the allergies
func (ub *UserBuilder) WithAllergies(allergies ...string) *UserBuilder {
	ub.profile.Allergies = allergies
	return ub
}

// WithDiet sets the dietary preference
func (ub *UserBuilder) WithDiet(diet health.DietaryPreference) *UserBuilder {
	ub.profile.DietaryPreference = diet
	return ub
}

// WithGoal sets the health goal
func (ub *UserBuilder) WithGoal(goal health.Goal) *UserBuilder {
	ub.profile.Goal = goal
	return ub
}

// WithConditions sets the health conditions
func (ub *UserBuilder) WithConditions(conditions ...health.Condition) *UserBuilder {
	ub.profile.Conditions = conditions
	return ub
}

// Build constructs the user
func (ub *UserBuilder) Build() (*user.User, error) {
	return user.NewUser(ub.email, ub.name, ub.profile)
}

// MustBuild constructs the user and panics on invalid input
func (ub *UserBuilder) MustBuild() *user.User {
	u, err := ub.Build()
	if err != nil {
		panic(err)
	}
	u.Events()
	return u
}

// ProductBuilder provides a fluent interface for building test products
type ProductBuilder struct {
	name           string
	brand          string
	barcode        string
	ingredients    []string
	ingredientText string
	nutrition      *product.NutritionFacts
}

// NewProductBuilder creates a product builder with a moderate snack profile
func NewProductBuilder() *ProductBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &ProductBuilder{
		name:    faker.Snack(),
		brand:   faker.Company(),
		barcode: faker.Numerify("#############"),
		nutrition: &product.NutritionFacts{
			Calories: product.Value(180),
			ProteinG: product.Value(8),
		},
	}
}

// WithBarcode sets the barcode
func (pb *ProductBuilder) WithBarcode(barcode string) *ProductBuilder {
	pb.barcode = barcode
	return pb
}

// WithIngredients sets the ingredient list and clears the raw text
func (pb *ProductBuilder) WithIngredients(ingredients ...string) *ProductBuilder {
	pb.ingredients = ingredients
	pb.ingredientText = ""
	return pb
}

// WithIngredientText sets the raw ingredient text
func (pb *ProductBuilder) WithIngredientText(text string) *ProductBuilder {
	pb.ingredientText = text
	return pb
}

// WithNutrition sets the nutrition facts; nil means unknown
func (pb *ProductBuilder) WithNutrition(facts *product.NutritionFacts) *ProductBuilder {
	pb.nutrition = facts
	return pb
}

// Build constructs the product
func (pb *ProductBuilder) Build() (*product.Product, error) {
	return product.NewProduct(pb.name, pb.brand, pb.barcode, pb.ingredients, pb.ingredientText, pb.nutrition)
}

// MustBuild constructs the product and panics on invalid input
func (pb *ProductBuilder) MustBuild() *product.Product {
	p, err := pb.Build()
	if err != nil {
		panic(err)
	}
	return p
}

// RandomNutrition returns plausible per-serving nutrition facts
func RandomNutrition(faker *gofakeit.Faker) *product.NutritionFacts {
	return &product.NutritionFacts{
		ServingSizeG:  product.Value(faker.Float64Range(20, 100)),
		Calories:      product.Value(faker.Float64Range(50, 500)),
		ProteinG:      product.Value(faker.Float64Range(0, 25)),
		CarbsG:        product.Value(faker.Float64Range(0, 60)),
		FatG:          product.Value(faker.Float64Range(0, 30)),
		SaturatedFatG: product.Value(faker.Float64Range(0, 10)),
		TransFatG:     product.Value(faker.Float64Range(0, 1)),
		FiberG:        product.Value(faker.Float64Range(0, 10)),
		SugarG:        product.Value(faker.Float64Range(0, 30)),
		SodiumMg:      product.Value(faker.Float64Range(0, 800)),
	}
}

// RandomProfile returns a valid health profile with random vocabulary values
func RandomProfile(faker *gofakeit.Faker) user.HealthProfile {
	return user.HealthProfile{
		Age:               faker.Number(13, 90),
		Sex:               health.Sex(faker.RandomString([]string{"male", "female", "other"})),
		HeightCm:          faker.Float64Range(150, 200),
		WeightKg:          faker.Float64Range(45, 130),
		ActivityLevel:     health.ActivityLevel(faker.RandomString([]string{"sedentary", "light", "moderate", "active", "very_active"})),
		Goal:              health.Goal(faker.RandomString([]string{"lose_weight", "gain_muscle", "maintain", "improve_health"})),
		DietaryPreference: health.DietaryPreference(faker.RandomString([]string{"none", "vegetarian", "vegan", "keto", "paleo", "gluten_free", "dairy_free"})),
		Allergies:         []string{faker.RandomString([]string{"nuts", "dairy", "gluten", "soy", "shellfish"})},
	}
}
