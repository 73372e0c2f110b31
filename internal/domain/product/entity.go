// Package product defines packaged food products and their nutrition facts.
package product

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Product is a packaged food item that can be assessed.
type Product struct {
	id             uuid.UUID
	barcode        string
	name           string
	brand          string
	ingredients    []string
	ingredientText string
	nutrition      *NutritionFacts
	createdAt      time.Time
	updatedAt      time.Time
}

// NewProduct validates and creates a product. Barcode may be empty for
// manually entered items.
func NewProduct(name, brand, barcode string, ingredients []string, ingredientText string, nutrition *NutritionFacts) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(name) > 200 {
		return nil, ErrNameTooLong
	}

	barcode = strings.TrimSpace(barcode)
	if barcode != "" && !validBarcode(barcode) {
		return nil, ErrInvalidBarcode
	}

	if err := nutrition.Validate(); err != nil {
		return nil, err
	}

	cleaned := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			cleaned = append(cleaned, ing)
		}
	}

	now := time.Now().UTC()
	return &Product{
		id:             uuid.New(),
		barcode:        barcode,
		name:           name,
		brand:          strings.TrimSpace(brand),
		ingredients:    cleaned,
		ingredientText: strings.TrimSpace(ingredientText),
		nutrition:      nutrition.Clone(),
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstitute rebuilds a product from persisted state.
func Reconstitute(id uuid.UUID, name, brand, barcode string, ingredients []string, ingredientText string, nutrition *NutritionFacts, createdAt, updatedAt time.Time) *Product {
	return &Product{
		id:             id,
		barcode:        barcode,
		name:           name,
		brand:          brand,
		ingredients:    ingredients,
		ingredientText: ingredientText,
		nutrition:      nutrition,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (p *Product) ID() uuid.UUID          { return p.id }
func (p *Product) Barcode() string        { return p.barcode }
func (p *Product) Name() string           { return p.name }
func (p *Product) Brand() string          { return p.brand }
func (p *Product) IngredientText() string { return p.ingredientText }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }

// Ingredients returns a copy of the ingredient list.
func (p *Product) Ingredients() []string {
	return append([]string(nil), p.ingredients...)
}

// Nutrition returns a copy of the nutrition facts, or nil when unknown.
func (p *Product) Nutrition() *NutritionFacts {
	return p.nutrition.Clone()
}

// HasNutrition reports whether at least one nutrient is known.
func (p *Product) HasNutrition() bool {
	return !p.nutrition.IsEmpty()
}

func validBarcode(code string) bool {
	if len(code) < 8 || len(code) > 14 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
