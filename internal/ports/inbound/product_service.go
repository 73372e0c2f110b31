package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/snacktrack/assessor/internal/domain/product"
)

// ProductService registers and looks up products
type ProductService interface {
	RegisterProduct(ctx context.Context, cmd RegisterProductCommand) (*ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*ProductDTO, error)
}

// NutritionFactsInput is per-serving nutrition as entered by a user.
// Omitted fields stay unknown.
type NutritionFactsInput struct {
	ServingSizeG  *float64 `json:"serving_size_g,omitempty" validate:"omitempty,gte=0"`
	Calories      *float64 `json:"calories,omitempty" validate:"omitempty,gte=0,lte=5000"`
	ProteinG      *float64 `json:"protein_g,omitempty" validate:"omitempty,gte=0"`
	CarbsG        *float64 `json:"carbs_g,omitempty" validate:"omitempty,gte=0"`
	FatG          *float64 `json:"fat_g,omitempty" validate:"omitempty,gte=0"`
	SaturatedFatG *float64 `json:"saturated_fat_g,omitempty" validate:"omitempty,gte=0"`
	TransFatG     *float64 `json:"trans_fat_g,omitempty" validate:"omitempty,gte=0"`
	FiberG        *float64 `json:"fiber_g,omitempty" validate:"omitempty,gte=0"`
	SugarG        *float64 `json:"sugar_g,omitempty" validate:"omitempty,gte=0"`
	AddedSugarG   *float64 `json:"added_sugar_g,omitempty" validate:"omitempty,gte=0"`
	SodiumMg      *float64 `json:"sodium_mg,omitempty" validate:"omitempty,gte=0"`
	CholesterolMg *float64 `json:"cholesterol_mg,omitempty" validate:"omitempty,gte=0"`
}

// ToDomain converts the input to domain nutrition facts.
func (in *NutritionFactsInput) ToDomain() *product.NutritionFacts {
	if in == nil {
		return nil
	}
	return &product.NutritionFacts{
		ServingSizeG:  in.ServingSizeG,
		Calories:      in.Calories,
		ProteinG:      in.ProteinG,
		CarbsG:        in.CarbsG,
		FatG:          in.FatG,
		SaturatedFatG: in.SaturatedFatG,
		TransFatG:     in.TransFatG,
		FiberG:        in.FiberG,
		SugarG:        in.SugarG,
		AddedSugarG:   in.AddedSugarG,
		SodiumMg:      in.SodiumMg,
		CholesterolMg: in.CholesterolMg,
	}
}

// RegisterProductCommand contains data for a manually entered product
type RegisterProductCommand struct {
	Name           string               `json:"name" validate:"required,max=200"`
	Brand          string               `json:"brand" validate:"max=100"`
	Barcode        string               `json:"barcode" validate:"omitempty,numeric,min=8,max=14"`
	Ingredients    []string             `json:"ingredients" validate:"max=200,dive,max=200"`
	IngredientText string               `json:"ingredient_text" validate:"max=5000"`
	Nutrition      *NutritionFactsInput `json:"nutrition"`
}

// ProductDTO is the read model of a product
type ProductDTO struct {
	ID             uuid.UUID               `json:"id"`
	Name           string                  `json:"name"`
	Brand          string                  `json:"brand,omitempty"`
	Barcode        string                  `json:"barcode,omitempty"`
	Ingredients    []string                `json:"ingredients"`
	IngredientText string                  `json:"ingredient_text,omitempty"`
	Nutrition      *product.NutritionFacts `json:"nutrition,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

// NewProductDTO builds the read model from the entity.
func NewProductDTO(p *product.Product) *ProductDTO {
	return &ProductDTO{
		ID:             p.ID(),
		Name:           p.Name(),
		Brand:          p.Brand(),
		Barcode:        p.Barcode(),
		Ingredients:    p.Ingredients(),
		IngredientText: p.IngredientText(),
		Nutrition:      p.Nutrition(),
		CreatedAt:      p.CreatedAt(),
	}
}
