package product

import (
	"errors"
	"fmt"
)

var (
	ErrNameRequired   = errors.New("product name is required")
	ErrNameTooLong    = errors.New("product name must not exceed 200 characters")
	ErrInvalidBarcode = errors.New("barcode must be 8 to 14 digits")

	// ErrNegativeNutrient matches every NegativeNutrientError via errors.Is.
	ErrNegativeNutrient = errors.New("nutrient amounts cannot be negative")
)

// NegativeNutrientError names the offending nutrient.
type NegativeNutrientError struct {
	Nutrient string
	Value    float64
}

func (e *NegativeNutrientError) Error() string {
	return fmt.Sprintf("%s cannot be negative (got %g)", e.Nutrient, e.Value)
}

func (e *NegativeNutrientError) Is(target error) bool {
	return target == ErrNegativeNutrient
}
