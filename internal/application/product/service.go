// Package product provides the application layer for product registration and lookup
package product

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/ports/inbound"
	"github.com/snacktrack/assessor/internal/ports/outbound"
	"github.com/snacktrack/assessor/pkg/errors"
	"github.com/snacktrack/assessor/pkg/validation"
)

const maxIngredientText = 5000

// Service implements the product use cases
type Service struct {
	products  outbound.ProductRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewService creates a new product service
func NewService(products outbound.ProductRepository, validator *validation.Validator, logger *zap.Logger) inbound.ProductService {
	return &Service{
		products:  products,
		validator: validator,
		logger:    logger.Named("product-service"),
	}
}

// RegisterProduct stores a manually entered product
func (s *Service) RegisterProduct(ctx context.Context, cmd inbound.RegisterProductCommand) (*inbound.ProductDTO, error) {
	s.logger.Info("Registering product",
		zap.String("name", cmd.Name),
		zap.String("barcode", cmd.Barcode),
	)

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	ingredients := make([]string, 0, len(cmd.Ingredients))
	for _, ingredient := range cmd.Ingredients {
		if cleaned := validation.Sanitize(ingredient, 200); cleaned != "" {
			ingredients = append(ingredients, cleaned)
		}
	}

	p, err := product.NewProduct(
		validation.Sanitize(cmd.Name, 200),
		validation.Sanitize(cmd.Brand, 100),
		cmd.Barcode,
		ingredients,
		validation.Sanitize(cmd.IngredientText, maxIngredientText),
		cmd.Nutrition.ToDomain(),
	)
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).WithCause(err)
	}

	if err := s.products.Create(ctx, p); err != nil {
		if stderrors.Is(err, outbound.ErrDuplicate) {
			return nil, errors.NewBarcodeAlreadyExistsError(cmd.Barcode)
		}
		return nil, errors.NewDatabaseError("create product", err)
	}

	s.logger.Info("Product registered",
		zap.String("product_id", p.ID().String()),
		zap.Bool("has_nutrition", p.HasNutrition()),
	)
	return inbound.NewProductDTO(p), nil
}

// GetProduct returns a product by ID
func (s *Service) GetProduct(ctx context.Context, productID uuid.UUID) (*inbound.ProductDTO, error) {
	p, err := s.products.FindByID(ctx, productID)
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewProductNotFoundError(productID.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find product", err)
	}
	return inbound.NewProductDTO(p), nil
}

// GetProductByBarcode returns a product by barcode
func (s *Service) GetProductByBarcode(ctx context.Context, barcode string) (*inbound.ProductDTO, error) {
	p, err := s.products.FindByBarcode(ctx, barcode)
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewProductNotFoundError(barcode)
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find product by barcode", err)
	}
	return inbound.NewProductDTO(p), nil
}
