package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/ports/outbound"
)

// ProductRepository implements the product repository interface using GORM
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) outbound.ProductRepository {
	return &ProductRepository{db: db}
}

// Create stores a product; a taken barcode yields outbound.ErrDuplicate
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	return translate(r.db.WithContext(ctx).Create(ProductToModel(p)).Error)
}

// FindByID finds a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	var model ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return ModelToProduct(&model), nil
}

// FindByBarcode finds a product by barcode
func (r *ProductRepository) FindByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	if barcode == "" {
		return nil, outbound.ErrNotFound
	}
	var model ProductModel
	if err := r.db.WithContext(ctx).First(&model, "barcode = ?", barcode).Error; err != nil {
		return nil, translate(err)
	}
	return ModelToProduct(&model), nil
}
