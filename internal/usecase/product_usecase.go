package usecase

import (
	"context"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"

	"github.com/google/uuid"
)

// CreateProductInput defines a new catalog entry.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    entity.ProductCategory
	Images      []entity.ProductImage
	Stock       int
	Discount    entity.Discount
	Status      entity.ProductStatus
}

// UpdateProductInput holds the product fields to change. Nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *entity.ProductCategory
	Images      *[]entity.ProductImage
	Stock       *int
	Discount    *entity.Discount
	Status      *entity.ProductStatus
}

// ProductUsecase manages the catalog. Writes are limited to sellers and admins,
// and updates or deletes to the owning seller or an admin.
type ProductUsecase interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	Create(ctx context.Context, identity *entity.Identity, input *CreateProductInput) (*entity.Product, error)
	Update(ctx context.Context, identity *entity.Identity, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	Delete(ctx context.Context, identity *entity.Identity, id uuid.UUID) error
}
