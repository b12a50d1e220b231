package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/errors"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type productService struct {
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *productService) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, errors.WithStack(domainerrors.NewValidationError("Unknown product category"))
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, errors.WithStack(domainerrors.NewValidationError("Unknown product status"))
	}

	products, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

func (srv *productService) Get(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.WithStack(domainerrors.ErrProductNotFound)
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// Create lists a new product owned by the caller.
func (srv *productService) Create(ctx context.Context, identity *entity.Identity, input *usecase.CreateProductInput) (*entity.Product, error) {
	if !identity.CanSell() {
		return nil, domainerrors.ErrForbidden.WrapMessage("only sellers can create products")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate product id")
	}

	product := &entity.Product{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Category:    input.Category,
		Images:      append([]entity.ProductImage{}, input.Images...),
		Stock:       input.Stock,
		Discount:    input.Discount,
		Status:      input.Status,
		CreatedBy:   identity.ID,
	}
	if product.Status == "" {
		product.Status = entity.ProductStatusActive
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}
	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.Any("sellerID", identity.ID))

	return product, nil
}

// Update changes a product owned by the caller. Admins may change any product.
func (srv *productService) Update(ctx context.Context, identity *entity.Identity, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	product, err := srv.loadManaged(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	applyProductUpdate(product, input)
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.WithStack(domainerrors.ErrProductNotFound)
		}

		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

// Delete removes a product owned by the caller. Admins may remove any product.
func (srv *productService) Delete(ctx context.Context, identity *entity.Identity, id uuid.UUID) error {
	if _, err := srv.loadManaged(ctx, identity, id); err != nil {
		return err
	}

	if err := srv.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return errors.WithStack(domainerrors.ErrProductNotFound)
		}

		return errors.Wrap(err, "failed to delete product")
	}
	srv.log(ctx).Info("Product deleted", slog.Any("productID", id), slog.Any("userID", identity.ID))

	return nil
}

// loadManaged fetches a product the caller is allowed to change.
func (srv *productService) loadManaged(ctx context.Context, identity *entity.Identity, id uuid.UUID) (*entity.Product, error) {
	if !identity.CanSell() {
		return nil, domainerrors.ErrForbidden.WrapMessage("only sellers can manage products")
	}

	product, err := srv.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !product.OwnedBy(identity.ID) && !entity.Authorize(identity, entity.RoleAdmin) {
		return nil, domainerrors.ErrForbidden.WrapMessage("product belongs to another seller")
	}

	return product, nil
}

func applyProductUpdate(product *entity.Product, input *usecase.UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Images != nil {
		product.Images = append([]entity.ProductImage{}, (*input.Images)...)
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Discount != nil {
		product.Discount = *input.Discount
	}
	if input.Status != nil {
		product.Status = *input.Status
	}
}

func validateProduct(product *entity.Product) error {
	switch {
	case product.Name == "":
		return errors.WithStack(domainerrors.NewValidationError("Product name is required"))
	case product.Description == "":
		return errors.WithStack(domainerrors.NewValidationError("Product description is required"))
	case product.Price < 0:
		return errors.WithStack(domainerrors.NewValidationError("Price cannot be negative"))
	case !product.Category.IsValid():
		return errors.WithStack(domainerrors.NewValidationError("Unknown product category"))
	case product.Stock < 0:
		return errors.WithStack(domainerrors.NewValidationError("Stock cannot be negative"))
	case product.Discount.Percentage < 0 || product.Discount.Percentage > 100:
		return errors.WithStack(domainerrors.NewValidationError("Discount must be between 0 and 100"))
	case !product.Status.IsValid():
		return errors.WithStack(domainerrors.NewValidationError("Unknown product status"))
	}

	return nil
}
