package handler

import (
	"strings"
	"time"

	"marketplace/internal/delivery/api/response"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/errors"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ProductHandlerParams holds dependencies for ProductHandler, injected by Fx.
type ProductHandlerParams struct {
	fx.In

	ProductUC usecase.ProductUsecase
}

// ProductHandler serves the catalog.
type ProductHandler struct {
	productUC usecase.ProductUsecase
	now       func() time.Time
}

// NewProductHandler is the constructor for ProductHandler
func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{
		productUC: params.ProductUC,
		now:       time.Now,
	}
}

// ProductImageRequest is one image of a product.
type ProductImageRequest struct {
	URL string `json:"url" validate:"required,url"`
	Alt string `json:"alt" validate:"max=200"`
}

// DiscountRequest is a percentage off, optionally bounded in time.
type DiscountRequest struct {
	Percentage float64    `json:"percentage" validate:"gte=0,lte=100"`
	ValidUntil *time.Time `json:"validUntil"`
}

// CreateProductRequest represents the request body for adding a product
type CreateProductRequest struct {
	Name        string                `json:"name" validate:"required,max=100"`
	Description string                `json:"description" validate:"required,max=2000"`
	Price       *float64              `json:"price" validate:"required,gte=0"`
	Category    string                `json:"category" validate:"required"`
	Images      []ProductImageRequest `json:"images" validate:"omitempty,dive"`
	Stock       int                   `json:"stock" validate:"gte=0"`
	Discount    *DiscountRequest      `json:"discount"`
	Status      string                `json:"status"`
}

// UpdateProductRequest holds the product fields to change; absent fields are left untouched.
type UpdateProductRequest struct {
	Name        *string               `json:"name" validate:"omitempty,max=100"`
	Description *string               `json:"description" validate:"omitempty,max=2000"`
	Price       *float64              `json:"price" validate:"omitempty,gte=0"`
	Category    *string               `json:"category"`
	Images      []ProductImageRequest `json:"images" validate:"omitempty,dive"`
	Stock       *int                  `json:"stock" validate:"omitempty,gte=0"`
	Discount    *DiscountRequest      `json:"discount"`
	Status      *string               `json:"status"`
}

// List returns the catalog, optionally filtered by ?category=, ?status= and ?seller=.
func (h *ProductHandler) List(c echo.Context) error {
	filter := repository.ProductFilter{
		Category: entity.ProductCategory(c.QueryParam("category")),
		Status:   entity.ProductStatus(c.QueryParam("status")),
	}
	if seller := c.QueryParam("seller"); seller != "" {
		id, err := uuid.Parse(seller)
		if err != nil {
			return errors.WithStack(domainerrors.ErrInvalidID.WithDetails("seller"))
		}
		filter.CreatedBy = id
	}

	products, err := h.productUC.List(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, echo.Map{"products": newProductViews(products, h.now())})
}

// Get returns one product.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productUC.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, echo.Map{"product": newProductView(product, h.now())})
}

// Create adds a product owned by the caller.
func (h *ProductHandler) Create(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req CreateProductRequest
	if err := bindAndValidate(c, &req, func(r *CreateProductRequest) {
		r.Name = strings.TrimSpace(r.Name)
		r.Description = strings.TrimSpace(r.Description)
	}); err != nil {
		return err
	}

	input := &usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    entity.ProductCategory(req.Category),
		Images:      toProductImages(req.Images),
		Stock:       req.Stock,
		Status:      entity.ProductStatus(req.Status),
	}
	if req.Discount != nil {
		input.Discount = toDiscount(req.Discount)
	}

	product, err := h.productUC.Create(c.Request().Context(), identity, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, echo.Map{"product": newProductView(product, h.now())})
}

// Update changes a product owned by the caller, or any product for admins.
func (h *ProductHandler) Update(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateProductRequest
	if err := bindAndValidate(c, &req, func(r *UpdateProductRequest) {
		r.Name = trimPtr(r.Name)
		r.Description = trimPtr(r.Description)
	}); err != nil {
		return err
	}

	input := &usecase.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if req.Category != nil {
		category := entity.ProductCategory(*req.Category)
		input.Category = &category
	}
	if req.Status != nil {
		status := entity.ProductStatus(*req.Status)
		input.Status = &status
	}
	if req.Images != nil {
		images := toProductImages(req.Images)
		input.Images = &images
	}
	if req.Discount != nil {
		discount := toDiscount(req.Discount)
		input.Discount = &discount
	}

	product, err := h.productUC.Update(c.Request().Context(), identity, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, echo.Map{"product": newProductView(product, h.now())})
}

// Delete removes a product owned by the caller, or any product for admins.
func (h *ProductHandler) Delete(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.productUC.Delete(c.Request().Context(), identity, id); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, echo.Map{"message": "Product deleted successfully"})
}

func toProductImages(reqs []ProductImageRequest) []entity.ProductImage {
	images := make([]entity.ProductImage, 0, len(reqs))
	for _, img := range reqs {
		images = append(images, entity.ProductImage{URL: img.URL, Alt: strings.TrimSpace(img.Alt)})
	}

	return images
}

func toDiscount(req *DiscountRequest) entity.Discount {
	discount := entity.Discount{Percentage: req.Percentage}
	if req.ValidUntil != nil {
		validUntil := req.ValidUntil.UTC()
		discount.ValidUntil = &validUntil
	}

	return discount
}
