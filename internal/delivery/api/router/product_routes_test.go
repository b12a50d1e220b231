package router

import (
	"net/http"
	"testing"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCatalogProduct(owner uuid.UUID) *entity.Product {
	return &entity.Product{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        "Go in Action",
		Description: "A book",
		Price:       40,
		Category:    entity.CategoryBooks,
		Stock:       3,
		Discount:    entity.Discount{Percentage: 25},
		Status:      entity.ProductStatusActive,
		CreatedBy:   owner,
		CreatedAt:   fixedNow,
		UpdatedAt:   fixedNow,
	}
}

func TestListProducts(t *testing.T) {
	t.Run("passes filters", func(t *testing.T) {
		api := newTestAPI(t)
		seller := uuid.Must(uuid.NewV7())
		product := newCatalogProduct(seller)

		api.productUC.EXPECT().
			List(mock.Anything, repository.ProductFilter{
				Category:  entity.CategoryBooks,
				Status:    entity.ProductStatusActive,
				CreatedBy: seller,
			}).
			Return([]*entity.Product{product}, nil)

		rec := api.do(http.MethodGet, "/api/products?category=Books&status=active&seller="+seller.String(), nil, "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "success", body["status"])
		products := body["products"].([]any)
		require.Len(t, products, 1)
		first := products[0].(map[string]any)
		assert.Equal(t, product.ID.String(), first["id"])
		assert.InDelta(t, 30.0, first["discountedPrice"], 1e-9)
		assert.Equal(t, []any{}, first["images"])
	})

	t.Run("empty catalog renders array", func(t *testing.T) {
		api := newTestAPI(t)
		api.productUC.EXPECT().List(mock.Anything, repository.ProductFilter{}).Return(nil, nil)

		rec := api.do(http.MethodGet, "/api/products", nil, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{}, decodeBody(t, rec)["products"])
	})

	t.Run("bad seller id", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodGet, "/api/products?seller=42", nil, "")

		requireErrorBody(t, rec, http.StatusBadRequest, domainerrors.CodeValidationFailed)
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("bad id", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodGet, "/api/products/not-a-uuid", nil, "")

		body := requireErrorBody(t, rec, http.StatusBadRequest, domainerrors.CodeValidationFailed)
		assert.Equal(t, "Invalid id", body["message"])
	})

	t.Run("not found", func(t *testing.T) {
		api := newTestAPI(t)
		id := uuid.Must(uuid.NewV7())
		api.productUC.EXPECT().Get(mock.Anything, id).Return(nil, domainerrors.ErrProductNotFound)

		rec := api.do(http.MethodGet, "/api/products/"+id.String(), nil, "")

		requireErrorBody(t, rec, http.StatusNotFound, "PRODUCT_NOT_FOUND")
	})
}

func TestCreateProduct(t *testing.T) {
	validBody := func() echo.Map {
		return echo.Map{
			"name":        " Go in Action ",
			"description": "A book",
			"price":       40,
			"category":    "Books",
			"stock":       3,
			"images":      []echo.Map{{"url": "https://cdn.example.com/go.png", "alt": "cover"}},
			"discount":    echo.Map{"percentage": 25},
		}
	}

	t.Run("requires session", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodPost, "/api/products", validBody(), "")

		requireErrorBody(t, rec, http.StatusUnauthorized, domainerrors.CodeUnauthorized)
	})

	t.Run("creates", func(t *testing.T) {
		api := newTestAPI(t)
		seller := newIdentity(entity.UserTypeSeller, entity.RoleUser)
		token := api.loginAs(seller)
		product := newCatalogProduct(seller.ID)

		api.productUC.EXPECT().
			Create(mock.Anything, seller, mock.MatchedBy(func(in *usecase.CreateProductInput) bool {
				return in.Name == "Go in Action" &&
					in.Price == 40 &&
					in.Category == entity.CategoryBooks &&
					len(in.Images) == 1 && in.Images[0].Alt == "cover" &&
					in.Discount.Percentage == 25
			})).
			Return(product, nil)

		rec := api.do(http.MethodPost, "/api/products", validBody(), token)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, product.ID.String(), decodeBody(t, rec)["product"].(map[string]any)["id"])
	})

	t.Run("field validation", func(t *testing.T) {
		tests := []struct {
			name    string
			mutate  func(echo.Map)
			wantMsg string
		}{
			{name: "missing price", mutate: func(b echo.Map) { delete(b, "price") }, wantMsg: "price is required"},
			{name: "negative stock", mutate: func(b echo.Map) { b["stock"] = -1 }, wantMsg: "stock cannot be below 0"},
			{name: "bad image url", mutate: func(b echo.Map) { b["images"] = []echo.Map{{"url": "nope"}} }, wantMsg: "url must be a valid URL"},
			{name: "discount above 100", mutate: func(b echo.Map) { b["discount"] = echo.Map{"percentage": 120} }, wantMsg: "percentage cannot exceed 100"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				api := newTestAPI(t)
				token := api.loginAs(newIdentity(entity.UserTypeSeller, entity.RoleUser))
				body := validBody()
				tt.mutate(body)

				rec := api.do(http.MethodPost, "/api/products", body, token)

				errBody := requireErrorBody(t, rec, http.StatusBadRequest, domainerrors.CodeValidationFailed)
				assert.Equal(t, tt.wantMsg, errBody["message"])
			})
		}
	})
}

func TestUpdateProduct(t *testing.T) {
	t.Run("forbidden for non owner", func(t *testing.T) {
		api := newTestAPI(t)
		other := newIdentity(entity.UserTypeSeller, entity.RoleUser)
		token := api.loginAs(other)
		id := uuid.Must(uuid.NewV7())

		api.productUC.EXPECT().Update(mock.Anything, other, id, mock.Anything).
			Return(nil, domainerrors.ErrForbidden.WithDetails("not the owner"))

		rec := api.do(http.MethodPut, "/api/products/"+id.String(), echo.Map{"price": 10}, token)

		body := requireErrorBody(t, rec, http.StatusForbidden, domainerrors.CodeForbidden)
		assert.NotContains(t, body, "details")
	})

	t.Run("passes only present fields", func(t *testing.T) {
		api := newTestAPI(t)
		seller := newIdentity(entity.UserTypeSeller, entity.RoleUser)
		token := api.loginAs(seller)
		product := newCatalogProduct(seller.ID)

		api.productUC.EXPECT().
			Update(mock.Anything, seller, product.ID, mock.MatchedBy(func(in *usecase.UpdateProductInput) bool {
				return in.Price != nil && *in.Price == 0 &&
					in.Status != nil && *in.Status == entity.ProductStatusInactive &&
					in.Name == nil && in.Images == nil && in.Discount == nil
			})).
			Return(product, nil)

		rec := api.do(http.MethodPut, "/api/products/"+product.ID.String(), echo.Map{"price": 0, "status": "inactive"}, token)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}

func TestDeleteProduct(t *testing.T) {
	api := newTestAPI(t)
	admin := newIdentity(entity.UserTypeUser, entity.RoleAdmin)
	token := api.loginAs(admin)
	id := uuid.Must(uuid.NewV7())
	api.productUC.EXPECT().Delete(mock.Anything, admin, id).Return(nil)

	rec := api.do(http.MethodDelete, "/api/products/"+id.String(), nil, token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", decodeBody(t, rec)["status"])
}
