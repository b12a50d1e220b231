package impl

import (
	"context"
	"net/http"
	"testing"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	mockRepo "marketplace/internal/mocks/repository"
	"marketplace/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productServiceFixtures struct {
	service     usecase.ProductUsecase
	productRepo *mockRepo.MockProductRepository
}

func createTestProductService(t *testing.T) productServiceFixtures {
	productRepo := mockRepo.NewMockProductRepository(t)

	return productServiceFixtures{
		service: NewProductService(ProductServiceParams{
			ProductRepo: productRepo,
			Logger:      newDiscardLogger(),
		}),
		productRepo: productRepo,
	}
}

func newIdentity(userType entity.UserType, role entity.Role) *entity.Identity {
	return &entity.Identity{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     "Test",
		Email:    "test@example.com",
		Role:     role,
		UserType: userType,
	}
}

func validProductInput() *usecase.CreateProductInput {
	return &usecase.CreateProductInput{
		Name:        "Headphones",
		Description: "Noise cancelling",
		Price:       199.99,
		Category:    entity.CategoryElectronics,
		Stock:       10,
	}
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("buyers are forbidden", func(t *testing.T) {
		fx := createTestProductService(t)

		_, err := fx.service.Create(ctx, newIdentity(entity.UserTypeUser, entity.RoleUser), validProductInput())

		requireAppError(t, err, http.StatusForbidden, domainerrors.CodeForbidden)
	})

	t.Run("seller creates an active product", func(t *testing.T) {
		fx := createTestProductService(t)
		seller := newIdentity(entity.UserTypeSeller, entity.RoleUser)

		fx.productRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

		product, err := fx.service.Create(ctx, seller, validProductInput())

		require.NoError(t, err)
		assert.Equal(t, seller.ID, product.CreatedBy)
		assert.Equal(t, entity.ProductStatusActive, product.Status)
		assert.NotEqual(t, uuid.Nil, product.ID)
	})

	t.Run("admin buyer may create", func(t *testing.T) {
		fx := createTestProductService(t)

		fx.productRepo.EXPECT().Create(ctx, mock.Anything).Return(nil)

		_, err := fx.service.Create(ctx, newIdentity(entity.UserTypeUser, entity.RoleAdmin), validProductInput())

		require.NoError(t, err)
	})

	t.Run("invalid category", func(t *testing.T) {
		fx := createTestProductService(t)
		input := validProductInput()
		input.Category = "Toys"

		_, err := fx.service.Create(ctx, newIdentity(entity.UserTypeSeller, entity.RoleUser), input)

		requireAppError(t, err, http.StatusBadRequest, domainerrors.CodeValidationFailed)
	})

	t.Run("discount out of range", func(t *testing.T) {
		fx := createTestProductService(t)
		input := validProductInput()
		input.Discount = entity.Discount{Percentage: 120}

		_, err := fx.service.Create(ctx, newIdentity(entity.UserTypeSeller, entity.RoleUser), input)

		requireAppError(t, err, http.StatusBadRequest, domainerrors.CodeValidationFailed)
	})
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	owner := newIdentity(entity.UserTypeSeller, entity.RoleUser)
	stored := func() *entity.Product {
		return &entity.Product{
			ID:          uuid.Must(uuid.NewV7()),
			Name:        "Headphones",
			Description: "Noise cancelling",
			Price:       199.99,
			Category:    entity.CategoryElectronics,
			Stock:       10,
			Status:      entity.ProductStatusActive,
			CreatedBy:   owner.ID,
		}
	}

	t.Run("other seller is forbidden", func(t *testing.T) {
		fx := createTestProductService(t)
		product := stored()
		fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)

		price := 10.0
		_, err := fx.service.Update(ctx, newIdentity(entity.UserTypeSeller, entity.RoleUser), product.ID, &usecase.UpdateProductInput{Price: &price})

		requireAppError(t, err, http.StatusForbidden, domainerrors.CodeForbidden)
	})

	t.Run("owner updates", func(t *testing.T) {
		fx := createTestProductService(t)
		product := stored()
		fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
		fx.productRepo.EXPECT().Update(ctx, product).Return(nil)

		price := 149.0
		status := entity.ProductStatusInactive
		updated, err := fx.service.Update(ctx, owner, product.ID, &usecase.UpdateProductInput{Price: &price, Status: &status})

		require.NoError(t, err)
		assert.InDelta(t, 149.0, updated.Price, 0.0001)
		assert.Equal(t, entity.ProductStatusInactive, updated.Status)
	})

	t.Run("admin deletes any product", func(t *testing.T) {
		fx := createTestProductService(t)
		product := stored()
		fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
		fx.productRepo.EXPECT().Delete(ctx, product.ID).Return(nil)

		err := fx.service.Delete(ctx, newIdentity(entity.UserTypeUser, entity.RoleAdmin), product.ID)

		require.NoError(t, err)
	})

	t.Run("missing product", func(t *testing.T) {
		fx := createTestProductService(t)
		id := uuid.Must(uuid.NewV7())
		fx.productRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrProductNotFound)

		err := fx.service.Delete(ctx, owner, id)

		requireAppError(t, err, http.StatusNotFound, "PRODUCT_NOT_FOUND")
	})
}

func TestProductService_List_RejectsUnknownFilter(t *testing.T) {
	fx := createTestProductService(t)

	_, err := fx.service.List(context.Background(), repository.ProductFilter{Category: "Toys"})

	requireAppError(t, err, http.StatusBadRequest, domainerrors.CodeValidationFailed)
}
