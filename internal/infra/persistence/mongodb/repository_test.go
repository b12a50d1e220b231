package mongodb

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/repository"
	"marketplace/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockT(t *testing.T) *mtest.T {
	t.Helper()

	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func userDoc(id uuid.UUID, email string, createdAt time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "name", Value: "Ada Lovelace"},
		{Key: "email", Value: email},
		{Key: "passwordHash", Value: "$2a$10$hash"},
		{Key: "role", Value: "user"},
		{Key: "userType", Value: "user"},
		{Key: "cart", Value: bson.A{}},
		{Key: "wishlist", Value: bson.A{}},
		{Key: "createdAt", Value: createdAt},
		{Key: "updatedAt", Value: createdAt},
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mt := newMockT(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	id := uuid.Must(uuid.NewV7())

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, userDoc(id, "ada@example.com", created)))
		repo := NewUserRepository(mt.DB)

		user, err := repo.FindByEmail(context.Background(), "ada@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, "ada@example.com", user.Email)
		assert.Equal(mt, entity.RoleUser, user.Role)
		assert.Equal(mt, entity.UserTypeUser, user.UserType)
		assert.True(mt, created.Equal(user.CreatedAt))
		assert.Nil(mt, user.PasswordChangedAt)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))
		repo := NewUserRepository(mt.DB)

		_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(mt, err, repository.ErrUserNotFound)
	})

	mt.Run("driver failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "boom"}))
		repo := NewUserRepository(mt.DB)

		_, err := repo.FindByEmail(context.Background(), "ada@example.com")
		var dbErr *domainerrors.DatabaseExecuteError
		assert.True(mt, errors.As(err, &dbErr))
	})
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	mt := newMockT(t)

	mt.Run("taken", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}))
		repo := NewUserRepository(mt.DB)

		exists, err := repo.ExistsByEmail(context.Background(), "ada@example.com")
		require.NoError(mt, err)
		assert.True(mt, exists)
	})

	mt.Run("free", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))
		repo := NewUserRepository(mt.DB)

		exists, err := repo.ExistsByEmail(context.Background(), "ada@example.com")
		require.NoError(mt, err)
		assert.False(mt, exists)
	})
}

func TestUserRepository_Create(t *testing.T) {
	mt := newMockT(t)

	mt.Run("stamps timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewUserRepository(mt.DB)

		user, err := entity.NewUser("Ada", "ada@example.com", entity.UserTypeUser, "", "")
		require.NoError(mt, err)
		require.NoError(mt, repo.Create(context.Background(), user))

		assert.False(mt, user.CreatedAt.IsZero())
		assert.Equal(mt, user.CreatedAt, user.UpdatedAt)
		assert.Equal(mt, user.CreatedAt, user.CreatedAt.Truncate(time.Millisecond))
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}))
		repo := NewUserRepository(mt.DB)

		user, err := entity.NewUser("Ada", "ada@example.com", entity.UserTypeUser, "", "")
		require.NoError(mt, err)

		err = repo.Create(context.Background(), user)
		assert.ErrorIs(mt, err, repository.ErrDuplicateEmail)
	})
}

func TestUserRepository_Update(t *testing.T) {
	mt := newMockT(t)

	mt.Run("matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		repo := NewUserRepository(mt.DB)

		user := &entity.User{ID: uuid.Must(uuid.NewV7()), Email: "ada@example.com"}
		require.NoError(mt, repo.Update(context.Background(), user))
		assert.False(mt, user.UpdatedAt.IsZero())
	})

	mt.Run("missing user keeps previous timestamp", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		repo := NewUserRepository(mt.DB)

		previous := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		user := &entity.User{ID: uuid.Must(uuid.NewV7()), UpdatedAt: previous}
		err := repo.Update(context.Background(), user)
		assert.ErrorIs(mt, err, repository.ErrUserNotFound)
		assert.Equal(mt, previous, user.UpdatedAt)
	})
}

func TestProductRepository(t *testing.T) {
	mt := newMockT(t)
	seller := uuid.Must(uuid.NewV7())
	productID := uuid.Must(uuid.NewV7())
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	doc := bson.D{
		{Key: "_id", Value: productID.String()},
		{Key: "name", Value: "Headphones"},
		{Key: "description", Value: "Noise cancelling"},
		{Key: "price", Value: 199.99},
		{Key: "category", Value: "Electronics"},
		{Key: "images", Value: bson.A{bson.D{{Key: "url", Value: "https://img.example.com/1.png"}}}},
		{Key: "stock", Value: 5},
		{Key: "discount", Value: bson.D{{Key: "percentage", Value: 10.0}}},
		{Key: "status", Value: "active"},
		{Key: "createdBy", Value: seller.String()},
		{Key: "createdAt", Value: created},
		{Key: "updatedAt", Value: created},
	}

	mt.Run("find by id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.products", mtest.FirstBatch, doc))
		repo := NewProductRepository(mt.DB)

		product, err := repo.FindByID(context.Background(), productID)
		require.NoError(mt, err)
		assert.Equal(mt, "Headphones", product.Name)
		assert.Equal(mt, entity.CategoryElectronics, product.Category)
		assert.Equal(mt, seller, product.CreatedBy)
		assert.InDelta(mt, 10.0, product.Discount.Percentage, 0.0001)
		require.Len(mt, product.Images, 1)
		assert.Equal(mt, "https://img.example.com/1.png", product.Images[0].URL)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.products", mtest.FirstBatch))
		repo := NewProductRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), productID)
		assert.ErrorIs(mt, err, repository.ErrProductNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.products", mtest.FirstBatch, doc))
		repo := NewProductRepository(mt.DB)

		products, err := repo.List(context.Background(), repository.ProductFilter{CreatedBy: seller})
		require.NoError(mt, err)
		require.Len(mt, products, 1)
		assert.Equal(mt, productID, products[0].ID)
	})

	mt.Run("find by no ids skips the round trip", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)

		products, err := repo.FindByIDs(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, products)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewProductRepository(mt.DB)

		err := repo.Delete(context.Background(), productID)
		assert.ErrorIs(mt, err, repository.ErrProductNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewProductRepository(mt.DB)

		assert.NoError(mt, repo.Delete(context.Background(), productID))
	})
}

func TestOrderRepository(t *testing.T) {
	mt := newMockT(t)
	buyer := uuid.Must(uuid.NewV7())
	orderID := uuid.Must(uuid.NewV7())
	created := time.Date(2024, 6, 2, 9, 30, 0, 0, time.UTC)

	doc := bson.D{
		{Key: "_id", Value: orderID.String()},
		{Key: "userId", Value: buyer.String()},
		{Key: "items", Value: bson.A{bson.D{
			{Key: "product", Value: uuid.Must(uuid.NewV7()).String()},
			{Key: "quantity", Value: 2},
			{Key: "price", Value: 12.5},
		}}},
		{Key: "totalAmount", Value: 25.0},
		{Key: "shippingAddress", Value: bson.D{{Key: "city", Value: "London"}}},
		{Key: "paymentInfo", Value: bson.D{{Key: "method", Value: "paypal"}, {Key: "status", Value: "pending"}}},
		{Key: "status", Value: "pending"},
		{Key: "statusHistory", Value: bson.A{bson.D{{Key: "status", Value: "pending"}, {Key: "timestamp", Value: created}}}},
		{Key: "createdAt", Value: created},
		{Key: "updatedAt", Value: created},
	}

	mt.Run("list by user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.orders", mtest.FirstBatch, doc))
		repo := NewOrderRepository(mt.DB)

		orders, err := repo.ListByUser(context.Background(), buyer)
		require.NoError(mt, err)
		require.Len(mt, orders, 1)
		order := orders[0]
		assert.Equal(mt, orderID, order.ID)
		assert.Equal(mt, buyer, order.UserID)
		assert.Equal(mt, entity.OrderStatusPending, order.Status)
		assert.Equal(mt, "London", order.ShippingAddress.City)
		assert.Equal(mt, entity.PaymentPayPal, order.PaymentInfo.Method)
		require.Len(mt, order.StatusHistory, 1)
		assert.True(mt, created.Equal(order.StatusHistory[0].Timestamp))
	})

	mt.Run("find missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.orders", mtest.FirstBatch))
		repo := NewOrderRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), orderID)
		assert.ErrorIs(mt, err, repository.ErrOrderNotFound)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		repo := NewOrderRepository(mt.DB)

		err := repo.Update(context.Background(), &entity.Order{ID: orderID})
		assert.ErrorIs(mt, err, repository.ErrOrderNotFound)
	})
}

func TestDocumentsRoundTripUser(t *testing.T) {
	changed := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	productID := uuid.Must(uuid.NewV7())
	user := &entity.User{
		ID:                uuid.Must(uuid.NewV7()),
		Name:              "Grace",
		Email:             "grace@example.com",
		Role:              entity.RoleAdmin,
		UserType:          entity.UserTypeSeller,
		BusinessName:      "Hopper Supplies",
		Cart:              []entity.CartItem{{ProductID: productID, Quantity: 3}},
		Wishlist:          []uuid.UUID{productID},
		PasswordChangedAt: &changed,
	}

	got := toUserDocument(user).toEntity()
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Cart, got.Cart)
	assert.Equal(t, user.Wishlist, got.Wishlist)
	assert.Equal(t, entity.RoleAdmin, got.Role)
	require.NotNil(t, got.PasswordChangedAt)
	assert.True(t, changed.Equal(*got.PasswordChangedAt))
}

func TestParseID_Corrupt(t *testing.T) {
	assert.Equal(t, uuid.Nil, parseID("not-a-uuid"))
}
