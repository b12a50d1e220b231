package postgres

import (
	"testing"
	"time"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMapping_KeepsCredentialFields(t *testing.T) {
	changedAt := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	user := &entity.User{
		ID:                uuid.New(),
		Name:              "Sam Seller",
		Email:             "sam@example.com",
		PasswordHash:      "$2a$12$hash",
		Role:              entity.RoleAdmin,
		UserType:          entity.UserTypeSeller,
		BusinessName:      "Sam's",
		BusinessAddress:   "1 Road",
		Cart:              []entity.CartItem{{ProductID: uuid.New(), Quantity: 3}},
		PasswordChangedAt: &changedAt,
	}

	userM := fromUserDomain(user)
	assert.Equal(t, "admin", userM.Role)
	assert.Equal(t, "seller", userM.UserType)
	require.Len(t, userM.Cart, 1)
	assert.NotNil(t, userM.Wishlist)

	back := toUserDomain(userM)
	assert.Equal(t, user.PasswordHash, back.PasswordHash)
	assert.Equal(t, user.Cart, back.Cart)
	assert.Equal(t, user.PasswordChangedAt, back.PasswordChangedAt)
	assert.Equal(t, user.Role, back.Role)
}

func TestOrderMapping_EmbedsDocuments(t *testing.T) {
	order := &entity.Order{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Items:           []entity.OrderItem{{ProductID: uuid.New(), Quantity: 2, Price: 9.5}},
		TotalAmount:     19,
		ShippingAddress: entity.ShippingAddress{Street: "1 Main", City: "Springfield", State: "IL", Country: "US", ZipCode: "62701"},
		PaymentInfo:     entity.PaymentInfo{Method: entity.PaymentPayPal, Status: entity.PaymentStatusPending},
		Status:          entity.OrderStatusPending,
	}

	orderM := fromOrderDomain(order)
	assert.Equal(t, order.ShippingAddress, orderM.ShippingAddress.Data())
	assert.NotNil(t, orderM.StatusHistory)

	back := toOrderDomain(orderM)
	assert.Equal(t, order.Items, back.Items)
	assert.Equal(t, order.PaymentInfo, back.PaymentInfo)
}
