package usecase

import (
	"context"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderItemInput is one requested line of an order.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput defines a purchase. Prices are taken from the catalog, never from the caller.
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress entity.ShippingAddress
	PaymentMethod   entity.PaymentMethod
	Notes           string
}

// UpdateOrderStatusInput moves an order through fulfilment.
type UpdateOrderStatusInput struct {
	Status         entity.OrderStatus
	Note           string
	TrackingNumber string
}

// OrderUsecase places and tracks orders.
type OrderUsecase interface {
	Create(ctx context.Context, identity *entity.Identity, input *CreateOrderInput) (*entity.Order, error)
	ListMine(ctx context.Context, identity *entity.Identity) ([]*entity.Order, error)
	Get(ctx context.Context, identity *entity.Identity, id uuid.UUID) (*entity.Order, error)
	UpdateStatus(ctx context.Context, identity *entity.Identity, id uuid.UUID, input *UpdateOrderStatusInput) (*entity.Order, error)
}
